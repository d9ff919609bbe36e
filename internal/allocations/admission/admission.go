package admission

import (
	"context"
	"errors"
	"time"

	allocerrors "fleetalloc/internal/allocations/errors"
	"fleetalloc/internal/allocations/repository"
	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
)

// Engine enforces the booking invariants before any allocation write:
// at most one active or future allocation per employee, and no vehicle
// allocated twice for the same date-time.
//
// The checks here are advisory. Two concurrent writers can both pass them
// before either write lands; the unique index on (vehicle_id, allocation_date)
// is the source of truth, and the repository reports the losing write as a
// duplicate-key error that callers translate into the same typed conflict.
type Engine struct {
	repo repository.AllocationRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewEngine(repo repository.AllocationRepository, cfg *config.Config) *Engine {
	return &Engine{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// CanCreate checks a brand-new candidate against all existing allocations.
func (e *Engine) CanCreate(ctx context.Context, candidate *model.AllocationInput) error {
	return e.checkConflicts(ctx, candidate, "")
}

// CanUpdate re-validates the proposed state of an existing allocation: the
// proposed date must not be in the past, and both uniqueness checks are
// re-run against every allocation other than the one being updated. The
// stored date is not consulted; only delete guards it.
func (e *Engine) CanUpdate(ctx context.Context, id string, candidate *model.AllocationInput) error {
	if candidate.AllocationDate.Before(e.now()) {
		return apperrors.PastAllocationImmutable("Cannot modify past allocations")
	}

	return e.checkConflicts(ctx, candidate, id)
}

// CanDelete verifies the allocation exists and is still in the future, and
// returns the stored record.
func (e *Engine) CanDelete(ctx context.Context, id string) (*model.Allocation, error) {
	stored, err := e.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, allocerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Allocation", id)
		}
		if errors.Is(err, allocerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid allocation ID format")
		}
		return nil, apperrors.Internal("Failed to check allocation existence", err)
	}

	if stored.AllocationDate.Before(e.now()) {
		return nil, apperrors.PastAllocationImmutable("Cannot delete past allocations")
	}

	return stored, nil
}

func (e *Engine) checkConflicts(ctx context.Context, candidate *model.AllocationInput, excludeID string) error {
	now := e.now()

	existing, err := e.repo.FindActiveByEmployee(ctx, candidate.EmployeeID, now, excludeID)
	if err != nil {
		if errors.Is(err, allocerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid allocation ID format")
		}
		return apperrors.Internal("Failed to check employee allocations", err)
	}
	if existing != nil {
		e.cfg.Log.Debug("Admission rejected: employee already booked",
			"employee_id", candidate.EmployeeID,
			"conflicting_allocation", existing.ID.Hex(),
		)
		return apperrors.EmployeeAlreadyBooked(candidate.EmployeeID)
	}

	existing, err = e.repo.FindByVehicleAndDate(ctx, candidate.VehicleID, candidate.AllocationDate, excludeID)
	if err != nil {
		if errors.Is(err, allocerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid allocation ID format")
		}
		return apperrors.Internal("Failed to check vehicle allocations", err)
	}
	if existing != nil {
		e.cfg.Log.Debug("Admission rejected: vehicle already booked",
			"vehicle_id", candidate.VehicleID,
			"allocation_date", candidate.AllocationDate,
			"conflicting_allocation", existing.ID.Hex(),
		)
		return apperrors.VehicleAlreadyBooked(candidate.VehicleID)
	}

	return nil
}
