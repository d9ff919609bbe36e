package service

import (
	"context"
	"errors"
	"sync"

	"fleetalloc/internal/allocations/admission"
	allocerrors "fleetalloc/internal/allocations/errors"
	"fleetalloc/internal/allocations/repository"
	"fleetalloc/internal/allocations/validator"
	"fleetalloc/pkg/cache"
	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
)

type AllocationService interface {
	Create(ctx context.Context, input *model.AllocationInput) (*model.Allocation, error)
	Update(ctx context.Context, id string, input *model.AllocationInput) (*model.Allocation, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int, offset int64) ([]*model.Allocation, int64, error)
	History(ctx context.Context, filter model.AllocationHistoryFilter) ([]*model.Allocation, error)
}

type allocationService struct {
	repo      repository.AllocationRepository
	admission *admission.Engine
	validator *validator.AllocationValidator
	cache     cache.Store
	cfg       *config.Config
}

func NewAllocationService(
	repo repository.AllocationRepository,
	engine *admission.Engine,
	validator *validator.AllocationValidator,
	cacheStore cache.Store,
	cfg *config.Config,
) AllocationService {
	return &allocationService{
		repo:      repo,
		admission: engine,
		validator: validator,
		cache:     cacheStore,
		cfg:       cfg,
	}
}

// listPage is the cached shape for paginated listings: the page and its
// total count travel together so cached reads stay self-consistent.
type listPage struct {
	Allocations []*model.Allocation `json:"allocations"`
	Total       int64               `json:"total"`
}

func (s *allocationService) Create(ctx context.Context, input *model.AllocationInput) (*model.Allocation, error) {
	if err := s.validator.ValidateCreate(input); err != nil {
		s.cfg.Log.Warn("Allocation validation failed", "error", err)
		return nil, apperrors.Validation("Allocation validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.admission.CanCreate(ctx, input); err != nil {
		return nil, err
	}

	allocation := &model.Allocation{
		EmployeeID:     input.EmployeeID,
		VehicleID:      input.VehicleID,
		AllocationDate: input.AllocationDate.UTC(),
	}

	if err := s.repo.Insert(ctx, allocation); err != nil {
		if errors.Is(err, allocerrors.ErrDuplicateKey) {
			// Lost the admission race; the unique index is authoritative.
			return nil, apperrors.VehicleAlreadyBooked(input.VehicleID)
		}
		s.cfg.Log.Error("Failed to create allocation", "error", err)
		return nil, apperrors.Internal("Failed to create allocation", err)
	}

	s.invalidateCaches(ctx)

	s.cfg.Log.Info("Allocation created successfully",
		"id", allocation.ID.Hex(),
		"employee_id", allocation.EmployeeID,
		"vehicle_id", allocation.VehicleID,
		"allocation_date", allocation.AllocationDate,
	)
	return allocation, nil
}

func (s *allocationService) Update(ctx context.Context, id string, input *model.AllocationInput) (*model.Allocation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Allocation ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(input); err != nil {
		s.cfg.Log.Warn("Allocation update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Allocation validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.admission.CanUpdate(ctx, id, input); err != nil {
		return nil, err
	}

	replacement := &model.Allocation{
		EmployeeID:     input.EmployeeID,
		VehicleID:      input.VehicleID,
		AllocationDate: input.AllocationDate.UTC(),
	}

	updated, err := s.repo.Replace(ctx, id, replacement)
	if err != nil {
		switch {
		case errors.Is(err, allocerrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Allocation", id)
		case errors.Is(err, allocerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid allocation ID format")
		case errors.Is(err, allocerrors.ErrDuplicateKey):
			return nil, apperrors.VehicleAlreadyBooked(input.VehicleID)
		}
		s.cfg.Log.Error("Failed to update allocation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update allocation", err)
	}

	s.invalidateCaches(ctx)

	s.cfg.Log.Info("Allocation updated successfully", "id", id)
	return updated, nil
}

func (s *allocationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Allocation ID cannot be empty")
	}

	if _, err := s.admission.CanDelete(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		// Covers the record vanishing between the admission check and the
		// delete; both collapse into not-found for the caller.
		if errors.Is(err, allocerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Allocation", id)
		}
		if errors.Is(err, allocerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid allocation ID format")
		}
		s.cfg.Log.Error("Failed to delete allocation", "id", id, "error", err)
		return apperrors.Internal("Failed to delete allocation", err)
	}

	s.invalidateCaches(ctx)

	s.cfg.Log.Info("Allocation deleted successfully", "id", id)
	return nil
}

func (s *allocationService) List(ctx context.Context, limit int, offset int64) ([]*model.Allocation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	key := cache.AllocationListKey(limit, offset)
	var cached listPage
	if s.cache.Get(ctx, key, &cached) {
		return cached.Allocations, cached.Total, nil
	}

	var count int64
	var allocations []*model.Allocation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count allocations", "error", errCount)
			errCount = apperrors.Internal("Failed to count allocations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		allocations, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list allocations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve allocations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	// An exhausted page of a non-empty collection is an empty page, not an
	// error; only a truly empty collection reports not-found.
	if count == 0 {
		return nil, 0, apperrors.NotFound("Allocations")
	}

	if allocations == nil {
		allocations = []*model.Allocation{}
	}

	s.cache.Set(ctx, cache.NamespaceAllocations, key, listPage{
		Allocations: allocations,
		Total:       count,
	}, s.cfg.ListCacheTTL)

	return allocations, count, nil
}

func (s *allocationService) History(ctx context.Context, filter model.AllocationHistoryFilter) ([]*model.Allocation, error) {
	if err := validateHistoryFilter(filter); err != nil {
		return nil, err
	}

	key := cache.AllocationHistoryKey(filter)
	var cached []*model.Allocation
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	allocations, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to retrieve allocation history", "filter", filter.String(), "error", err)
		return nil, apperrors.Internal("Failed to retrieve allocation history", err)
	}

	if allocations == nil {
		allocations = []*model.Allocation{}
	}

	s.cache.Set(ctx, cache.NamespaceAllocations, key, allocations, s.cfg.HistoryCacheTTL)

	return allocations, nil
}

func validateHistoryFilter(filter model.AllocationHistoryFilter) error {
	if filter.EmployeeID != nil && (*filter.EmployeeID < 1 || *filter.EmployeeID > 1000) {
		return apperrors.InvalidInput("employee_id must be between 1 and 1000")
	}
	if filter.VehicleID != nil && (*filter.VehicleID < 1 || *filter.VehicleID > 1000) {
		return apperrors.InvalidInput("vehicle_id must be between 1 and 1000")
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return apperrors.InvalidInput("end_date must not be before start_date")
	}
	return nil
}

// invalidateCaches drops every cached listing that could embed allocation
// data. Best effort: a failed invalidation is logged and swallowed, readers
// see stale entries until TTL expiry at worst.
func (s *allocationService) invalidateCaches(ctx context.Context) {
	for _, namespace := range cache.MutationNamespaces {
		if err := s.cache.Invalidate(ctx, namespace); err != nil {
			s.cfg.Log.Warn("Cache invalidation failed",
				"namespace", namespace,
				"error", err,
			)
		}
	}
}
