package admission

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	allocerrors "fleetalloc/internal/allocations/errors"
	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRepo struct {
	findByIDFunc             func(ctx context.Context, id string) (*model.Allocation, error)
	findActiveByEmployeeFunc func(ctx context.Context, employeeID int, since time.Time, excludeID string) (*model.Allocation, error)
	findByVehicleAndDateFunc func(ctx context.Context, vehicleID int, date time.Time, excludeID string) (*model.Allocation, error)
}

func (m *mockRepo) Insert(ctx context.Context, allocation *model.Allocation) error { return nil }

func (m *mockRepo) FindByID(ctx context.Context, id string) (*model.Allocation, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Allocation, error) {
	return nil, nil
}

func (m *mockRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockRepo) Replace(ctx context.Context, id string, allocation *model.Allocation) (*model.Allocation, error) {
	return nil, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockRepo) FindByFilter(ctx context.Context, filter model.AllocationHistoryFilter) ([]*model.Allocation, error) {
	return nil, nil
}

func (m *mockRepo) FindActiveByEmployee(ctx context.Context, employeeID int, since time.Time, excludeID string) (*model.Allocation, error) {
	if m.findActiveByEmployeeFunc != nil {
		return m.findActiveByEmployeeFunc(ctx, employeeID, since, excludeID)
	}
	return nil, nil
}

func (m *mockRepo) FindByVehicleAndDate(ctx context.Context, vehicleID int, date time.Time, excludeID string) (*model.Allocation, error) {
	if m.findByVehicleAndDateFunc != nil {
		return m.findByVehicleAndDateFunc(ctx, vehicleID, date, excludeID)
	}
	return nil, nil
}

func (m *mockRepo) FindNextByVehicle(ctx context.Context, vehicleID int, asOf time.Time) (*model.Allocation, error) {
	return nil, nil
}

func (m *mockRepo) FindNextByEmployee(ctx context.Context, employeeID int, asOf time.Time) (*model.Allocation, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func newTestEngine(repo *mockRepo, now time.Time) *Engine {
	e := NewEngine(repo, testConfig())
	e.now = func() time.Time { return now }
	return e
}

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func futureInput() *model.AllocationInput {
	return &model.AllocationInput{
		EmployeeID:     42,
		VehicleID:      7,
		AllocationDate: fixedNow.Add(48 * time.Hour),
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code)
	}
}

func TestCanCreateAllowsConflictFreeCandidate(t *testing.T) {
	engine := newTestEngine(&mockRepo{}, fixedNow)

	if err := engine.CanCreate(context.Background(), futureInput()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCanCreateRejectsEmployeeWithActiveAllocation(t *testing.T) {
	existing := &model.Allocation{
		ID:             primitive.NewObjectID(),
		EmployeeID:     42,
		VehicleID:      99,
		AllocationDate: fixedNow.Add(24 * time.Hour),
	}
	repo := &mockRepo{
		findActiveByEmployeeFunc: func(ctx context.Context, employeeID int, since time.Time, excludeID string) (*model.Allocation, error) {
			if employeeID != 42 {
				t.Errorf("expected lookup for employee 42, got %d", employeeID)
			}
			if !since.Equal(fixedNow) {
				t.Errorf("expected lookup since %v, got %v", fixedNow, since)
			}
			return existing, nil
		},
	}
	engine := newTestEngine(repo, fixedNow)

	err := engine.CanCreate(context.Background(), futureInput())
	assertCode(t, err, apperrors.CodeEmployeeAlreadyBooked)
}

func TestCanCreateRejectsVehicleBookedOnSameDate(t *testing.T) {
	input := futureInput()
	repo := &mockRepo{
		findByVehicleAndDateFunc: func(ctx context.Context, vehicleID int, date time.Time, excludeID string) (*model.Allocation, error) {
			if vehicleID != input.VehicleID {
				t.Errorf("expected lookup for vehicle %d, got %d", input.VehicleID, vehicleID)
			}
			if !date.Equal(input.AllocationDate) {
				t.Errorf("expected lookup for date %v, got %v", input.AllocationDate, date)
			}
			return &model.Allocation{ID: primitive.NewObjectID(), VehicleID: vehicleID}, nil
		},
	}
	engine := newTestEngine(repo, fixedNow)

	err := engine.CanCreate(context.Background(), input)
	assertCode(t, err, apperrors.CodeVehicleAlreadyBooked)
}

func TestCanUpdateRejectsPastProposedDate(t *testing.T) {
	engine := newTestEngine(&mockRepo{}, fixedNow)

	input := futureInput()
	input.AllocationDate = fixedNow.Add(-time.Hour)

	err := engine.CanUpdate(context.Background(), primitive.NewObjectID().Hex(), input)
	assertCode(t, err, apperrors.CodePastAllocationImmutable)
}

func TestCanUpdateExcludesTheUpdatedAllocation(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	var employeeExclude, vehicleExclude string
	repo := &mockRepo{
		findActiveByEmployeeFunc: func(ctx context.Context, employeeID int, since time.Time, excludeID string) (*model.Allocation, error) {
			employeeExclude = excludeID
			return nil, nil
		},
		findByVehicleAndDateFunc: func(ctx context.Context, vehicleID int, date time.Time, excludeID string) (*model.Allocation, error) {
			vehicleExclude = excludeID
			return nil, nil
		},
	}
	engine := newTestEngine(repo, fixedNow)

	if err := engine.CanUpdate(context.Background(), id, futureInput()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if employeeExclude != id {
		t.Errorf("employee check did not exclude %s, got %q", id, employeeExclude)
	}
	if vehicleExclude != id {
		t.Errorf("vehicle check did not exclude %s, got %q", id, vehicleExclude)
	}
}

func TestCanUpdateRejectsMalformedIDAsInvalidInput(t *testing.T) {
	repo := &mockRepo{
		findActiveByEmployeeFunc: func(ctx context.Context, employeeID int, since time.Time, excludeID string) (*model.Allocation, error) {
			return nil, fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, excludeID)
		},
	}
	engine := newTestEngine(repo, fixedNow)

	err := engine.CanUpdate(context.Background(), "not-a-hex-id", futureInput())
	assertCode(t, err, apperrors.CodeInvalidInput)

	appErr := err.(*apperrors.AppError)
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", appErr.HTTPStatus)
	}
}

func TestCanDeleteReturnsStoredFutureAllocation(t *testing.T) {
	stored := &model.Allocation{
		ID:             primitive.NewObjectID(),
		EmployeeID:     1,
		VehicleID:      2,
		AllocationDate: fixedNow.Add(72 * time.Hour),
	}
	repo := &mockRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Allocation, error) {
			return stored, nil
		},
	}
	engine := newTestEngine(repo, fixedNow)

	got, err := engine.CanDelete(context.Background(), stored.ID.Hex())
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if got != stored {
		t.Fatalf("expected stored allocation back, got %+v", got)
	}
}

func TestCanDeleteRejectsPastAllocation(t *testing.T) {
	repo := &mockRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Allocation, error) {
			return &model.Allocation{
				ID:             primitive.NewObjectID(),
				AllocationDate: fixedNow.Add(-24 * time.Hour),
			}, nil
		},
	}
	engine := newTestEngine(repo, fixedNow)

	_, err := engine.CanDelete(context.Background(), primitive.NewObjectID().Hex())
	assertCode(t, err, apperrors.CodePastAllocationImmutable)
}

func TestCanDeleteMapsRepositoryErrors(t *testing.T) {
	cases := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"missing allocation", allocerrors.ErrNotFound, apperrors.CodeNotFound},
		{"malformed id", allocerrors.ErrInvalidID, apperrors.CodeInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Allocation, error) {
					return nil, tc.repoErr
				},
			}
			engine := newTestEngine(repo, fixedNow)

			_, err := engine.CanDelete(context.Background(), "whatever")
			assertCode(t, err, tc.wantCode)
		})
	}
}
