package service

import (
	"context"
	"io"
	"testing"
	"time"

	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockVehicleRepo struct {
	findAllFunc func(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error)
	countFunc   func(ctx context.Context) (int64, error)
}

func (m *mockVehicleRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error) {
	return m.findAllFunc(ctx, limit, offset)
}

func (m *mockVehicleRepo) Count(ctx context.Context) (int64, error) {
	return m.countFunc(ctx)
}

func (m *mockVehicleRepo) InsertMany(ctx context.Context, vehicles []*model.Vehicle) (int, error) {
	return len(vehicles), nil
}

type mockLookup struct {
	findNextFunc func(ctx context.Context, vehicleID int, asOf time.Time) (*model.Allocation, error)
}

func (m *mockLookup) FindNextByVehicle(ctx context.Context, vehicleID int, asOf time.Time) (*model.Allocation, error) {
	if m.findNextFunc != nil {
		return m.findNextFunc(ctx, vehicleID, asOf)
	}
	return nil, nil
}

type mockCache struct {
	getFunc  func(ctx context.Context, key string, dest any) bool
	setCalls []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest any) bool {
	if m.getFunc != nil {
		return m.getFunc(ctx, key, dest)
	}
	return false
}

func (m *mockCache) Set(ctx context.Context, namespace, key string, value any, ttl time.Duration) {
	m.setCalls = append(m.setCalls, namespace+"|"+key)
}

func (m *mockCache) Invalidate(ctx context.Context, namespace string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		EntityCacheTTL: time.Hour,
		Log:            logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func twoVehicles() []*model.Vehicle {
	return []*model.Vehicle{
		{ID: 1, Model: "Toyota Corolla", PlateNumber: "ABC-1234"},
		{ID: 2, Model: "Honda Civic", PlateNumber: "DEF-5678"},
	}
}

func TestListWithoutEnrichmentSkipsAllocationLookups(t *testing.T) {
	repo := &mockVehicleRepo{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error) {
			return twoVehicles(), nil
		},
		countFunc: func(ctx context.Context) (int64, error) { return 2, nil },
	}
	lookup := &mockLookup{
		findNextFunc: func(ctx context.Context, vehicleID int, asOf time.Time) (*model.Allocation, error) {
			t.Error("allocation lookup must not run when allocated=false")
			return nil, nil
		},
	}
	svc := NewVehicleService(repo, lookup, &mockCache{}, testConfig())

	vehicles, total, err := svc.List(context.Background(), false, 10, 0)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if total != 2 || len(vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d (total %d)", len(vehicles), total)
	}
	for _, v := range vehicles {
		if v.AllocatedBy != nil {
			t.Errorf("vehicle %d should have no allocation summary", v.ID)
		}
	}
}

func TestListEnrichesWithNearestFutureAllocation(t *testing.T) {
	allocationID := primitive.NewObjectID()
	allocationDate := time.Now().Add(72 * time.Hour)

	repo := &mockVehicleRepo{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error) {
			return twoVehicles(), nil
		},
		countFunc: func(ctx context.Context) (int64, error) { return 2, nil },
	}
	lookup := &mockLookup{
		findNextFunc: func(ctx context.Context, vehicleID int, asOf time.Time) (*model.Allocation, error) {
			if vehicleID != 1 {
				return nil, nil
			}
			return &model.Allocation{
				ID:             allocationID,
				EmployeeID:     456,
				VehicleID:      1,
				AllocationDate: allocationDate,
			}, nil
		},
	}
	store := &mockCache{}
	svc := NewVehicleService(repo, lookup, store, testConfig())

	vehicles, _, err := svc.List(context.Background(), true, 10, 0)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	first := vehicles[0]
	if first.AllocatedBy == nil {
		t.Fatal("expected vehicle 1 to carry an allocation summary")
	}
	if first.AllocatedBy.ID != allocationID.Hex() {
		t.Errorf("expected summary id %s, got %s", allocationID.Hex(), first.AllocatedBy.ID)
	}
	if first.AllocatedBy.EmployeeID != 456 {
		t.Errorf("expected employee 456 in summary, got %d", first.AllocatedBy.EmployeeID)
	}
	if !first.AllocatedBy.AllocationDate.Equal(allocationDate) {
		t.Errorf("expected date %v, got %v", allocationDate, first.AllocatedBy.AllocationDate)
	}

	if vehicles[1].AllocatedBy != nil {
		t.Error("vehicle 2 has no future allocation and should have a nil summary")
	}

	if len(store.setCalls) != 1 {
		t.Errorf("expected the enriched page to be cached once, got %v", store.setCalls)
	}
}

func TestListReportsNotFoundForEmptyCollection(t *testing.T) {
	repo := &mockVehicleRepo{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error) {
			return nil, nil
		},
		countFunc: func(ctx context.Context) (int64, error) { return 0, nil },
	}
	svc := NewVehicleService(repo, &mockLookup{}, &mockCache{}, testConfig())

	_, _, err := svc.List(context.Background(), false, 10, 0)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListServesFromCache(t *testing.T) {
	repo := &mockVehicleRepo{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error) {
			t.Error("repository must not be hit on cache hit")
			return nil, nil
		},
		countFunc: func(ctx context.Context) (int64, error) {
			t.Error("count must not be hit on cache hit")
			return 0, nil
		},
	}
	store := &mockCache{
		getFunc: func(ctx context.Context, key string, dest any) bool {
			page := dest.(*vehiclePage)
			page.Vehicles = []*model.VehicleWithAllocation{
				{Vehicle: model.Vehicle{ID: 9, Model: "Mazda CX-5"}},
			}
			page.Total = 1
			return true
		},
	}
	svc := NewVehicleService(repo, &mockLookup{}, store, testConfig())

	vehicles, total, err := svc.List(context.Background(), false, 10, 0)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if total != 1 || len(vehicles) != 1 || vehicles[0].ID != 9 {
		t.Fatalf("expected cached page back, got %v (total %d)", vehicles, total)
	}
}
