package service

import (
	"context"
	"io"
	"testing"
	"time"

	"fleetalloc/pkg/config"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockEmployeeRepo struct {
	findAllFunc func(ctx context.Context, limit int, offset int64) ([]*model.Employee, error)
	countFunc   func(ctx context.Context) (int64, error)
}

func (m *mockEmployeeRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, error) {
	return m.findAllFunc(ctx, limit, offset)
}

func (m *mockEmployeeRepo) Count(ctx context.Context) (int64, error) {
	return m.countFunc(ctx)
}

func (m *mockEmployeeRepo) InsertMany(ctx context.Context, employees []*model.Employee) (int, error) {
	return len(employees), nil
}

type mockLookup struct {
	findNextFunc func(ctx context.Context, employeeID int, asOf time.Time) (*model.Allocation, error)
}

func (m *mockLookup) FindNextByEmployee(ctx context.Context, employeeID int, asOf time.Time) (*model.Allocation, error) {
	if m.findNextFunc != nil {
		return m.findNextFunc(ctx, employeeID, asOf)
	}
	return nil, nil
}

type mockCache struct {
	setCalls []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest any) bool { return false }

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

func TestListEnrichesWithVehicleCounterpart(t *testing.T) {
	allocationID := primitive.NewObjectID()
	allocationDate := time.Now().Add(24 * time.Hour)

	repo := &mockEmployeeRepo{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Employee, error) {
			return []*model.Employee{
				{ID: 456, Name: "Mary Smith", Department: "Engineering"},
				{ID: 457, Name: "John Davis", Department: "Sales"},
			}, nil
		},
		countFunc: func(ctx context.Context) (int64, error) { return 2, nil },
	}
	lookup := &mockLookup{
		findNextFunc: func(ctx context.Context, employeeID int, asOf time.Time) (*model.Allocation, error) {
			if employeeID != 456 {
				return nil, nil
			}
			return &model.Allocation{
				ID:             allocationID,
				EmployeeID:     456,
				VehicleID:      123,
				AllocationDate: allocationDate,
			}, nil
		},
	}
	store := &mockCache{}
	svc := NewEmployeeService(repo, lookup, store, testConfig())

	employees, total, err := svc.List(context.Background(), true, 10, 0)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}

	first := employees[0]
	if first.Allocation == nil {
		t.Fatal("expected employee 456 to carry an allocation summary")
	}
	if first.Allocation.ID != allocationID.Hex() || first.Allocation.VehicleID != 123 {
		t.Errorf("unexpected summary %+v", first.Allocation)
	}
	if employees[1].Allocation != nil {
		t.Error("employee 457 has no future allocation and should have a nil summary")
	}
	if len(store.setCalls) != 1 {
		t.Errorf("expected the page to be cached once, got %v", store.setCalls)
	}
}

func TestListWithoutAllocationsSkipsLookups(t *testing.T) {
	repo := &mockEmployeeRepo{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Employee, error) {
			return []*model.Employee{{ID: 1, Name: "James Wilson", Department: "HR"}}, nil
		},
		countFunc: func(ctx context.Context) (int64, error) { return 1, nil },
	}
	lookup := &mockLookup{
		findNextFunc: func(ctx context.Context, employeeID int, asOf time.Time) (*model.Allocation, error) {
			t.Error("allocation lookup must not run when include_allocations=false")
			return nil, nil
		},
	}
	svc := NewEmployeeService(repo, lookup, &mockCache{}, testConfig())

	employees, _, err := svc.List(context.Background(), false, 10, 0)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if employees[0].Allocation != nil {
		t.Error("expected no allocation summary")
	}
}
