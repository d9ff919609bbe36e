package service

import (
	"context"
	"sync"
	"time"

	"fleetalloc/internal/employees/repository"
	"fleetalloc/pkg/cache"
	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
)

// AllocationLookup resolves an employee's nearest future allocation.
// Satisfied by the allocations repository.
type AllocationLookup interface {
	FindNextByEmployee(ctx context.Context, employeeID int, asOf time.Time) (*model.Allocation, error)
}

type EmployeeService interface {
	List(ctx context.Context, includeAllocations bool, limit int, offset int64) ([]*model.EmployeeWithAllocation, int64, error)
}

type employeeService struct {
	repo        repository.EmployeeRepository
	allocations AllocationLookup
	cache       cache.Store
	cfg         *config.Config
	now         func() time.Time
}

func NewEmployeeService(
	repo repository.EmployeeRepository,
	allocations AllocationLookup,
	cacheStore cache.Store,
	cfg *config.Config,
) EmployeeService {
	return &employeeService{
		repo:        repo,
		allocations: allocations,
		cache:       cacheStore,
		cfg:         cfg,
		now:         time.Now,
	}
}

type employeePage struct {
	Employees []*model.EmployeeWithAllocation `json:"employees"`
	Total     int64                           `json:"total"`
}

func (s *employeeService) List(ctx context.Context, includeAllocations bool, limit int, offset int64) ([]*model.EmployeeWithAllocation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	key := cache.EmployeeListKey(includeAllocations, limit, offset)
	var cached employeePage
	if s.cache.Get(ctx, key, &cached) {
		return cached.Employees, cached.Total, nil
	}

	var count int64
	var employees []*model.Employee
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count employees", "error", errCount)
			errCount = apperrors.Internal("Failed to count employees", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		employees, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list employees", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve employees", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	if count == 0 {
		return nil, 0, apperrors.NotFound("Employees")
	}

	enriched := make([]*model.EmployeeWithAllocation, 0, len(employees))
	asOf := s.now()
	for _, employee := range employees {
		entry := &model.EmployeeWithAllocation{Employee: *employee}

		if includeAllocations {
			allocation, err := s.allocations.FindNextByEmployee(ctx, employee.ID, asOf)
			if err != nil {
				s.cfg.Log.Error("Failed to resolve employee allocation", "employee_id", employee.ID, "error", err)
				return nil, 0, apperrors.Internal("Failed to resolve employee allocation", err)
			}
			if allocation != nil {
				entry.Allocation = &model.AllocationSummary{
					ID:             allocation.ID.Hex(),
					VehicleID:      allocation.VehicleID,
					AllocationDate: allocation.AllocationDate,
				}
			}
		}

		enriched = append(enriched, entry)
	}

	s.cache.Set(ctx, cache.NamespaceEmployees, key, employeePage{
		Employees: enriched,
		Total:     count,
	}, s.cfg.EntityCacheTTL)

	return enriched, count, nil
}
