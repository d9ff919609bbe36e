package service

import (
	"context"
	"sync"
	"time"

	"fleetalloc/internal/vehicles/repository"
	"fleetalloc/pkg/cache"
	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
)

// AllocationLookup is the enrichment join: it resolves a vehicle's nearest
// future allocation. Satisfied by the allocations repository.
type AllocationLookup interface {
	FindNextByVehicle(ctx context.Context, vehicleID int, asOf time.Time) (*model.Allocation, error)
}

type VehicleService interface {
	List(ctx context.Context, allocated bool, limit int, offset int64) ([]*model.VehicleWithAllocation, int64, error)
}

type vehicleService struct {
	repo        repository.VehicleRepository
	allocations AllocationLookup
	cache       cache.Store
	cfg         *config.Config
	now         func() time.Time
}

func NewVehicleService(
	repo repository.VehicleRepository,
	allocations AllocationLookup,
	cacheStore cache.Store,
	cfg *config.Config,
) VehicleService {
	return &vehicleService{
		repo:        repo,
		allocations: allocations,
		cache:       cacheStore,
		cfg:         cfg,
		now:         time.Now,
	}
}

type vehiclePage struct {
	Vehicles []*model.VehicleWithAllocation `json:"vehicles"`
	Total    int64                          `json:"total"`
}

func (s *vehicleService) List(ctx context.Context, allocated bool, limit int, offset int64) ([]*model.VehicleWithAllocation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	key := cache.VehicleListKey(allocated, limit, offset)
	var cached vehiclePage
	if s.cache.Get(ctx, key, &cached) {
		return cached.Vehicles, cached.Total, nil
	}

	var count int64
	var vehicles []*model.Vehicle
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count vehicles", "error", errCount)
			errCount = apperrors.Internal("Failed to count vehicles", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		vehicles, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list vehicles", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve vehicles", errFind)
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
		return nil, 0, apperrors.NotFound("Vehicles")
	}

	enriched := make([]*model.VehicleWithAllocation, 0, len(vehicles))
	asOf := s.now()
	for _, vehicle := range vehicles {
		entry := &model.VehicleWithAllocation{Vehicle: *vehicle}

		if allocated {
			allocation, err := s.allocations.FindNextByVehicle(ctx, vehicle.ID, asOf)
			if err != nil {
				s.cfg.Log.Error("Failed to resolve vehicle allocation", "vehicle_id", vehicle.ID, "error", err)
				return nil, 0, apperrors.Internal("Failed to resolve vehicle allocation", err)
			}
			if allocation != nil {
				entry.AllocatedBy = &model.AllocationSummary{
					ID:             allocation.ID.Hex(),
					EmployeeID:     allocation.EmployeeID,
					AllocationDate: allocation.AllocationDate,
				}
			}
		}

		enriched = append(enriched, entry)
	}

	s.cache.Set(ctx, cache.NamespaceVehicles, key, vehiclePage{
		Vehicles: enriched,
		Total:    count,
	}, s.cfg.EntityCacheTTL)

	return enriched, count, nil
}
