package main

import (
	"fleetalloc/internal/allocations/admission"
	allochandler "fleetalloc/internal/allocations/handler"
	allocrepo "fleetalloc/internal/allocations/repository"
	allocservice "fleetalloc/internal/allocations/service"
	allocvalidator "fleetalloc/internal/allocations/validator"
	employeehandler "fleetalloc/internal/employees/handler"
	employeerepo "fleetalloc/internal/employees/repository"
	employeeservice "fleetalloc/internal/employees/service"
	vehiclehandler "fleetalloc/internal/vehicles/handler"
	vehiclerepo "fleetalloc/internal/vehicles/repository"
	vehicleservice "fleetalloc/internal/vehicles/service"
	"fleetalloc/pkg/app"
	"fleetalloc/pkg/cache"
	"fleetalloc/pkg/config"
	"fleetalloc/pkg/contracts"
)

const ServiceName = "fleetalloc"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting vehicle allocation service")

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config) []contracts.Handler {
	store := cache.NewRedisStore(cfg.Client.Redis, cfg.Log)

	allocationRepo := allocrepo.NewMongoAllocationRepository(cfg)
	allocationValidator := allocvalidator.NewAllocationValidator(cfg.Log)
	engine := admission.NewEngine(allocationRepo, cfg)
	allocationService := allocservice.NewAllocationService(
		allocationRepo,
		engine,
		allocationValidator,
		store,
		cfg,
	)

	vehicleRepo := vehiclerepo.NewMongoVehicleRepository(cfg)
	vehicleService := vehicleservice.NewVehicleService(vehicleRepo, allocationRepo, store, cfg)

	employeeRepo := employeerepo.NewMongoEmployeeRepository(cfg)
	employeeService := employeeservice.NewEmployeeService(employeeRepo, allocationRepo, store, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		allochandler.NewAllocationHandler(allocationService, cfg.Log),
		vehiclehandler.NewVehicleHandler(vehicleService, cfg.Log),
		employeehandler.NewEmployeeHandler(employeeService, cfg.Log),
	}
}
