package main

import (
	"context"
	"flag"
	"time"

	employeerepo "fleetalloc/internal/employees/repository"
	"fleetalloc/internal/seed"
	vehiclerepo "fleetalloc/internal/vehicles/repository"
	"fleetalloc/pkg/config"
)

const JobName = "seed"

func main() {
	count := flag.Int("count", seed.DefaultCount, "number of vehicles and employees to generate")
	rngSeed := flag.Int64("seed", time.Now().UnixNano(), "random source seed")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	seeder := seed.NewSeeder(
		vehiclerepo.NewMongoVehicleRepository(cfg),
		employeerepo.NewMongoEmployeeRepository(cfg),
		cfg.Log,
		*rngSeed,
	)

	if err := seeder.Run(ctx, *count); err != nil {
		cfg.Log.Fatal("Seeding failed", "error", err)
	}
	cfg.Log.Info("Seeding completed", "count", *count)
}
