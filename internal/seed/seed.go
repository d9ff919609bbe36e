package seed

import (
	"context"
	"fmt"
	"math/rand"

	employeerepo "fleetalloc/internal/employees/repository"
	vehiclerepo "fleetalloc/internal/vehicles/repository"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"
)

// DefaultCount matches the id range enforced on allocation references.
const DefaultCount = 1000

var (
	vehicleMakes = []string{
		"Toyota", "Honda", "Ford", "Nissan", "Hyundai",
		"Volkswagen", "Chevrolet", "Kia", "Mazda", "Subaru",
	}
	vehicleModels = []string{
		"Corolla", "Civic", "Focus", "Altima", "Elantra",
		"Golf", "Malibu", "Sportage", "CX-5", "Outback",
	}
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "John", "Jennifer",
		"Michael", "Linda", "David", "Elizabeth", "William", "Barbara",
		"Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah",
		"Charles", "Karen", "Daniel", "Nancy", "Matthew", "Lisa",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
		"Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore",
	}
	departments = []string{
		"HR", "Engineering", "Sales", "Marketing", "Finance", "Operations",
	}
)

type Seeder struct {
	vehicles  vehiclerepo.VehicleRepository
	employees employeerepo.EmployeeRepository
	log       *logger.Logger
	rng       *rand.Rand
}

func NewSeeder(
	vehicles vehiclerepo.VehicleRepository,
	employees employeerepo.EmployeeRepository,
	log *logger.Logger,
	seed int64,
) *Seeder {
	return &Seeder{
		vehicles:  vehicles,
		employees: employees,
		log:       log,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Run populates the Vehicles and Employees collections with count records
// each, ids 1..count. It fails if either collection already holds data so
// reruns cannot produce duplicate ids.
func (s *Seeder) Run(ctx context.Context, count int) error {
	vehicleCount, err := s.vehicles.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count vehicles: %w", err)
	}
	employeeCount, err := s.employees.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count employees: %w", err)
	}
	if vehicleCount > 0 || employeeCount > 0 {
		return fmt.Errorf("collections already seeded: %d vehicles, %d employees", vehicleCount, employeeCount)
	}

	insertedVehicles, err := s.vehicles.InsertMany(ctx, GenerateVehicles(s.rng, count))
	if err != nil {
		return fmt.Errorf("failed to insert vehicles: %w", err)
	}
	s.log.Info("Seeded vehicles", "count", insertedVehicles)

	insertedEmployees, err := s.employees.InsertMany(ctx, GenerateEmployees(s.rng, count))
	if err != nil {
		return fmt.Errorf("failed to insert employees: %w", err)
	}
	s.log.Info("Seeded employees", "count", insertedEmployees)

	return nil
}

func GenerateVehicles(rng *rand.Rand, count int) []*model.Vehicle {
	vehicles := make([]*model.Vehicle, 0, count)
	for id := 1; id <= count; id++ {
		vehicles = append(vehicles, &model.Vehicle{
			ID:          id,
			Model:       randomModel(rng),
			PlateNumber: randomPlate(rng),
			Driver: model.Driver{
				Name:          randomName(rng),
				LicenseNumber: fmt.Sprintf("DL-%07d", rng.Intn(10000000)),
				Contact:       fmt.Sprintf("+1-555-%04d", rng.Intn(10000)),
			},
		})
	}
	return vehicles
}

func GenerateEmployees(rng *rand.Rand, count int) []*model.Employee {
	employees := make([]*model.Employee, 0, count)
	for id := 1; id <= count; id++ {
		employees = append(employees, &model.Employee{
			ID:         id,
			Name:       randomName(rng),
			Department: departments[rng.Intn(len(departments))],
		})
	}
	return employees
}

func randomModel(rng *rand.Rand) string {
	return vehicleMakes[rng.Intn(len(vehicleMakes))] + " " + vehicleModels[rng.Intn(len(vehicleModels))]
}

func randomName(rng *rand.Rand) string {
	return firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
}

func randomPlate(rng *rand.Rand) string {
	letters := make([]byte, 3)
	for i := range letters {
		letters[i] = byte('A' + rng.Intn(26))
	}
	return fmt.Sprintf("%s-%04d", letters, rng.Intn(10000))
}
