package seed

import (
	"math/rand"
	"testing"
)

func TestGenerateVehiclesAssignsSequentialIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	vehicles := GenerateVehicles(rng, 50)

	if len(vehicles) != 50 {
		t.Fatalf("expected 50 vehicles, got %d", len(vehicles))
	}

	for i, v := range vehicles {
		if v.ID != i+1 {
			t.Errorf("vehicle at position %d has id %d, expected %d", i, v.ID, i+1)
		}
		if v.Model == "" {
			t.Errorf("vehicle %d has empty model", v.ID)
		}
		if v.PlateNumber == "" {
			t.Errorf("vehicle %d has empty plate number", v.ID)
		}
		if v.Driver.Name == "" || v.Driver.LicenseNumber == "" {
			t.Errorf("vehicle %d has incomplete driver: %+v", v.ID, v.Driver)
		}
	}
}

func TestGenerateEmployeesAssignsSequentialIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	employees := GenerateEmployees(rng, 50)

	if len(employees) != 50 {
		t.Fatalf("expected 50 employees, got %d", len(employees))
	}

	valid := make(map[string]bool, len(departments))
	for _, d := range departments {
		valid[d] = true
	}

	for i, e := range employees {
		if e.ID != i+1 {
			t.Errorf("employee at position %d has id %d, expected %d", i, e.ID, i+1)
		}
		if e.Name == "" {
			t.Errorf("employee %d has empty name", e.ID)
		}
		if !valid[e.Department] {
			t.Errorf("employee %d has unknown department %q", e.ID, e.Department)
		}
	}
}

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	a := GenerateVehicles(rand.New(rand.NewSource(7)), 10)
	b := GenerateVehicles(rand.New(rand.NewSource(7)), 10)

	for i := range a {
		if *a[i] != *b[i] {
			t.Fatalf("vehicle %d differs between runs: %+v vs %+v", i+1, a[i], b[i])
		}
	}
}
