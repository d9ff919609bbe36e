package validator

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"
)

func newTestValidator() *AllocationValidator {
	return NewAllocationValidator(logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}))
}

func validInput() *model.AllocationInput {
	return &model.AllocationInput{
		EmployeeID:     456,
		VehicleID:      123,
		AllocationDate: time.Now().Add(24 * time.Hour),
	}
}

func TestValidateCreateAcceptsFutureAllocation(t *testing.T) {
	if err := newTestValidator().ValidateCreate(validInput()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidateCreateRejectsPastDate(t *testing.T) {
	input := validInput()
	input.AllocationDate = time.Now().Add(-time.Minute)

	err := newTestValidator().ValidateCreate(input)
	if err == nil {
		t.Fatal("expected error for past date")
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "AllocationDate" {
		t.Fatalf("expected single AllocationDate error, got %v", verrs)
	}
}

func TestValidateCreateRejectsOutOfRangeIDs(t *testing.T) {
	cases := []struct {
		name  string
		mod   func(*model.AllocationInput)
		field string
	}{
		{"missing employee", func(i *model.AllocationInput) { i.EmployeeID = 0 }, "EmployeeID"},
		{"employee above range", func(i *model.AllocationInput) { i.EmployeeID = 1001 }, "EmployeeID"},
		{"missing vehicle", func(i *model.AllocationInput) { i.VehicleID = 0 }, "VehicleID"},
		{"vehicle above range", func(i *model.AllocationInput) { i.VehicleID = 1001 }, "VehicleID"},
		{"missing date", func(i *model.AllocationInput) { i.AllocationDate = time.Time{} }, "AllocationDate"},
	}

	v := newTestValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mod(input)

			err := v.ValidateCreate(input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error to mention %s, got %v", tc.field, err)
			}
		})
	}
}

func TestValidateUpdateChecksShapeOnly(t *testing.T) {
	v := newTestValidator()

	// The past-date rule on update is a conflict, not a validation failure,
	// and is enforced elsewhere.
	input := validInput()
	input.AllocationDate = time.Now().Add(-time.Hour)
	if err := v.ValidateUpdate(input); err != nil {
		t.Fatalf("expected nil for past date on update, got %v", err)
	}

	input = validInput()
	input.VehicleID = 0
	if err := v.ValidateUpdate(input); err == nil {
		t.Fatal("expected validation error for missing vehicle")
	}
}
