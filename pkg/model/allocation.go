package model

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Allocation links one employee to one vehicle for one date. The booking
// invariants (one future allocation per employee, unique (vehicle, date))
// are enforced by the admission engine and, as the source of truth under
// concurrent writers, by a unique compound index on (vehicle_id, allocation_date).
type Allocation struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID     int                `json:"employee_id" bson:"employee_id" validate:"required,gte=1,lte=1000"`
	VehicleID      int                `json:"vehicle_id" bson:"vehicle_id" validate:"required,gte=1,lte=1000"`
	AllocationDate time.Time          `json:"allocation_date" bson:"allocation_date" validate:"required"`
	CreatedAt      time.Time          `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// AllocationInput is the caller-supplied shape for create and update.
type AllocationInput struct {
	EmployeeID     int       `json:"employee_id" validate:"required,gte=1,lte=1000"`
	VehicleID      int       `json:"vehicle_id" validate:"required,gte=1,lte=1000"`
	AllocationDate time.Time `json:"allocation_date" validate:"required"`
}

// AllocationSummary decorates a vehicle or employee listing with its
// nearest future allocation. Only the counterpart reference is populated.
type AllocationSummary struct {
	ID             string    `json:"id"`
	EmployeeID     int       `json:"employee_id,omitempty"`
	VehicleID      int       `json:"vehicle_id,omitempty"`
	AllocationDate time.Time `json:"allocation_date"`
}

// AllocationHistoryFilter narrows history queries. Nil fields are ignored;
// the date range is inclusive on both ends.
type AllocationHistoryFilter struct {
	EmployeeID *int       `json:"employee_id,omitempty"`
	VehicleID  *int       `json:"vehicle_id,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// String renders the filter in a stable form, used as part of the history
// cache key. Unset fields render as "-" so distinct filter sets can never
// collide.
func (f AllocationHistoryFilter) String() string {
	var b strings.Builder
	if f.EmployeeID != nil {
		fmt.Fprintf(&b, "employee=%d", *f.EmployeeID)
	} else {
		b.WriteString("employee=-")
	}
	if f.VehicleID != nil {
		fmt.Fprintf(&b, ":vehicle=%d", *f.VehicleID)
	} else {
		b.WriteString(":vehicle=-")
	}
	if f.StartDate != nil {
		fmt.Fprintf(&b, ":start=%d", f.StartDate.UTC().Unix())
	} else {
		b.WriteString(":start=-")
	}
	if f.EndDate != nil {
		fmt.Fprintf(&b, ":end=%d", f.EndDate.UTC().Unix())
	} else {
		b.WriteString(":end=-")
	}
	return b.String()
}
