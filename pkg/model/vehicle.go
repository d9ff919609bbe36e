package model

// Driver is embedded in its vehicle document.
type Driver struct {
	Name          string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	LicenseNumber string `json:"license_number" bson:"license_number" validate:"required"`
	Contact       string `json:"contact" bson:"contact" validate:"required"`
}

// Vehicle is read-mostly. Its allocation association is computed at read
// time from the allocations collection, not stored as a back-reference.
type Vehicle struct {
	ID          int    `json:"id" bson:"_id" validate:"required,gte=1,lte=1000"`
	Model       string `json:"model" bson:"model" validate:"required,min=2,max=100"`
	PlateNumber string `json:"plate_number" bson:"plate_number" validate:"required"`
	Driver      Driver `json:"driver" bson:"driver" validate:"required"`
}

// VehicleWithAllocation is the listing response shape. AllocatedBy is nil
// unless the caller asked for enrichment and a future allocation exists.
type VehicleWithAllocation struct {
	Vehicle
	AllocatedBy *AllocationSummary `json:"allocated_by,omitempty"`
}
