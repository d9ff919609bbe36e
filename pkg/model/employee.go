package model

type Employee struct {
	ID         int    `json:"id" bson:"_id" validate:"required,gte=1,lte=1000"`
	Name       string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Department string `json:"department" bson:"department" validate:"required"`
}

type EmployeeWithAllocation struct {
	Employee
	Allocation *AllocationSummary `json:"allocation,omitempty"`
}
