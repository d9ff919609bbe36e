package errors

import "errors"

var (
	ErrNotFound = errors.New("allocation not found")

	ErrInvalidID = errors.New("invalid allocation ID format")

	// ErrDuplicateKey surfaces the storage-level unique index on
	// (vehicle_id, allocation_date) when a write loses the admission race.
	ErrDuplicateKey = errors.New("allocation violates vehicle/date uniqueness")
)
