package cache

import "fmt"

// Namespaces group the keys that must be invalidated together after an
// allocation mutation. Vehicle and employee listings belong here too because
// their enriched form embeds allocation summaries.
const (
	NamespaceAllocations = "allocations"
	NamespaceVehicles    = "vehicles"
	NamespaceEmployees   = "employees"
)

// MutationNamespaces is the invalidation set for any allocation write.
var MutationNamespaces = []string{
	NamespaceAllocations,
	NamespaceVehicles,
	NamespaceEmployees,
}

func AllocationListKey(limit int, offset int64) string {
	return fmt.Sprintf("allocations:list:limit=%d:offset=%d", limit, offset)
}

func AllocationHistoryKey(filter fmt.Stringer) string {
	return "allocations:history:" + filter.String()
}

func VehicleListKey(allocated bool, limit int, offset int64) string {
	return fmt.Sprintf("vehicles:allocated=%t:limit=%d:offset=%d", allocated, limit, offset)
}

func EmployeeListKey(includeAllocations bool, limit int, offset int64) string {
	return fmt.Sprintf("employees:include_allocations=%t:limit=%d:offset=%d", includeAllocations, limit, offset)
}

func registryKey(namespace string) string {
	return "registry:" + namespace
}
