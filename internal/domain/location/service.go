package location

import (
	"context"
)

// LocationService defines business logic for work location management.
type LocationService interface {
	// CreateLocation creates a new work location (manager/admin)
	CreateLocation(ctx context.Context, req CreateLocationRequest) (LocationResponse, error)

	// GetLocation retrieves a single location by ID
	GetLocation(ctx context.Context, id string) (LocationResponse, error)

	// ListLocations retrieves all work locations
	ListLocations(ctx context.Context) (ListLocationResponse, error)

	// UpdateLocation updates a location's geometry or metadata
	UpdateLocation(ctx context.Context, req UpdateLocationRequest) (LocationResponse, error)

	// DeleteLocation removes a location and its employee assignments
	DeleteLocation(ctx context.Context, id string) error

	// AssignEmployee links an employee to a location
	AssignEmployee(ctx context.Context, locationID string, req AssignLocationRequest) error

	// UnassignEmployee removes an employee's link to a location
	UnassignEmployee(ctx context.Context, locationID string, req AssignLocationRequest) error

	// ListEmployeeLocations retrieves the locations assigned to an employee
	ListEmployeeLocations(ctx context.Context, employeeID string) (ListLocationResponse, error)
}
