package location

import (
	"context"
)

// LocationRepository defines data access methods for work locations and
// their employee assignments.
type LocationRepository interface {
	// Create creates a new work location
	Create(ctx context.Context, location Location) (Location, error)

	// GetByID retrieves a location by ID
	GetByID(ctx context.Context, id string) (Location, error)

	// List retrieves all locations
	List(ctx context.Context) ([]Location, error)

	// Update updates an existing location
	Update(ctx context.Context, location Location) error

	// Delete removes a location and its assignments
	Delete(ctx context.Context, id string) error

	// AssignToEmployee links an employee to a location
	AssignToEmployee(ctx context.Context, locationID, employeeID string) error

	// UnassignFromEmployee removes the link between an employee and a location
	UnassignFromEmployee(ctx context.Context, locationID, employeeID string) error

	// ListByEmployee retrieves the locations assigned to an employee, in
	// assignment order. Used as the geofence set for check-in validation.
	ListByEmployee(ctx context.Context, employeeID string) ([]Location, error)
}
