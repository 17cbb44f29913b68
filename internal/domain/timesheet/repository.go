package timesheet

import (
	"context"
	"time"
)

// EntryRepository defines data access methods for timesheet entries.
type EntryRepository interface {
	// Create creates a new timesheet entry
	Create(ctx context.Context, entry Entry) (Entry, error)

	// GetByID retrieves an entry by ID
	GetByID(ctx context.Context, id string) (Entry, error)

	// GetByEmployeeAndDate retrieves the entry for one employee on one date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Entry, error)

	// ListByEmployeeAndRange retrieves all entries for one employee within
	// [startDate, endDate], ordered by date ascending. Feeds reconciliation.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]Entry, error)

	// Update updates an existing entry
	Update(ctx context.Context, entry Entry) error

	// Delete removes a draft entry
	Delete(ctx context.Context, id string) error
}
