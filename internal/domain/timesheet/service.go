package timesheet

import (
	"context"
)

// EntryService defines business logic for timesheet entries. Employee-facing
// operations take the authenticated employee's ID and enforce ownership;
// ApproveEntry is gated to managers by the HTTP layer.
type EntryService interface {
	// CreateEntry creates a draft entry for the authenticated employee
	CreateEntry(ctx context.Context, employeeID string, req CreateEntryRequest) (EntryResponse, error)

	// GetEntry retrieves a single entry by ID
	GetEntry(ctx context.Context, id string) (EntryResponse, error)

	// ListMyEntries retrieves the authenticated employee's entries in a date range
	ListMyEntries(ctx context.Context, employeeID string, filter EntryRangeFilter) (ListEntryResponse, error)

	// UpdateEntry updates a draft or submitted entry owned by the employee
	UpdateEntry(ctx context.Context, employeeID string, req UpdateEntryRequest) (EntryResponse, error)

	// SubmitEntry moves the employee's draft entry to SUBMITTED
	SubmitEntry(ctx context.Context, employeeID string, id string) (EntryResponse, error)

	// ApproveEntry moves a submitted entry to APPROVED (manager/admin)
	ApproveEntry(ctx context.Context, id string) (EntryResponse, error)

	// DeleteEntry removes a draft entry owned by the employee
	DeleteEntry(ctx context.Context, employeeID string, id string) error
}
