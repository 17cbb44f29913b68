package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Attendance rows are append-only from the employee's point of view; updates
// happen through check-out, breaks, and the approval workflow.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID, breaks included
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate retrieves attendance for one employee on one
	// date. Used to prevent double check-in.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetOpenSession retrieves the employee's most recent attendance
	// without a check-out.
	GetOpenSession(ctx context.Context, employeeID string) (Attendance, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, attendance Attendance) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByEmployeeAndRange retrieves all records for one employee within
	// [startDate, endDate], breaks included, ordered by date ascending.
	// Feeds reconciliation.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]Attendance, error)

	// CreateBreak opens a break on an attendance record
	CreateBreak(ctx context.Context, b Break) (Break, error)

	// GetOpenBreak retrieves the attendance's break without an end time
	GetOpenBreak(ctx context.Context, attendanceID string) (*Break, error)

	// CloseBreak sets the break end time and duration
	CloseBreak(ctx context.Context, breakID string, end time.Time, durationMinutes int) error

	// ListBreaks retrieves all breaks for an attendance record, ordered by start
	ListBreaks(ctx context.Context, attendanceID string) ([]Break, error)

	// ListStaleOpenSessions retrieves records with a check-in but no
	// check-out whose date is at least minAgeDays days old. Used by the
	// nightly sweep.
	ListStaleOpenSessions(ctx context.Context, minAgeDays int) ([]Attendance, error)
}
