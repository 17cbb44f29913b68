package timesheet

import (
	"time"
)

// Timesheet entry statuses.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
)

// Entry is a manually authored record of a worked day, independent of the
// attendance trail. One per employee per date.
type Entry struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	StartTime    time.Time
	EndTime      time.Time
	BreakMinutes int
	TotalHours   float64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
