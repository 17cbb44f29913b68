package reconciliation

import (
	"time"
)

type DiscrepancyType string

const (
	DiscrepancyMissingTimesheet  DiscrepancyType = "MISSING_TIMESHEET"
	DiscrepancyMissingAttendance DiscrepancyType = "MISSING_ATTENDANCE"
	DiscrepancyTimeMismatch      DiscrepancyType = "TIME_MISMATCH"
	DiscrepancyBreakMismatch     DiscrepancyType = "BREAK_MISMATCH"
)

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Rank orders severities for sorting; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Discrepancy is a detected inconsistency between the attendance trail and
// the timesheet for one employee/date. Recomputed on every reconciliation
// run, never persisted by this service.
type Discrepancy struct {
	Date            time.Time
	Type            DiscrepancyType
	Severity        Severity
	Description     string
	AttendanceHours *float64
	TimesheetHours  *float64
	SuggestedAction string
}

// IsAutoResolvable reports whether the discrepancy can be fixed mechanically
// by creating or adjusting a timesheet entry from attendance data. Missing
// attendance and break mismatches need human judgment.
func (d Discrepancy) IsAutoResolvable() bool {
	return d.Type == DiscrepancyMissingTimesheet || d.Type == DiscrepancyTimeMismatch
}
