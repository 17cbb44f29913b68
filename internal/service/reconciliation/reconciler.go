package reconciliation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/reconciliation"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/timesheet"
)

// Detection thresholds, in hours.
const (
	timeMismatchTolerance     = 0.5
	timeMismatchHighThreshold = 2.0
	breakMismatchTolerance    = 0.25
)

const dateKeyLayout = "2006-01-02"

// ReconcileRecords compares one employee's attendance trail against their
// timesheet entries for the same date range and returns every detected
// discrepancy, sorted by severity descending. Both inputs are read-only;
// running it twice on the same input yields the same output.
func ReconcileRecords(records []attendance.Attendance, entries []timesheet.Entry) ([]reconciliation.Discrepancy, error) {
	attByDate := make(map[string]attendance.Attendance, len(records))
	for _, rec := range records {
		if err := validateAttendance(rec); err != nil {
			return nil, err
		}
		key := rec.Date.Format(dateKeyLayout)
		if _, exists := attByDate[key]; exists {
			return nil, fmt.Errorf("duplicate attendance record for %s: %w", key, reconciliation.ErrInvalidRecord)
		}
		attByDate[key] = rec
	}

	entryByDate := make(map[string]timesheet.Entry, len(entries))
	for _, entry := range entries {
		if err := validateEntry(entry); err != nil {
			return nil, err
		}
		key := entry.Date.Format(dateKeyLayout)
		if _, exists := entryByDate[key]; exists {
			return nil, fmt.Errorf("duplicate timesheet entry for %s: %w", key, reconciliation.ErrInvalidRecord)
		}
		entryByDate[key] = entry
	}

	// Union of dates in ascending order; map iteration alone is not stable
	// and the severity sort below must keep per-date emission order on ties.
	dateSet := make(map[string]time.Time, len(attByDate)+len(entryByDate))
	for key, rec := range attByDate {
		dateSet[key] = rec.Date
	}
	for key, entry := range entryByDate {
		if _, ok := dateSet[key]; !ok {
			dateSet[key] = entry.Date
		}
	}
	keys := make([]string, 0, len(dateSet))
	for key := range dateSet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var discrepancies []reconciliation.Discrepancy
	for _, key := range keys {
		date := dateSet[key]
		rec, hasAttendance := attByDate[key]
		entry, hasEntry := entryByDate[key]

		if hasAttendance && !hasEntry && rec.Status == attendance.StatusPresent {
			hours := rec.TotalHours()
			discrepancies = append(discrepancies, reconciliation.Discrepancy{
				Date:            date,
				Type:            reconciliation.DiscrepancyMissingTimesheet,
				Severity:        reconciliation.SeverityHigh,
				Description:     fmt.Sprintf("Attendance recorded (%.2f hours) but no timesheet entry", hours),
				AttendanceHours: &hours,
				SuggestedAction: "Create timesheet entry from attendance data",
			})
		}

		if hasEntry && !hasAttendance {
			hours := entry.TotalHours
			discrepancies = append(discrepancies, reconciliation.Discrepancy{
				Date:            date,
				Type:            reconciliation.DiscrepancyMissingAttendance,
				Severity:        reconciliation.SeverityMedium,
				Description:     fmt.Sprintf("Timesheet entry (%.2f hours) has no attendance record", hours),
				TimesheetHours:  &hours,
				SuggestedAction: "Verify attendance or update timesheet",
			})
		}

		if hasAttendance && hasEntry {
			attHours := rec.TotalHours()
			tsHours := entry.TotalHours

			if hoursDiff := math.Abs(attHours - tsHours); hoursDiff > timeMismatchTolerance {
				severity := reconciliation.SeverityMedium
				if hoursDiff > timeMismatchHighThreshold {
					severity = reconciliation.SeverityHigh
				}
				a, t := attHours, tsHours
				discrepancies = append(discrepancies, reconciliation.Discrepancy{
					Date:            date,
					Type:            reconciliation.DiscrepancyTimeMismatch,
					Severity:        severity,
					Description:     fmt.Sprintf("Attendance hours (%.2f) and timesheet hours (%.2f) differ by %.2f hours", attHours, tsHours, hoursDiff),
					AttendanceHours: &a,
					TimesheetHours:  &t,
					SuggestedAction: "Adjust timesheet entry from attendance data",
				})
			}

			attBreakHours := rec.BreakHours()
			tsBreakHours := float64(entry.BreakMinutes) / 60.0
			if breakDiff := math.Abs(attBreakHours - tsBreakHours); breakDiff > breakMismatchTolerance {
				a, t := attHours, tsHours
				discrepancies = append(discrepancies, reconciliation.Discrepancy{
					Date:            date,
					Type:            reconciliation.DiscrepancyBreakMismatch,
					Severity:        reconciliation.SeverityLow,
					Description:     fmt.Sprintf("Break time differs by %d minutes between attendance and timesheet", int(math.Round(breakDiff*60))),
					AttendanceHours: &a,
					TimesheetHours:  &t,
					SuggestedAction: "Review break records manually",
				})
			}
		}
	}

	sort.SliceStable(discrepancies, func(i, j int) bool {
		return discrepancies[i].Severity.Rank() > discrepancies[j].Severity.Rank()
	})

	return discrepancies, nil
}

func validateAttendance(rec attendance.Attendance) error {
	if rec.WorkMinutes != nil && *rec.WorkMinutes < 0 {
		return fmt.Errorf("attendance on %s has negative work minutes: %w", rec.Date.Format(dateKeyLayout), reconciliation.ErrInvalidRecord)
	}
	for _, b := range rec.Breaks {
		if b.DurationMinutes < 0 {
			return fmt.Errorf("attendance on %s has a negative break duration: %w", rec.Date.Format(dateKeyLayout), reconciliation.ErrInvalidRecord)
		}
	}
	return nil
}

func validateEntry(entry timesheet.Entry) error {
	if entry.TotalHours < 0 || math.IsNaN(entry.TotalHours) || math.IsInf(entry.TotalHours, 0) {
		return fmt.Errorf("timesheet entry on %s has invalid total hours: %w", entry.Date.Format(dateKeyLayout), reconciliation.ErrInvalidRecord)
	}
	if entry.BreakMinutes < 0 {
		return fmt.Errorf("timesheet entry on %s has negative break minutes: %w", entry.Date.Format(dateKeyLayout), reconciliation.ErrInvalidRecord)
	}
	return nil
}
