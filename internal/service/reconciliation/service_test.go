package reconciliation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/reconciliation"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func intPtr(v int) *int { return &v }

func presentDay(day string, workMinutes int, breaks ...attendance.Break) attendance.Attendance {
	checkIn := date(day).Add(9 * time.Hour)
	checkOut := checkIn.Add(time.Duration(workMinutes) * time.Minute)
	return attendance.Attendance{
		EmployeeID:  "emp-1",
		Date:        date(day),
		CheckIn:     &checkIn,
		CheckOut:    &checkOut,
		WorkMinutes: intPtr(workMinutes),
		Status:      attendance.StatusPresent,
		Breaks:      breaks,
	}
}

func entryDay(day string, totalHours float64, breakMinutes int) timesheet.Entry {
	return timesheet.Entry{
		ID:           "ts-" + day,
		EmployeeID:   "emp-1",
		Date:         date(day),
		StartTime:    date(day).Add(9 * time.Hour),
		EndTime:      date(day).Add(17 * time.Hour),
		BreakMinutes: breakMinutes,
		TotalHours:   totalHours,
		Status:       timesheet.StatusSubmitted,
	}
}

func TestReconcileRecords_MissingTimesheet(t *testing.T) {
	records := []attendance.Attendance{presentDay("2024-01-10", 480)}

	discrepancies, err := ReconcileRecords(records, nil)

	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	d := discrepancies[0]
	assert.Equal(t, reconciliation.DiscrepancyMissingTimesheet, d.Type)
	assert.Equal(t, reconciliation.SeverityHigh, d.Severity)
	assert.Equal(t, "Create timesheet entry from attendance data", d.SuggestedAction)
	require.NotNil(t, d.AttendanceHours)
	assert.InDelta(t, 8.0, *d.AttendanceHours, 0.001)
	assert.True(t, d.IsAutoResolvable())
}

func TestReconcileRecords_NonPresentAttendanceDoesNotFlagMissingTimesheet(t *testing.T) {
	rec := presentDay("2024-01-10", 480)
	rec.Status = attendance.StatusPendingApproval

	discrepancies, err := ReconcileRecords([]attendance.Attendance{rec}, nil)

	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestReconcileRecords_MissingAttendance(t *testing.T) {
	entries := []timesheet.Entry{entryDay("2024-01-11", 7.5, 30)}

	discrepancies, err := ReconcileRecords(nil, entries)

	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	d := discrepancies[0]
	assert.Equal(t, reconciliation.DiscrepancyMissingAttendance, d.Type)
	assert.Equal(t, reconciliation.SeverityMedium, d.Severity)
	assert.Equal(t, "Verify attendance or update timesheet", d.SuggestedAction)
	assert.False(t, d.IsAutoResolvable())
}

func TestReconcileRecords_TimeMismatchHigh(t *testing.T) {
	// 8.0 vs 5.5 hours: diff 2.5 > 2 is HIGH.
	records := []attendance.Attendance{presentDay("2024-01-12", 480)}
	entries := []timesheet.Entry{entryDay("2024-01-12", 5.5, 0)}

	discrepancies, err := ReconcileRecords(records, entries)

	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	d := discrepancies[0]
	assert.Equal(t, reconciliation.DiscrepancyTimeMismatch, d.Type)
	assert.Equal(t, reconciliation.SeverityHigh, d.Severity)
	assert.Contains(t, d.Description, "2.50")
}

func TestReconcileRecords_TimeMismatchMedium(t *testing.T) {
	// 8.0 vs 7.0 hours: diff 1.0 is above tolerance but not HIGH.
	records := []attendance.Attendance{presentDay("2024-01-12", 480)}
	entries := []timesheet.Entry{entryDay("2024-01-12", 7.0, 0)}

	discrepancies, err := ReconcileRecords(records, entries)

	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	assert.Equal(t, reconciliation.SeverityMedium, discrepancies[0].Severity)
}

func TestReconcileRecords_SmallTimeDiffIgnored(t *testing.T) {
	// 8.0 vs 7.8 hours: diff 0.2 is inside tolerance.
	records := []attendance.Attendance{presentDay("2024-01-13", 480)}
	entries := []timesheet.Entry{entryDay("2024-01-13", 7.8, 0)}

	discrepancies, err := ReconcileRecords(records, entries)

	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestReconcileRecords_BreakMismatch(t *testing.T) {
	// Attendance has a 60 minute break, timesheet claims 15: diff 45 min.
	end := date("2024-01-14").Add(13 * time.Hour)
	rec := presentDay("2024-01-14", 480, attendance.Break{
		Start:           date("2024-01-14").Add(12 * time.Hour),
		End:             &end,
		DurationMinutes: 60,
	})
	entries := []timesheet.Entry{entryDay("2024-01-14", 8.0, 15)}

	discrepancies, err := ReconcileRecords([]attendance.Attendance{rec}, entries)

	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	d := discrepancies[0]
	assert.Equal(t, reconciliation.DiscrepancyBreakMismatch, d.Type)
	assert.Equal(t, reconciliation.SeverityLow, d.Severity)
	assert.Contains(t, d.Description, "45 minutes")
	assert.False(t, d.IsAutoResolvable())
}

func TestReconcileRecords_SmallBreakDiffIgnored(t *testing.T) {
	// 10 minute break difference is inside the 0.25 hour tolerance.
	end := date("2024-01-14").Add(13 * time.Hour)
	rec := presentDay("2024-01-14", 480, attendance.Break{
		Start:           date("2024-01-14").Add(12 * time.Hour),
		End:             &end,
		DurationMinutes: 40,
	})
	entries := []timesheet.Entry{entryDay("2024-01-14", 8.0, 30)}

	discrepancies, err := ReconcileRecords([]attendance.Attendance{rec}, entries)

	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestReconcileRecords_MultipleDiscrepanciesPerDate(t *testing.T) {
	// Both an hour mismatch and a break mismatch on the same day.
	end := date("2024-01-15").Add(13 * time.Hour)
	rec := presentDay("2024-01-15", 480, attendance.Break{
		Start:           date("2024-01-15").Add(12 * time.Hour),
		End:             &end,
		DurationMinutes: 60,
	})
	entries := []timesheet.Entry{entryDay("2024-01-15", 6.5, 0)}

	discrepancies, err := ReconcileRecords([]attendance.Attendance{rec}, entries)

	require.NoError(t, err)
	require.Len(t, discrepancies, 2)
	assert.Equal(t, reconciliation.DiscrepancyTimeMismatch, discrepancies[0].Type)
	assert.Equal(t, reconciliation.DiscrepancyBreakMismatch, discrepancies[1].Type)
}

func TestReconcileRecords_SortedBySeverityDescending(t *testing.T) {
	records := []attendance.Attendance{
		presentDay("2024-01-10", 480), // MISSING_TIMESHEET, HIGH
		presentDay("2024-01-12", 480), // vs 7.0: TIME_MISMATCH, MEDIUM
	}
	end := date("2024-01-13").Add(13 * time.Hour)
	withBreak := presentDay("2024-01-13", 480, attendance.Break{
		Start:           date("2024-01-13").Add(12 * time.Hour),
		End:             &end,
		DurationMinutes: 60,
	})
	records = append(records, withBreak) // vs break 0: BREAK_MISMATCH, LOW

	entries := []timesheet.Entry{
		entryDay("2024-01-11", 8.0, 0), // MISSING_ATTENDANCE, MEDIUM
		entryDay("2024-01-12", 7.0, 0),
		entryDay("2024-01-13", 8.0, 0),
	}

	discrepancies, err := ReconcileRecords(records, entries)

	require.NoError(t, err)
	require.Len(t, discrepancies, 4)
	for i := 1; i < len(discrepancies); i++ {
		assert.GreaterOrEqual(t,
			discrepancies[i-1].Severity.Rank(),
			discrepancies[i].Severity.Rank(),
			"discrepancies must be sorted by severity descending",
		)
	}
	// Equal severities keep date order: MISSING_ATTENDANCE (01-11) before
	// TIME_MISMATCH (01-12).
	assert.Equal(t, reconciliation.DiscrepancyMissingAttendance, discrepancies[1].Type)
	assert.Equal(t, reconciliation.DiscrepancyTimeMismatch, discrepancies[2].Type)
}

func TestReconcileRecords_Idempotent(t *testing.T) {
	records := []attendance.Attendance{
		presentDay("2024-01-10", 480),
		presentDay("2024-01-12", 450),
	}
	entries := []timesheet.Entry{
		entryDay("2024-01-11", 8.0, 0),
		entryDay("2024-01-12", 5.0, 0),
	}

	first, err := ReconcileRecords(records, entries)
	require.NoError(t, err)
	second, err := ReconcileRecords(records, entries)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconcileRecords_EmptyInputs(t *testing.T) {
	discrepancies, err := ReconcileRecords(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestReconcileRecords_DuplicateAttendanceDates(t *testing.T) {
	records := []attendance.Attendance{
		presentDay("2024-01-10", 480),
		presentDay("2024-01-10", 450),
	}

	_, err := ReconcileRecords(records, nil)

	assert.ErrorIs(t, err, reconciliation.ErrInvalidRecord)
}

func TestReconcileRecords_DuplicateTimesheetDates(t *testing.T) {
	entries := []timesheet.Entry{
		entryDay("2024-01-10", 8.0, 0),
		entryDay("2024-01-10", 7.0, 0),
	}

	_, err := ReconcileRecords(nil, entries)

	assert.ErrorIs(t, err, reconciliation.ErrInvalidRecord)
}

func TestReconcileRecords_NegativeHoursRejected(t *testing.T) {
	rec := presentDay("2024-01-10", 480)
	rec.WorkMinutes = intPtr(-30)
	_, err := ReconcileRecords([]attendance.Attendance{rec}, nil)
	assert.ErrorIs(t, err, reconciliation.ErrInvalidRecord)

	entry := entryDay("2024-01-10", -1.0, 0)
	_, err = ReconcileRecords(nil, []timesheet.Entry{entry})
	assert.ErrorIs(t, err, reconciliation.ErrInvalidRecord)

	entry = entryDay("2024-01-10", 8.0, -15)
	_, err = ReconcileRecords(nil, []timesheet.Entry{entry})
	assert.ErrorIs(t, err, reconciliation.ErrInvalidRecord)
}

// ========================================
// Service-level tests with stub repositories
// ========================================

type stubAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
}

func (s *stubAttendanceRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]attendance.Attendance, error) {
	return s.records, nil
}

func (s *stubAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, d time.Time) (*attendance.Attendance, error) {
	for i := range s.records {
		if s.records[i].Date.Equal(d) {
			return &s.records[i], nil
		}
	}
	return nil, nil
}

type stubTimesheetRepo struct {
	timesheet.EntryRepository
	entries []timesheet.Entry
	created []timesheet.Entry
	updated []timesheet.Entry
}

func (s *stubTimesheetRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]timesheet.Entry, error) {
	return s.entries, nil
}

func (s *stubTimesheetRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, d time.Time) (*timesheet.Entry, error) {
	for i := range s.entries {
		if s.entries[i].Date.Equal(d) {
			return &s.entries[i], nil
		}
	}
	return nil, nil
}

func (s *stubTimesheetRepo) Create(ctx context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	entry.ID = "created-" + entry.Date.Format("2006-01-02")
	s.created = append(s.created, entry)
	return entry, nil
}

func (s *stubTimesheetRepo) Update(ctx context.Context, entry timesheet.Entry) error {
	s.updated = append(s.updated, entry)
	return nil
}

func TestReconcile_ReportCounts(t *testing.T) {
	attRepo := &stubAttendanceRepo{records: []attendance.Attendance{
		presentDay("2024-01-10", 480),
		presentDay("2024-01-12", 480),
	}}
	tsRepo := &stubTimesheetRepo{entries: []timesheet.Entry{
		entryDay("2024-01-11", 8.0, 0),
		entryDay("2024-01-12", 5.5, 0),
	}}
	svc := NewReconciliationService(attRepo, tsRepo)

	req := reconciliation.ReconcileRequest{EmployeeID: "emp-1", StartDate: "2024-01-10", EndDate: "2024-01-12"}
	report, err := svc.Reconcile(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalDiscrepancies)
	assert.Equal(t, 2, report.AutoResolvable) // MISSING_TIMESHEET + TIME_MISMATCH
	require.Len(t, report.Discrepancies, 3)
	assert.Equal(t, string(reconciliation.SeverityHigh), report.Discrepancies[0].Severity)
}

func TestReconcile_InvalidRequest(t *testing.T) {
	svc := NewReconciliationService(&stubAttendanceRepo{}, &stubTimesheetRepo{})

	_, err := svc.Reconcile(context.Background(), reconciliation.ReconcileRequest{
		EmployeeID: "emp-1", StartDate: "2024-01-31", EndDate: "2024-01-01",
	})

	assert.Error(t, err)
}

func TestAutoResolve_CreatesAndAdjustsEntries(t *testing.T) {
	attRepo := &stubAttendanceRepo{records: []attendance.Attendance{
		presentDay("2024-01-10", 480), // no timesheet: create
		presentDay("2024-01-12", 480), // vs 5.5h: adjust
	}}
	tsRepo := &stubTimesheetRepo{entries: []timesheet.Entry{
		entryDay("2024-01-11", 8.0, 0), // missing attendance: skip
		entryDay("2024-01-12", 5.5, 0),
	}}
	svc := NewReconciliationService(attRepo, tsRepo)

	req := reconciliation.ReconcileRequest{EmployeeID: "emp-1", StartDate: "2024-01-10", EndDate: "2024-01-12"}
	result, err := svc.AutoResolve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 2, result.ResolvedCount)
	assert.Equal(t, 1, result.SkippedCount)
	require.Len(t, tsRepo.created, 1)
	assert.Equal(t, timesheet.StatusSubmitted, tsRepo.created[0].Status)
	assert.InDelta(t, 8.0, tsRepo.created[0].TotalHours, 0.001)
	require.Len(t, tsRepo.updated, 1)
	assert.InDelta(t, 8.0, tsRepo.updated[0].TotalHours, 0.001)
}

func TestAutoResolve_SkipsApprovedEntries(t *testing.T) {
	approved := entryDay("2024-01-12", 5.5, 0)
	approved.Status = timesheet.StatusApproved

	attRepo := &stubAttendanceRepo{records: []attendance.Attendance{presentDay("2024-01-12", 480)}}
	tsRepo := &stubTimesheetRepo{entries: []timesheet.Entry{approved}}
	svc := NewReconciliationService(attRepo, tsRepo)

	req := reconciliation.ReconcileRequest{EmployeeID: "emp-1", StartDate: "2024-01-12", EndDate: "2024-01-12"}
	result, err := svc.AutoResolve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0, result.ResolvedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Empty(t, tsRepo.updated)
}

func TestExportCSV_ColumnOrder(t *testing.T) {
	attRepo := &stubAttendanceRepo{records: []attendance.Attendance{presentDay("2024-01-10", 480)}}
	tsRepo := &stubTimesheetRepo{}
	svc := NewReconciliationService(attRepo, tsRepo)

	req := reconciliation.ReconcileRequest{EmployeeID: "emp-1", StartDate: "2024-01-10", EndDate: "2024-01-10"}
	data, err := svc.ExportCSV(context.Background(), req)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Type,Severity,Description,Suggested Action", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-01-10,MISSING_TIMESHEET,HIGH,"))
	assert.True(t, strings.HasSuffix(lines[1], "Create timesheet entry from attendance data"))
}

func TestExportXLSX_RoundTrip(t *testing.T) {
	attRepo := &stubAttendanceRepo{records: []attendance.Attendance{presentDay("2024-01-10", 480)}}
	svc := NewReconciliationService(attRepo, &stubTimesheetRepo{})

	req := reconciliation.ReconcileRequest{EmployeeID: "emp-1", StartDate: "2024-01-10", EndDate: "2024-01-10"}
	data, err := svc.ExportXLSX(context.Background(), req)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
