package reconciliation

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/reconciliation"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/timesheet"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type ReconciliationServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	timesheetRepo  timesheet.EntryRepository
}

func NewReconciliationService(
	attendanceRepo attendance.AttendanceRepository,
	timesheetRepo timesheet.EntryRepository,
) reconciliation.Service {
	return &ReconciliationServiceImpl{
		attendanceRepo: attendanceRepo,
		timesheetRepo:  timesheetRepo,
	}
}

// Reconcile implements reconciliation.Service.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, req reconciliation.ReconcileRequest) (reconciliation.ReconciliationReport, error) {
	discrepancies, err := s.detect(ctx, req)
	if err != nil {
		return reconciliation.ReconciliationReport{}, err
	}

	responses := make([]reconciliation.DiscrepancyResponse, 0, len(discrepancies))
	autoResolvable := 0
	for _, d := range discrepancies {
		if d.IsAutoResolvable() {
			autoResolvable++
		}
		responses = append(responses, mapDiscrepancyToResponse(d))
	}

	return reconciliation.ReconciliationReport{
		EmployeeID:         req.EmployeeID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
		TotalDiscrepancies: len(discrepancies),
		AutoResolvable:     autoResolvable,
		Discrepancies:      responses,
	}, nil
}

// AutoResolve implements reconciliation.Service. Only MISSING_TIMESHEET and
// TIME_MISMATCH are mechanically resolvable; everything else is counted as
// skipped and left for a human.
func (s *ReconciliationServiceImpl) AutoResolve(ctx context.Context, req reconciliation.ReconcileRequest) (reconciliation.AutoResolveResult, error) {
	discrepancies, err := s.detect(ctx, req)
	if err != nil {
		return reconciliation.AutoResolveResult{}, err
	}

	result := reconciliation.AutoResolveResult{EmployeeID: req.EmployeeID}

	for _, d := range discrepancies {
		if !d.IsAutoResolvable() {
			result.SkippedCount++
			continue
		}

		rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, d.Date)
		if err != nil {
			return reconciliation.AutoResolveResult{}, fmt.Errorf("failed to load attendance for %s: %w", d.Date.Format(dateKeyLayout), err)
		}
		if rec == nil || rec.CheckIn == nil || rec.CheckOut == nil {
			result.SkippedCount++
			continue
		}

		switch d.Type {
		case reconciliation.DiscrepancyMissingTimesheet:
			entry := entryFromAttendance(*rec)
			created, err := s.timesheetRepo.Create(ctx, entry)
			if err != nil {
				return reconciliation.AutoResolveResult{}, fmt.Errorf("failed to create timesheet entry for %s: %w", d.Date.Format(dateKeyLayout), err)
			}
			result.CreatedEntries = append(result.CreatedEntries, created.ID)
			result.ResolvedCount++

		case reconciliation.DiscrepancyTimeMismatch:
			existing, err := s.timesheetRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, d.Date)
			if err != nil {
				return reconciliation.AutoResolveResult{}, fmt.Errorf("failed to load timesheet entry for %s: %w", d.Date.Format(dateKeyLayout), err)
			}
			// Approved entries are final; adjusting them needs a human.
			if existing == nil || existing.Status == timesheet.StatusApproved {
				result.SkippedCount++
				continue
			}
			existing.StartTime = *rec.CheckIn
			existing.EndTime = *rec.CheckOut
			existing.BreakMinutes = int(rec.BreakHours() * 60)
			existing.TotalHours = rec.TotalHours()
			if err := s.timesheetRepo.Update(ctx, *existing); err != nil {
				return reconciliation.AutoResolveResult{}, fmt.Errorf("failed to adjust timesheet entry for %s: %w", d.Date.Format(dateKeyLayout), err)
			}
			result.AdjustedEntries = append(result.AdjustedEntries, existing.ID)
			result.ResolvedCount++
		}
	}

	return result, nil
}

// ExportCSV implements reconciliation.Service.
func (s *ReconciliationServiceImpl) ExportCSV(ctx context.Context, req reconciliation.ReconcileRequest) ([]byte, error) {
	discrepancies, err := s.detect(ctx, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader()); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, d := range discrepancies {
		if err := w.Write(exportRow(d)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportXLSX implements reconciliation.Service.
func (s *ReconciliationServiceImpl) ExportXLSX(ctx context.Context, req reconciliation.ReconcileRequest) ([]byte, error) {
	discrepancies, err := s.detect(ctx, req)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Discrepancies"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	header := exportHeader()
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, d := range discrepancies {
		row := exportRow(d)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// detect loads both trails and runs the pure reconciler.
func (s *ReconciliationServiceImpl) detect(ctx context.Context, req reconciliation.ReconcileRequest) ([]reconciliation.Discrepancy, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startDate, _ := time.Parse(dateKeyLayout, req.StartDate)
	endDate, _ := time.Parse(dateKeyLayout, req.EndDate)

	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	entries, err := s.timesheetRepo.ListByEmployeeAndRange(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}

	return ReconcileRecords(records, entries)
}

// entryFromAttendance builds a timesheet entry mirroring an attendance day.
// Entries created this way start as SUBMITTED since they came off the
// attendance trail, not a manual draft.
func entryFromAttendance(rec attendance.Attendance) timesheet.Entry {
	return timesheet.Entry{
		ID:           uuid.NewString(),
		EmployeeID:   rec.EmployeeID,
		Date:         rec.Date,
		StartTime:    *rec.CheckIn,
		EndTime:      *rec.CheckOut,
		BreakMinutes: int(rec.BreakHours() * 60),
		TotalHours:   rec.TotalHours(),
		Status:       timesheet.StatusSubmitted,
	}
}

func mapDiscrepancyToResponse(d reconciliation.Discrepancy) reconciliation.DiscrepancyResponse {
	return reconciliation.DiscrepancyResponse{
		Date:            d.Date.Format(dateKeyLayout),
		Type:            string(d.Type),
		Severity:        string(d.Severity),
		Description:     d.Description,
		AttendanceHours: d.AttendanceHours,
		TimesheetHours:  d.TimesheetHours,
		SuggestedAction: d.SuggestedAction,
		AutoResolvable:  d.IsAutoResolvable(),
	}
}

// exportHeader is the confirmed report column order.
func exportHeader() []string {
	return []string{"Date", "Type", "Severity", "Description", "Suggested Action"}
}

func exportRow(d reconciliation.Discrepancy) []string {
	return []string{
		d.Date.Format(dateKeyLayout),
		string(d.Type),
		string(d.Severity),
		d.Description,
		d.SuggestedAction,
	}
}
