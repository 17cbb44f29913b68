package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/timesheet"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EntryServiceImpl struct {
	entryRepo timesheet.EntryRepository
}

func NewEntryService(entryRepo timesheet.EntryRepository) timesheet.EntryService {
	return &EntryServiceImpl{entryRepo: entryRepo}
}

// CreateEntry implements timesheet.EntryService.
func (s *EntryServiceImpl) CreateEntry(ctx context.Context, employeeID string, req timesheet.CreateEntryRequest) (timesheet.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.EntryResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	existing, err := s.entryRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to check existing entry: %w", err)
	}
	if existing != nil {
		return timesheet.EntryResponse{}, timesheet.ErrEntryExistsForDate
	}

	start := combine(date, req.StartTime)
	end := combine(date, req.EndTime)

	entry := timesheet.Entry{
		ID:           uuid.NewString(),
		EmployeeID:   employeeID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: req.BreakMinutes,
		TotalHours:   netHours(start, end, req.BreakMinutes),
		Status:       timesheet.StatusDraft,
	}

	created, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to create timesheet entry: %w", err)
	}

	return mapToResponse(created), nil
}

// GetEntry implements timesheet.EntryService.
func (s *EntryServiceImpl) GetEntry(ctx context.Context, id string) (timesheet.EntryResponse, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return timesheet.EntryResponse{}, err
	}
	return mapToResponse(entry), nil
}

// ListMyEntries implements timesheet.EntryService.
func (s *EntryServiceImpl) ListMyEntries(ctx context.Context, employeeID string, filter timesheet.EntryRangeFilter) (timesheet.ListEntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.ListEntryResponse{}, err
	}

	start, _ := validator.IsValidDate(filter.StartDate)
	end, _ := validator.IsValidDate(filter.EndDate)

	entries, err := s.entryRepo.ListByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return timesheet.ListEntryResponse{}, fmt.Errorf("failed to list timesheet entries: %w", err)
	}

	responses := make([]timesheet.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, mapToResponse(e))
	}

	return timesheet.ListEntryResponse{
		TotalCount: len(responses),
		Entries:    responses,
	}, nil
}

// UpdateEntry implements timesheet.EntryService.
func (s *EntryServiceImpl) UpdateEntry(ctx context.Context, employeeID string, req timesheet.UpdateEntryRequest) (timesheet.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.EntryResponse{}, err
	}

	entry, err := s.getEntry(ctx, req.ID)
	if err != nil {
		return timesheet.EntryResponse{}, err
	}

	if entry.EmployeeID != employeeID {
		return timesheet.EntryResponse{}, timesheet.ErrUnauthorized
	}
	if entry.Status == timesheet.StatusApproved {
		return timesheet.EntryResponse{}, timesheet.ErrEntryAlreadyApproved
	}

	if req.StartTime != nil {
		entry.StartTime = combine(entry.Date, *req.StartTime)
	}
	if req.EndTime != nil {
		entry.EndTime = combine(entry.Date, *req.EndTime)
	}
	if req.BreakMinutes != nil {
		entry.BreakMinutes = *req.BreakMinutes
	}

	if !entry.EndTime.After(entry.StartTime) {
		return timesheet.EntryResponse{}, validator.ValidationErrors{{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		}}
	}
	if entry.BreakMinutes >= int(entry.EndTime.Sub(entry.StartTime).Minutes()) {
		return timesheet.EntryResponse{}, validator.ValidationErrors{{
			Field:   "break_minutes",
			Message: "break_minutes must be shorter than the working period",
		}}
	}

	entry.TotalHours = netHours(entry.StartTime, entry.EndTime, entry.BreakMinutes)

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to update timesheet entry: %w", err)
	}

	return mapToResponse(entry), nil
}

// SubmitEntry implements timesheet.EntryService.
func (s *EntryServiceImpl) SubmitEntry(ctx context.Context, employeeID string, id string) (timesheet.EntryResponse, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return timesheet.EntryResponse{}, err
	}

	if entry.EmployeeID != employeeID {
		return timesheet.EntryResponse{}, timesheet.ErrUnauthorized
	}
	if entry.Status == timesheet.StatusApproved {
		return timesheet.EntryResponse{}, timesheet.ErrEntryAlreadyApproved
	}

	entry.Status = timesheet.StatusSubmitted
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to submit timesheet entry: %w", err)
	}

	return mapToResponse(entry), nil
}

// ApproveEntry implements timesheet.EntryService.
func (s *EntryServiceImpl) ApproveEntry(ctx context.Context, id string) (timesheet.EntryResponse, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return timesheet.EntryResponse{}, err
	}

	if entry.Status == timesheet.StatusApproved {
		return timesheet.EntryResponse{}, timesheet.ErrEntryAlreadyApproved
	}
	if entry.Status != timesheet.StatusSubmitted {
		return timesheet.EntryResponse{}, timesheet.ErrEntryNotSubmitted
	}

	entry.Status = timesheet.StatusApproved
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to approve timesheet entry: %w", err)
	}

	return mapToResponse(entry), nil
}

// DeleteEntry implements timesheet.EntryService.
func (s *EntryServiceImpl) DeleteEntry(ctx context.Context, employeeID string, id string) error {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return err
	}

	if entry.EmployeeID != employeeID {
		return timesheet.ErrUnauthorized
	}
	if entry.Status == timesheet.StatusApproved {
		return timesheet.ErrEntryAlreadyApproved
	}

	if err := s.entryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete timesheet entry: %w", err)
	}
	return nil
}

func (s *EntryServiceImpl) getEntry(ctx context.Context, id string) (timesheet.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Entry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.Entry{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}
	return entry, nil
}

// combine attaches a wall-clock time ("09:00" or "09:00:00") to a date.
func combine(date time.Time, timeOfDay string) time.Time {
	t, ok := validator.IsValidTimeOfDay(timeOfDay)
	if !ok {
		return date
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC,
	)
}

func netHours(start, end time.Time, breakMinutes int) float64 {
	net := end.Sub(start).Minutes() - float64(breakMinutes)
	if net < 0 {
		net = 0
	}
	return net / 60.0
}

func mapToResponse(e timesheet.Entry) timesheet.EntryResponse {
	resp := timesheet.EntryResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		Date:         e.Date.Format("2006-01-02"),
		StartTime:    e.StartTime.Format("15:04:05"),
		EndTime:      e.EndTime.Format("15:04:05"),
		BreakMinutes: e.BreakMinutes,
		TotalHours:   e.TotalHours,
		Status:       e.Status,
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		resp.UpdatedAt = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
