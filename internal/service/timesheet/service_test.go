package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/timesheet"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memEntryRepo is an in-memory EntryRepository for exercising the service
// without a database.
type memEntryRepo struct {
	entries map[string]timesheet.Entry
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{entries: make(map[string]timesheet.Entry)}
}

func (r *memEntryRepo) Create(ctx context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *memEntryRepo) GetByID(ctx context.Context, id string) (timesheet.Entry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return timesheet.Entry{}, pgx.ErrNoRows
	}
	return entry, nil
}

func (r *memEntryRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*timesheet.Entry, error) {
	for _, e := range r.entries {
		if e.EmployeeID == employeeID && e.Date.Equal(date) {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memEntryRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]timesheet.Entry, error) {
	var out []timesheet.Entry
	for _, e := range r.entries {
		if e.EmployeeID == employeeID && !e.Date.Before(startDate) && !e.Date.After(endDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEntryRepo) Update(ctx context.Context, entry timesheet.Entry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return pgx.ErrNoRows
	}
	entry.UpdatedAt = time.Now().UTC()
	r.entries[entry.ID] = entry
	return nil
}

func (r *memEntryRepo) Delete(ctx context.Context, id string) error {
	delete(r.entries, id)
	return nil
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func createTestEntry(t *testing.T, svc timesheet.EntryService, employeeID, date string) timesheet.EntryResponse {
	t.Helper()
	resp, err := svc.CreateEntry(context.Background(), employeeID, timesheet.CreateEntryRequest{
		Date:         date,
		StartTime:    "09:00",
		EndTime:      "17:30",
		BreakMinutes: 60,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateEntry_Success(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())

	resp := createTestEntry(t, svc, "emp-1", "2026-03-02")

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, "09:00:00", resp.StartTime)
	assert.Equal(t, "17:30:00", resp.EndTime)
	assert.Equal(t, 60, resp.BreakMinutes)
	assert.InDelta(t, 7.5, resp.TotalHours, 0.001)
	assert.Equal(t, timesheet.StatusDraft, resp.Status)
}

func TestCreateEntry_DuplicateDate(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())

	createTestEntry(t, svc, "emp-1", "2026-03-02")

	_, err := svc.CreateEntry(context.Background(), "emp-1", timesheet.CreateEntryRequest{
		Date:         "2026-03-02",
		StartTime:    "10:00",
		EndTime:      "18:00",
		BreakMinutes: 0,
	})
	assert.ErrorIs(t, err, timesheet.ErrEntryExistsForDate)

	// Same date for another employee is fine.
	_, err = svc.CreateEntry(context.Background(), "emp-2", timesheet.CreateEntryRequest{
		Date:         "2026-03-02",
		StartTime:    "10:00",
		EndTime:      "18:00",
		BreakMinutes: 0,
	})
	assert.NoError(t, err)
}

func TestCreateEntry_InvalidRequest(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())

	_, err := svc.CreateEntry(context.Background(), "emp-1", timesheet.CreateEntryRequest{
		Date:         "2026-03-02",
		StartTime:    "17:00",
		EndTime:      "09:00",
		BreakMinutes: 0,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "end_time", verrs[0].Field)
}

func TestCreateEntry_BreakExceedsSpan(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())

	_, err := svc.CreateEntry(context.Background(), "emp-1", timesheet.CreateEntryRequest{
		Date:         "2026-03-02",
		StartTime:    "09:00",
		EndTime:      "10:00",
		BreakMinutes: 90,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "break_minutes", verrs[0].Field)
}

func TestUpdateEntry_RecomputesTotals(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())
	created := createTestEntry(t, svc, "emp-1", "2026-03-02")

	resp, err := svc.UpdateEntry(context.Background(), "emp-1", timesheet.UpdateEntryRequest{
		ID:           created.ID,
		EndTime:      strPtr("18:00"),
		BreakMinutes: intPtr(30),
	})
	require.NoError(t, err)

	assert.Equal(t, "18:00:00", resp.EndTime)
	assert.Equal(t, 30, resp.BreakMinutes)
	assert.InDelta(t, 8.5, resp.TotalHours, 0.001)
}

func TestUpdateEntry_OwnershipEnforced(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())
	created := createTestEntry(t, svc, "emp-1", "2026-03-02")

	_, err := svc.UpdateEntry(context.Background(), "emp-2", timesheet.UpdateEntryRequest{
		ID:      created.ID,
		EndTime: strPtr("18:00"),
	})
	assert.ErrorIs(t, err, timesheet.ErrUnauthorized)
}

func TestUpdateEntry_BreakExceedsNewSpan(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())
	created := createTestEntry(t, svc, "emp-1", "2026-03-02")

	_, err := svc.UpdateEntry(context.Background(), "emp-1", timesheet.UpdateEntryRequest{
		ID:      created.ID,
		EndTime: strPtr("09:30"),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "break_minutes", verrs[0].Field)
}

func TestSubmitAndApproveFlow(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())
	created := createTestEntry(t, svc, "emp-1", "2026-03-02")

	submitted, err := svc.SubmitEntry(context.Background(), "emp-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusSubmitted, submitted.Status)

	approved, err := svc.ApproveEntry(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusApproved, approved.Status)

	// Approved entries are immutable.
	_, err = svc.UpdateEntry(context.Background(), "emp-1", timesheet.UpdateEntryRequest{
		ID:      created.ID,
		EndTime: strPtr("19:00"),
	})
	assert.ErrorIs(t, err, timesheet.ErrEntryAlreadyApproved)

	err = svc.DeleteEntry(context.Background(), "emp-1", created.ID)
	assert.ErrorIs(t, err, timesheet.ErrEntryAlreadyApproved)
}

func TestApproveEntry_RequiresSubmitted(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())
	created := createTestEntry(t, svc, "emp-1", "2026-03-02")

	_, err := svc.ApproveEntry(context.Background(), created.ID)
	assert.ErrorIs(t, err, timesheet.ErrEntryNotSubmitted)
}

func TestDeleteEntry_RemovesDraft(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())
	created := createTestEntry(t, svc, "emp-1", "2026-03-02")

	require.NoError(t, svc.DeleteEntry(context.Background(), "emp-1", created.ID))

	_, err := svc.GetEntry(context.Background(), created.ID)
	assert.ErrorIs(t, err, timesheet.ErrEntryNotFound)
}

func TestGetEntry_NotFound(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())

	_, err := svc.GetEntry(context.Background(), "missing")
	assert.ErrorIs(t, err, timesheet.ErrEntryNotFound)
}

func TestListMyEntries_FiltersByRange(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())
	createTestEntry(t, svc, "emp-1", "2026-03-02")
	createTestEntry(t, svc, "emp-1", "2026-03-03")
	createTestEntry(t, svc, "emp-1", "2026-03-10")
	createTestEntry(t, svc, "emp-2", "2026-03-02")

	resp, err := svc.ListMyEntries(context.Background(), "emp-1", timesheet.EntryRangeFilter{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-07",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)
}

func TestListMyEntries_InvalidRange(t *testing.T) {
	svc := NewEntryService(newMemEntryRepo())

	_, err := svc.ListMyEntries(context.Background(), "emp-1", timesheet.EntryRangeFilter{
		StartDate: "2026-03-07",
		EndDate:   "2026-03-01",
	})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
