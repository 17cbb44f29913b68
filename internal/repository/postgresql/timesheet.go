package postgresql

import (
	"context"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/timesheet"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/database"
)

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.EntryRepository {
	return &timesheetRepositoryImpl{db: db}
}

const entryColumns = `id, employee_id, date, start_time, end_time,
		break_minutes, total_hours, status, created_at, updated_at`

func scanEntry(row interface{ Scan(dest ...any) error }) (timesheet.Entry, error) {
	var e timesheet.Entry
	err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.Date,
		&e.StartTime,
		&e.EndTime,
		&e.BreakMinutes,
		&e.TotalHours,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// Create implements timesheet.EntryRepository.
func (r *timesheetRepositoryImpl) Create(ctx context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO timesheet_entries (id, employee_id, date, start_time,
			end_time, break_minutes, total_hours, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + entryColumns

	return scanEntry(q.QueryRow(ctx, insertQuery,
		entry.ID, entry.EmployeeID, entry.Date, entry.StartTime,
		entry.EndTime, entry.BreakMinutes, entry.TotalHours, entry.Status,
	))
}

// GetByID implements timesheet.EntryRepository.
func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM timesheet_entries WHERE id = $1`
	return scanEntry(q.QueryRow(ctx, query, id))
}

// GetByEmployeeAndDate implements timesheet.EntryRepository.
func (r *timesheetRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM timesheet_entries
		WHERE employee_id = $1 AND date = $2`
	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	entry, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByEmployeeAndRange implements timesheet.EntryRepository.
func (r *timesheetRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM timesheet_entries
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date`
	rows, err := q.Query(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Update implements timesheet.EntryRepository.
func (r *timesheetRepositoryImpl) Update(ctx context.Context, entry timesheet.Entry) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE timesheet_entries
		SET start_time = $1, end_time = $2, break_minutes = $3,
			total_hours = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := q.Exec(ctx, updateQuery,
		entry.StartTime, entry.EndTime, entry.BreakMinutes,
		entry.TotalHours, entry.Status, entry.ID,
	)
	return err
}

// Delete implements timesheet.EntryRepository.
func (r *timesheetRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM timesheet_entries WHERE id = $1`, id)
	return err
}
