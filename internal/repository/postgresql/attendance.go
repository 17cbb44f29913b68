package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `a.id, a.employee_id, a.date, a.check_in, a.check_out,
		a.work_minutes, a.check_in_latitude, a.check_in_longitude,
		a.check_in_accuracy_meters, a.check_in_proof_url,
		a.check_out_latitude, a.check_out_longitude, a.check_out_proof_url,
		a.is_within_geofence, a.nearest_location_id, a.nearest_location_name,
		a.nearest_distance_meters, a.status, a.approved_by, a.approved_at,
		a.rejection_reason, a.late_minutes, a.early_leave_minutes,
		a.overtime_minutes, a.created_at, a.updated_at`

func scanAttendance(row interface{ Scan(dest ...any) error }) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.CheckIn,
		&a.CheckOut,
		&a.WorkMinutes,
		&a.CheckInLatitude,
		&a.CheckInLongitude,
		&a.CheckInAccuracyMeters,
		&a.CheckInProofURL,
		&a.CheckOutLatitude,
		&a.CheckOutLongitude,
		&a.CheckOutProofURL,
		&a.IsWithinGeofence,
		&a.NearestLocationID,
		&a.NearestLocationName,
		&a.NearestDistanceMeters,
		&a.Status,
		&a.ApprovedBy,
		&a.ApprovedAt,
		&a.RejectionReason,
		&a.LateMinutes,
		&a.EarlyLeaveMinutes,
		&a.OvertimeMinutes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO attendances (id, employee_id, date, check_in, check_out,
			work_minutes, check_in_latitude, check_in_longitude,
			check_in_accuracy_meters, check_in_proof_url,
			check_out_latitude, check_out_longitude, check_out_proof_url,
			is_within_geofence, nearest_location_id, nearest_location_name,
			nearest_distance_meters, status, late_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + strings.ReplaceAll(attendanceColumns, "a.", "")

	return scanAttendance(q.QueryRow(ctx, insertQuery,
		rec.ID, rec.EmployeeID, rec.Date, rec.CheckIn, rec.CheckOut,
		rec.WorkMinutes, rec.CheckInLatitude, rec.CheckInLongitude,
		rec.CheckInAccuracyMeters, rec.CheckInProofURL,
		rec.CheckOutLatitude, rec.CheckOutLongitude, rec.CheckOutProofURL,
		rec.IsWithinGeofence, rec.NearestLocationID, rec.NearestLocationName,
		rec.NearestDistanceMeters, rec.Status, rec.LateMinutes,
	))
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.id = $1`
	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		return attendance.Attendance{}, err
	}

	breaks, err := r.ListBreaks(ctx, rec.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	rec.Breaks = breaks
	return rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
		ORDER BY a.created_at DESC
		LIMIT 1`
	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanAttendance(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetOpenSession(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a
		WHERE a.employee_id = $1 AND a.check_in IS NOT NULL AND a.check_out IS NULL
		ORDER BY a.date DESC
		LIMIT 1`
	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		return attendance.Attendance{}, err
	}

	breaks, err := r.ListBreaks(ctx, rec.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	rec.Breaks = breaks
	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, rec attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, work_minutes = $3,
			check_out_latitude = $4, check_out_longitude = $5,
			check_out_proof_url = $6, status = $7, approved_by = $8,
			approved_at = $9, rejection_reason = $10, late_minutes = $11,
			early_leave_minutes = $12, overtime_minutes = $13, updated_at = NOW()
		WHERE id = $14
	`
	_, err := q.Exec(ctx, updateQuery,
		rec.CheckIn, rec.CheckOut, rec.WorkMinutes,
		rec.CheckOutLatitude, rec.CheckOutLongitude,
		rec.CheckOutProofURL, rec.Status, rec.ApprovedBy,
		rec.ApprovedAt, rec.RejectionReason, rec.LateMinutes,
		rec.EarlyLeaveMinutes, rec.OvertimeMinutes, rec.ID,
	)
	return err
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIndex))
		args = append(args, *filter.StartDate)
		argIndex++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIndex))
		args = append(args, *filter.EndDate)
		argIndex++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + where
	var totalCount int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + attendanceColumns + `, u.full_name
		FROM attendances a
		JOIN users u ON u.id = a.employee_id
		WHERE ` + where + `
		ORDER BY a.date DESC, a.created_at DESC
		LIMIT $` + fmt.Sprint(argIndex) + ` OFFSET $` + fmt.Sprint(argIndex+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut,
			&a.WorkMinutes, &a.CheckInLatitude, &a.CheckInLongitude,
			&a.CheckInAccuracyMeters, &a.CheckInProofURL,
			&a.CheckOutLatitude, &a.CheckOutLongitude, &a.CheckOutProofURL,
			&a.IsWithinGeofence, &a.NearestLocationID, &a.NearestLocationName,
			&a.NearestDistanceMeters, &a.Status, &a.ApprovedBy, &a.ApprovedAt,
			&a.RejectionReason, &a.LateMinutes, &a.EarlyLeaveMinutes,
			&a.OvertimeMinutes, &a.CreatedAt, &a.UpdatedAt,
			&a.EmployeeName,
		)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, totalCount, nil
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a
		WHERE a.employee_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.date`
	rows, err := q.Query(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		breaks, err := r.ListBreaks(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Breaks = breaks
	}

	return records, nil
}

// ListStaleOpenSessions implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListStaleOpenSessions(ctx context.Context, minAgeDays int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a
		WHERE a.check_in IS NOT NULL AND a.check_out IS NULL
			AND a.date <= CURRENT_DATE - $1::int
		ORDER BY a.date`
	rows, err := q.Query(ctx, query, minAgeDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		breaks, err := r.ListBreaks(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Breaks = breaks
	}

	return records, nil
}

// CreateBreak implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateBreak(ctx context.Context, b attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO attendance_breaks (id, attendance_id, break_start)
		VALUES ($1, $2, $3)
		RETURNING id, attendance_id, break_start, break_end, duration_minutes
	`
	var created attendance.Break
	var duration *int
	err := q.QueryRow(ctx, insertQuery, b.ID, b.AttendanceID, b.Start).Scan(
		&created.ID, &created.AttendanceID, &created.Start, &created.End, &duration,
	)
	if err != nil {
		return attendance.Break{}, err
	}
	if duration != nil {
		created.DurationMinutes = *duration
	}
	return created, nil
}

// GetOpenBreak implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetOpenBreak(ctx context.Context, attendanceID string) (*attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, break_start, break_end, COALESCE(duration_minutes, 0)
		FROM attendance_breaks
		WHERE attendance_id = $1 AND break_end IS NULL
		LIMIT 1
	`
	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var b attendance.Break
	if err := rows.Scan(&b.ID, &b.AttendanceID, &b.Start, &b.End, &b.DurationMinutes); err != nil {
		return nil, err
	}
	return &b, nil
}

// CloseBreak implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CloseBreak(ctx context.Context, breakID string, end time.Time, durationMinutes int) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE attendance_breaks
		SET break_end = $1, duration_minutes = $2
		WHERE id = $3
	`
	_, err := q.Exec(ctx, updateQuery, end, durationMinutes, breakID)
	return err
}

// ListBreaks implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListBreaks(ctx context.Context, attendanceID string) ([]attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, break_start, break_end, COALESCE(duration_minutes, 0)
		FROM attendance_breaks
		WHERE attendance_id = $1
		ORDER BY break_start
	`
	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breaks []attendance.Break
	for rows.Next() {
		var b attendance.Break
		if err := rows.Scan(&b.ID, &b.AttendanceID, &b.Start, &b.End, &b.DurationMinutes); err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}
