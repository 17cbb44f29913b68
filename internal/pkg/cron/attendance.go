package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
	scheduler.AddJob("auto_close_stale_sessions", 1*time.Hour, j.AutoCloseStaleSessions)
}

// MarkAbsentEmployees creates ABSENT records for active employees who never
// checked in on the previous day. Runs hourly but only acts during the
// midnight window so each day is swept once.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting mark-absent job")

	employees, err := j.userRepo.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	markedCount := 0
	for _, emp := range employees {
		existing, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, yesterday)
		if err != nil {
			slog.Error("Cron: Failed to look up attendance", "employee_id", emp.ID, "error", err)
			continue
		}
		if existing != nil {
			continue
		}

		_, err = j.attendanceRepo.Create(ctx, attendance.Attendance{
			ID:         uuid.NewString(),
			EmployeeID: emp.ID,
			Date:       yesterday,
			Status:     attendance.StatusAbsent,
		})
		if err != nil {
			slog.Error("Cron: Failed to create absent record", "employee_id", emp.ID, "error", err)
			continue
		}
		markedCount++
	}

	slog.Info("Cron: Mark-absent job completed", "marked", markedCount, "date", yesterday.Format("2006-01-02"))
	return nil
}

// AutoCloseStaleSessions closes attendance sessions that were left open past
// their day. The check-out is set to the employee's scheduled end of work and
// net work minutes are recomputed so reconciliation sees complete records.
func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting auto-close stale sessions job")

	sessions, err := j.attendanceRepo.ListStaleOpenSessions(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to list stale sessions: %w", err)
	}

	if len(sessions) == 0 {
		slog.Info("Cron: No stale sessions found")
		return nil
	}

	closedCount := 0
	for _, session := range sessions {
		emp, err := j.userRepo.GetByID(ctx, session.EmployeeID)
		if err != nil {
			slog.Error("Cron: Failed to load employee for stale session", "attendance_id", session.ID, "error", err)
			continue
		}

		checkOut := scheduledEnd(session.Date, emp.WorkEndTime, emp.Timezone)
		if session.CheckIn != nil && checkOut.Before(*session.CheckIn) {
			checkOut = *session.CheckIn
		}

		breakMinutes := 0
		for _, b := range session.Breaks {
			breakMinutes += b.DurationMinutes
		}

		workMinutes := 0
		if session.CheckIn != nil {
			workMinutes = int(checkOut.Sub(*session.CheckIn).Minutes()) - breakMinutes
			if workMinutes < 0 {
				workMinutes = 0
			}
		}

		session.CheckOut = &checkOut
		session.WorkMinutes = &workMinutes

		if err := j.attendanceRepo.Update(ctx, session); err != nil {
			slog.Error("Cron: Failed to close stale session", "attendance_id", session.ID, "error", err)
			continue
		}
		closedCount++
	}

	slog.Info("Cron: Auto-close job completed", "closed", closedCount)
	return nil
}

// scheduledEnd resolves the wall-clock end of work on the given date in the
// employee's timezone, falling back to UTC and 17:00 when unset.
func scheduledEnd(date time.Time, workEndTime string, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	end, err := time.Parse("15:04:05", workEndTime)
	if err != nil {
		end, err = time.Parse("15:04", workEndTime)
		if err != nil {
			end = time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC)
		}
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		end.Hour(), end.Minute(), end.Second(), 0,
		loc,
	).UTC()
}
