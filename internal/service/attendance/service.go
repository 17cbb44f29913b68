package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/geofence"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/user"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/sse"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	locationRepo   location.LocationRepository
	userRepo       user.UserRepository
	geofenceSvc    geofence.Service
	fileStorage    storage.FileStorage
	hub            *sse.Hub
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	locationRepo location.LocationRepository,
	userRepo user.UserRepository,
	geofenceSvc geofence.Service,
	fileStorage storage.FileStorage,
	hub *sse.Hub,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		locationRepo:   locationRepo,
		userRepo:       userRepo,
		geofenceSvc:    geofenceSvc,
		fileStorage:    fileStorage,
		hub:            hub,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := time.Now().UTC()

	emp, err := a.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, user.ErrUserNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	loc := a.userLocation(emp)
	nowLocal := nowUTC.In(loc)
	date := localDate(nowLocal)

	existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil && existing.Status != attendance.StatusRejected {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	assigned, err := a.locationRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list assigned locations: %w", err)
	}
	if len(assigned) == 0 {
		return attendance.AttendanceResponse{}, attendance.ErrNoLocationsConfigured
	}

	verdict, err := a.geofenceSvc.Validate(geofence.Coordinate{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
	}, assigned)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	status := attendance.StatusPresent
	lateMinutes := 0

	scheduledIn := scheduledTime(nowLocal, emp.WorkStartTime, loc, 9, 0)
	graceLimit := scheduledIn.Add(time.Duration(emp.GraceMinutes) * time.Minute)
	if nowLocal.After(graceLimit) {
		status = attendance.StatusLate
		// Lateness counts from the scheduled start, not the grace limit.
		diff := nowLocal.Sub(scheduledIn).Minutes()
		if diff > 0 {
			lateMinutes = int(math.Floor(diff))
		}
	}

	if verdict.RequiresApproval {
		status = attendance.StatusPendingApproval
	}

	record := attendance.Attendance{
		ID:                    uuid.NewString(),
		EmployeeID:            employeeID,
		Date:                  date,
		CheckIn:               &nowUTC,
		CheckInLatitude:       &req.Latitude,
		CheckInLongitude:      &req.Longitude,
		CheckInAccuracyMeters: req.AccuracyMeters,
		IsWithinGeofence:      &verdict.IsWithinAnyGeofence,
		Status:                status,
	}
	if lateMinutes > 0 {
		record.LateMinutes = &lateMinutes
	}
	if verdict.Nearest != nil {
		record.NearestLocationID = &verdict.Nearest.LocationID
		record.NearestLocationName = &verdict.Nearest.LocationName
		record.NearestDistanceMeters = &verdict.Nearest.DistanceMeters
	}

	if req.File != nil && req.FileHeader != nil {
		photoURL, err := a.uploadProofPhoto(ctx, employeeID, record.ID, req)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.CheckInProofURL = &photoURL
	}

	created, err := a.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	if status == attendance.StatusPendingApproval {
		a.notifyManagers(ctx, created, verdict)
	}

	resp := a.mapToResponse(created)
	resp.Geofence = geofenceSummary(created, verdict.AccuracyTier)
	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := time.Now().UTC()

	session, err := a.attendanceRepo.GetOpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if session.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	emp, err := a.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	// An open break is closed implicitly at check-out time.
	if openBreak, err := a.attendanceRepo.GetOpenBreak(ctx, session.ID); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open break: %w", err)
	} else if openBreak != nil {
		duration := int(nowUTC.Sub(openBreak.Start).Minutes())
		if err := a.attendanceRepo.CloseBreak(ctx, openBreak.ID, nowUTC, duration); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to close open break: %w", err)
		}
	}

	breaks, err := a.attendanceRepo.ListBreaks(ctx, session.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}
	session.Breaks = breaks

	breakMinutes := 0
	for _, b := range breaks {
		breakMinutes += b.DurationMinutes
	}

	workMinutes := 0
	if session.CheckIn != nil {
		workMinutes = int(nowUTC.Sub(*session.CheckIn).Minutes()) - breakMinutes
		if workMinutes < 0 {
			workMinutes = 0
		}
	}

	loc := a.userLocation(emp)
	nowLocal := nowUTC.In(loc)
	scheduledOut := scheduledTime(nowLocal, emp.WorkEndTime, loc, 17, 0)

	if nowLocal.Before(scheduledOut) {
		early := int(scheduledOut.Sub(nowLocal).Minutes())
		if early > emp.GraceMinutes {
			session.EarlyLeaveMinutes = &early
			if session.Status == attendance.StatusPresent {
				session.Status = attendance.StatusEarlyDeparture
			}
		}
	} else {
		overtime := int(nowLocal.Sub(scheduledOut).Minutes())
		if overtime > emp.GraceMinutes {
			session.OvertimeMinutes = &overtime
			if session.Status == attendance.StatusPresent {
				session.Status = attendance.StatusOvertime
			}
		}
	}

	session.CheckOut = &nowUTC
	session.CheckOutLatitude = &req.Latitude
	session.CheckOutLongitude = &req.Longitude
	session.WorkMinutes = &workMinutes

	if err := a.attendanceRepo.Update(ctx, session); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return a.mapToResponse(session), nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	session, err := a.attendanceRepo.GetOpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	openBreak, err := a.attendanceRepo.GetOpenBreak(ctx, session.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open break: %w", err)
	}
	if openBreak != nil {
		return attendance.AttendanceResponse{}, attendance.ErrBreakAlreadyOpen
	}

	_, err = a.attendanceRepo.CreateBreak(ctx, attendance.Break{
		ID:           uuid.NewString(),
		AttendanceID: session.ID,
		Start:        time.Now().UTC(),
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create break: %w", err)
	}

	return a.GetAttendance(ctx, session.ID)
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	session, err := a.attendanceRepo.GetOpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	openBreak, err := a.attendanceRepo.GetOpenBreak(ctx, session.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open break: %w", err)
	}
	if openBreak == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoOpenBreak
	}

	now := time.Now().UTC()
	duration := int(now.Sub(openBreak.Start).Minutes())
	if err := a.attendanceRepo.CloseBreak(ctx, openBreak.ID, now, duration); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to close break: %w", err)
	}

	return a.GetAttendance(ctx, session.ID)
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.EmployeeID = &employeeID
	return a.ListAttendance(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, totalCount, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, a.mapToResponse(rec))
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  totalCount,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return a.mapToResponse(record), nil
}

// ApproveAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ApproveAttendance(ctx context.Context, approverID string, req attendance.ApproveAttendanceRequest) (attendance.AttendanceResponse, error) {
	record, err := a.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if record.Status != attendance.StatusPendingApproval {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceAlreadyProcessed
	}

	now := time.Now().UTC()
	record.Status = attendance.StatusPresent
	if record.LateMinutes != nil && *record.LateMinutes > 0 {
		record.Status = attendance.StatusLate
	}
	record.ApprovedBy = &approverID
	record.ApprovedAt = &now

	if err := a.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	a.hub.Publish(record.EmployeeID, sse.Event{
		UserID: record.EmployeeID,
		Event:  sse.EventAttendanceApproved,
		Data: map[string]interface{}{
			"attendance_id": record.ID,
			"status":        record.Status,
		},
	})

	return a.mapToResponse(record), nil
}

// RejectAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RejectAttendance(ctx context.Context, approverID string, req attendance.RejectAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if record.Status != attendance.StatusPendingApproval {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceAlreadyProcessed
	}

	now := time.Now().UTC()
	record.Status = attendance.StatusRejected
	record.ApprovedBy = &approverID
	record.ApprovedAt = &now
	record.RejectionReason = &req.Reason

	if err := a.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	a.hub.Publish(record.EmployeeID, sse.Event{
		UserID: record.EmployeeID,
		Event:  sse.EventAttendanceRejected,
		Data: map[string]interface{}{
			"attendance_id": record.ID,
			"reason":        req.Reason,
		},
	})

	return a.mapToResponse(record), nil
}

func (a *AttendanceServiceImpl) uploadProofPhoto(ctx context.Context, employeeID string, attendanceID string, req attendance.CheckInRequest) (string, error) {
	ext := strings.ToLower(filepath.Ext(req.FileHeader.Filename))
	contentType := req.FileHeader.Header.Get("Content-Type")

	path := storage.ProofPhotoPath(employeeID, attendanceID, ext)
	storedPath, err := a.fileStorage.Upload(ctx, req.File, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload proof photo: %w", err)
	}

	url, err := a.fileStorage.GetURL(ctx, storedPath, 24*time.Hour)
	if err != nil {
		return "", fmt.Errorf("failed to resolve proof photo URL: %w", err)
	}
	return url, nil
}

func (a *AttendanceServiceImpl) notifyManagers(ctx context.Context, record attendance.Attendance, verdict geofence.Verdict) {
	managers, err := a.userRepo.ListManagers(ctx)
	if err != nil {
		return
	}

	managerIDs := make([]string, 0, len(managers))
	for _, m := range managers {
		managerIDs = append(managerIDs, m.ID)
	}

	data := map[string]interface{}{
		"attendance_id": record.ID,
		"employee_id":   record.EmployeeID,
		"date":          record.Date.Format("2006-01-02"),
	}
	if verdict.Nearest != nil {
		data["nearest_location"] = verdict.Nearest.LocationName
		data["distance_meters"] = math.Round(verdict.Nearest.DistanceMeters)
	}

	a.hub.PublishToMany(managerIDs, sse.Event{
		Event: sse.EventAttendancePending,
		Data:  data,
	})
}

func (a *AttendanceServiceImpl) mapToResponse(rec attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		Date:              rec.Date.Format("2006-01-02"),
		CheckInTime:       timePtrToString(rec.CheckIn),
		CheckOutTime:      timePtrToString(rec.CheckOut),
		Status:            rec.Status,
		LateMinutes:       rec.LateMinutes,
		EarlyLeaveMinutes: rec.EarlyLeaveMinutes,
		OvertimeMinutes:   rec.OvertimeMinutes,
		RejectionReason:   rec.RejectionReason,
		ProofPhotoURL:     rec.CheckInProofURL,
	}
	if rec.EmployeeName != nil {
		resp.EmployeeName = *rec.EmployeeName
	}
	if rec.WorkMinutes != nil {
		hours := rec.TotalHours()
		resp.TotalHours = &hours
	}
	if !rec.CreatedAt.IsZero() {
		resp.CreatedAt = rec.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if rec.IsWithinGeofence != nil {
		resp.Geofence = geofenceSummary(rec, accuracyTierFor(rec.CheckInAccuracyMeters))
	}
	for _, b := range rec.Breaks {
		resp.Breaks = append(resp.Breaks, attendance.BreakResponse{
			ID:              b.ID,
			Start:           b.Start.UTC().Format(time.RFC3339),
			End:             timePtrToString(b.End),
			DurationMinutes: b.DurationMinutes,
		})
	}
	return resp
}

func geofenceSummary(rec attendance.Attendance, tier geofence.AccuracyTier) *attendance.GeofenceSummary {
	if rec.IsWithinGeofence == nil {
		return nil
	}
	return &attendance.GeofenceSummary{
		IsWithinGeofence:      *rec.IsWithinGeofence,
		NearestLocationName:   rec.NearestLocationName,
		NearestDistanceMeters: rec.NearestDistanceMeters,
		AccuracyTier:          string(tier),
	}
}

func accuracyTierFor(accuracyMeters *float64) geofence.AccuracyTier {
	switch {
	case accuracyMeters == nil:
		return geofence.AccuracyUnknown
	case *accuracyMeters <= 10:
		return geofence.AccuracyHigh
	case *accuracyMeters <= 50:
		return geofence.AccuracyMedium
	default:
		return geofence.AccuracyLow
	}
}

func (a *AttendanceServiceImpl) userLocation(emp user.User) *time.Location {
	loc, err := time.LoadLocation(emp.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// localDate truncates a local timestamp to its calendar date, kept in UTC so
// the same day maps to the same key regardless of timezone.
func localDate(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// scheduledTime resolves a wall-clock schedule field ("09:00:00" or "09:00")
// on the given day, falling back to the provided default when unset.
func scheduledTime(local time.Time, value string, loc *time.Location, defHour, defMin int) time.Time {
	parsed, err := time.Parse("15:04:05", value)
	if err != nil {
		parsed, err = time.Parse("15:04", value)
		if err != nil {
			parsed = time.Date(0, 1, 1, defHour, defMin, 0, 0, time.UTC)
		}
	}
	return time.Date(
		local.Year(), local.Month(), local.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0,
		loc,
	)
}
