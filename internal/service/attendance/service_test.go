package attendance

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/user"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/sse"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/validator"
	geofencesvc "github.com/fieldhr/geoattend-backend-go/internal/service/geofence"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two fixed points roughly 290km apart, so one geofence can be trivially
// inside and the other far outside.
const (
	hqLat     = 12.9716
	hqLon     = 77.5946
	remoteLat = 13.0827
	remoteLon = 80.2707
)

type stubUserRepo struct {
	user.UserRepository
	users    map[string]user.User
	managers []user.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *stubUserRepo) ListManagers(ctx context.Context) ([]user.User, error) {
	return s.managers, nil
}

type stubLocationRepo struct {
	location.LocationRepository
	assigned []location.Location
}

func (s *stubLocationRepo) ListByEmployee(ctx context.Context, employeeID string) ([]location.Location, error) {
	return s.assigned, nil
}

type stubAttendanceRepo struct {
	attendance.AttendanceRepository
	records map[string]attendance.Attendance
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (s *stubAttendanceRepo) Create(ctx context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *stubAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	rec, ok := s.records[id]
	if !ok {
		return attendance.Attendance{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (s *stubAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	for _, rec := range s.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (s *stubAttendanceRepo) Update(ctx context.Context, rec attendance.Attendance) error {
	if _, ok := s.records[rec.ID]; !ok {
		return pgx.ErrNoRows
	}
	rec.UpdatedAt = time.Now().UTC()
	s.records[rec.ID] = rec
	return nil
}

// testEmployee has a midnight work start so lateness is fully controlled by
// the grace period: a day-long grace means never late, zero grace means any
// check-in counts as late.
func testEmployee(graceMinutes int) user.User {
	return user.User{
		ID:            "emp-1",
		Email:         "field@example.com",
		FullName:      "Field Employee",
		Role:          user.RoleEmployee,
		WorkStartTime: "00:00:00",
		WorkEndTime:   "23:59:59",
		GraceMinutes:  graceMinutes,
		Timezone:      "UTC",
		IsActive:      true,
	}
}

func hqLocation() location.Location {
	return location.Location{ID: "loc-hq", Name: "HQ", Latitude: hqLat, Longitude: hqLon, RadiusMeters: 100}
}

func remoteLocation() location.Location {
	return location.Location{ID: "loc-branch", Name: "Branch", Latitude: remoteLat, Longitude: remoteLon, RadiusMeters: 100}
}

func newTestService(attRepo *stubAttendanceRepo, locRepo *stubLocationRepo, userRepo *stubUserRepo, hub *sse.Hub) attendance.AttendanceService {
	return NewAttendanceService(attRepo, locRepo, userRepo, geofencesvc.NewGeofenceService(), nil, hub)
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func seedPendingRecord(attRepo *stubAttendanceRepo, lateMinutes *int) attendance.Attendance {
	now := time.Now().UTC()
	rec := attendance.Attendance{
		ID:          "att-pending",
		EmployeeID:  "emp-1",
		Date:        todayUTC(),
		CheckIn:     &now,
		Status:      attendance.StatusPendingApproval,
		LateMinutes: lateMinutes,
	}
	attRepo.records[rec.ID] = rec
	return rec
}

func TestCheckIn_WithinGeofenceAutoApproved(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	userRepo := &stubUserRepo{users: map[string]user.User{"emp-1": testEmployee(24 * 60)}}
	svc := newTestService(attRepo, &stubLocationRepo{assigned: []location.Location{hqLocation()}}, userRepo, sse.NewHub())

	resp, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:  hqLat,
		Longitude: hqLon,
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Nil(t, resp.LateMinutes)
	require.NotNil(t, resp.Geofence)
	assert.True(t, resp.Geofence.IsWithinGeofence)
	require.NotNil(t, resp.Geofence.NearestLocationName)
	assert.Equal(t, "HQ", *resp.Geofence.NearestLocationName)
}

func TestCheckIn_OutsideGeofencePendingApproval(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	manager := user.User{ID: "mgr-1", Role: user.RoleManager, IsActive: true}
	userRepo := &stubUserRepo{
		users:    map[string]user.User{"emp-1": testEmployee(24 * 60)},
		managers: []user.User{manager},
	}
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe("mgr-1")
	defer cleanup()

	svc := newTestService(attRepo, &stubLocationRepo{assigned: []location.Location{remoteLocation()}}, userRepo, hub)

	resp, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:  hqLat,
		Longitude: hqLon,
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPendingApproval, resp.Status)
	require.NotNil(t, resp.Geofence)
	assert.False(t, resp.Geofence.IsWithinGeofence)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventAttendancePending, ev.Event)
		assert.Equal(t, "mgr-1", ev.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected a pending-approval event for the manager")
	}
}

func TestCheckIn_LateAfterGrace(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	userRepo := &stubUserRepo{users: map[string]user.User{"emp-1": testEmployee(0)}}
	svc := newTestService(attRepo, &stubLocationRepo{assigned: []location.Location{hqLocation()}}, userRepo, sse.NewHub())

	resp, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:  hqLat,
		Longitude: hqLon,
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusLate, resp.Status)
}

func TestCheckIn_NoLocationsConfigured(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	userRepo := &stubUserRepo{users: map[string]user.User{"emp-1": testEmployee(24 * 60)}}
	svc := newTestService(attRepo, &stubLocationRepo{}, userRepo, sse.NewHub())

	_, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:  hqLat,
		Longitude: hqLon,
	})
	assert.ErrorIs(t, err, attendance.ErrNoLocationsConfigured)
}

func TestCheckIn_AlreadyCheckedIn(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	attRepo.records["att-1"] = attendance.Attendance{
		ID:         "att-1",
		EmployeeID: "emp-1",
		Date:       todayUTC(),
		Status:     attendance.StatusPresent,
	}
	userRepo := &stubUserRepo{users: map[string]user.User{"emp-1": testEmployee(24 * 60)}}
	svc := newTestService(attRepo, &stubLocationRepo{assigned: []location.Location{hqLocation()}}, userRepo, sse.NewHub())

	_, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:  hqLat,
		Longitude: hqLon,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_AllowedAfterRejection(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	attRepo.records["att-1"] = attendance.Attendance{
		ID:         "att-1",
		EmployeeID: "emp-1",
		Date:       todayUTC(),
		Status:     attendance.StatusRejected,
	}
	userRepo := &stubUserRepo{users: map[string]user.User{"emp-1": testEmployee(24 * 60)}}
	svc := newTestService(attRepo, &stubLocationRepo{assigned: []location.Location{hqLocation()}}, userRepo, sse.NewHub())

	resp, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:  hqLat,
		Longitude: hqLon,
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestCheckIn_UnknownEmployee(t *testing.T) {
	svc := newTestService(newStubAttendanceRepo(), &stubLocationRepo{}, &stubUserRepo{users: map[string]user.User{}}, sse.NewHub())

	_, err := svc.CheckIn(context.Background(), "ghost", attendance.CheckInRequest{
		Latitude:  hqLat,
		Longitude: hqLon,
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestCheckIn_InvalidCoordinates(t *testing.T) {
	svc := newTestService(newStubAttendanceRepo(), &stubLocationRepo{}, &stubUserRepo{users: map[string]user.User{}}, sse.NewHub())

	_, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:  91,
		Longitude: hqLon,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "latitude", verrs[0].Field)
}

func TestCheckIn_RejectsUnsupportedPhotoType(t *testing.T) {
	svc := newTestService(newStubAttendanceRepo(), &stubLocationRepo{}, &stubUserRepo{users: map[string]user.User{}}, sse.NewHub())

	_, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:   hqLat,
		Longitude:  hqLon,
		FileHeader: &multipart.FileHeader{Filename: "proof.gif", Size: 1024},
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "file", verrs[0].Field)
}

func TestCheckIn_AcceptsWebpPhotoType(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	userRepo := &stubUserRepo{users: map[string]user.User{"emp-1": testEmployee(24 * 60)}}
	svc := newTestService(attRepo, &stubLocationRepo{assigned: []location.Location{hqLocation()}}, userRepo, sse.NewHub())

	// Header without an opened file: the extension check passes and no
	// upload is attempted.
	resp, err := svc.CheckIn(context.Background(), "emp-1", attendance.CheckInRequest{
		Latitude:   hqLat,
		Longitude:  hqLon,
		FileHeader: &multipart.FileHeader{Filename: "proof.webp", Size: 1024},
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestApproveAttendance_PendingBecomesPresent(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	rec := seedPendingRecord(attRepo, nil)
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	svc := newTestService(attRepo, &stubLocationRepo{}, &stubUserRepo{}, hub)

	resp, err := svc.ApproveAttendance(context.Background(), "mgr-1", attendance.ApproveAttendanceRequest{ID: rec.ID})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, resp.Status)
	stored := attRepo.records[rec.ID]
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, "mgr-1", *stored.ApprovedBy)
	assert.NotNil(t, stored.ApprovedAt)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventAttendanceApproved, ev.Event)
	case <-time.After(time.Second):
		t.Fatal("expected an approval event for the employee")
	}
}

func TestApproveAttendance_LateCheckInKeepsLateStatus(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	late := 12
	rec := seedPendingRecord(attRepo, &late)

	svc := newTestService(attRepo, &stubLocationRepo{}, &stubUserRepo{}, sse.NewHub())

	resp, err := svc.ApproveAttendance(context.Background(), "mgr-1", attendance.ApproveAttendanceRequest{ID: rec.ID})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
}

func TestApproveAttendance_AlreadyProcessed(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	attRepo.records["att-1"] = attendance.Attendance{
		ID:         "att-1",
		EmployeeID: "emp-1",
		Date:       todayUTC(),
		Status:     attendance.StatusPresent,
	}

	svc := newTestService(attRepo, &stubLocationRepo{}, &stubUserRepo{}, sse.NewHub())

	_, err := svc.ApproveAttendance(context.Background(), "mgr-1", attendance.ApproveAttendanceRequest{ID: "att-1"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyProcessed)
}

func TestApproveAttendance_NotFound(t *testing.T) {
	svc := newTestService(newStubAttendanceRepo(), &stubLocationRepo{}, &stubUserRepo{}, sse.NewHub())

	_, err := svc.ApproveAttendance(context.Background(), "mgr-1", attendance.ApproveAttendanceRequest{ID: "missing"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestRejectAttendance(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	rec := seedPendingRecord(attRepo, nil)
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	svc := newTestService(attRepo, &stubLocationRepo{}, &stubUserRepo{}, hub)

	resp, err := svc.RejectAttendance(context.Background(), "mgr-1", attendance.RejectAttendanceRequest{
		ID:     rec.ID,
		Reason: "Outside assigned work locations",
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusRejected, resp.Status)
	stored := attRepo.records[rec.ID]
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "Outside assigned work locations", *stored.RejectionReason)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventAttendanceRejected, ev.Event)
	case <-time.After(time.Second):
		t.Fatal("expected a rejection event for the employee")
	}
}

func TestRejectAttendance_RequiresReason(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	rec := seedPendingRecord(attRepo, nil)

	svc := newTestService(attRepo, &stubLocationRepo{}, &stubUserRepo{}, sse.NewHub())

	_, err := svc.RejectAttendance(context.Background(), "mgr-1", attendance.RejectAttendanceRequest{ID: rec.ID})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "reason", verrs[0].Field)
}

func TestRejectAttendance_AlreadyProcessed(t *testing.T) {
	attRepo := newStubAttendanceRepo()
	attRepo.records["att-1"] = attendance.Attendance{
		ID:         "att-1",
		EmployeeID: "emp-1",
		Date:       todayUTC(),
		Status:     attendance.StatusRejected,
	}

	svc := newTestService(attRepo, &stubLocationRepo{}, &stubUserRepo{}, sse.NewHub())

	_, err := svc.RejectAttendance(context.Background(), "mgr-1", attendance.RejectAttendanceRequest{
		ID:     "att-1",
		Reason: "Duplicate submission",
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyProcessed)
}
