package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations.
// The acting employee/approver IDs come from the authenticated JWT claims,
// extracted by the HTTP layer.
type AttendanceService interface {
	// CheckIn processes employee check-in: validates the reported GPS fix
	// against the employee's assigned geofences and records PRESENT/LATE or
	// PENDING_APPROVAL accordingly
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut processes employee check-out and computes worked minutes
	CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error)

	// StartBreak opens a break on the employee's open session
	StartBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// EndBreak closes the employee's open break
	EndBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetMyAttendance retrieves attendance records for the authenticated employee
	GetMyAttendance(ctx context.Context, employeeID string, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (manager/admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ApproveAttendance approves a pending out-of-geofence check-in
	ApproveAttendance(ctx context.Context, approverID string, req ApproveAttendanceRequest) (AttendanceResponse, error)

	// RejectAttendance rejects a pending check-in with a reason
	RejectAttendance(ctx context.Context, approverID string, req RejectAttendanceRequest) (AttendanceResponse, error)
}
