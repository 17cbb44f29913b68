package attendance

import (
	"time"
)

// Attendance statuses. PENDING_APPROVAL and REJECTED belong to the
// out-of-geofence approval workflow; the rest classify a completed day.
const (
	StatusPresent         = "PRESENT"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusAbsent          = "ABSENT"
	StatusLate            = "LATE"
	StatusEarlyDeparture  = "EARLY_DEPARTURE"
	StatusOvertime        = "OVERTIME"
	StatusRejected        = "REJECTED"
)

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time

	CheckIn  *time.Time
	CheckOut *time.Time

	// Net of breaks, filled on check-out.
	WorkMinutes *int

	CheckInLatitude       *float64
	CheckInLongitude      *float64
	CheckInAccuracyMeters *float64
	CheckInProofURL       *string
	CheckOutLatitude      *float64
	CheckOutLongitude     *float64
	CheckOutProofURL      *string

	// Geofence outcome attached at check-in. The full verdict is ephemeral;
	// only these summary fields survive.
	IsWithinGeofence      *bool
	NearestLocationID     *string
	NearestLocationName   *string
	NearestDistanceMeters *float64

	Status            string
	ApprovedBy        *string
	ApprovedAt        *time.Time
	RejectionReason   *string
	LateMinutes       *int
	EarlyLeaveMinutes *int
	OvertimeMinutes   *int

	Breaks []Break

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// Break is a rest period within one attendance day.
type Break struct {
	ID              string
	AttendanceID    string
	Start           time.Time
	End             *time.Time
	DurationMinutes int
}

// TotalHours returns the net worked hours, 0 until check-out.
func (a Attendance) TotalHours() float64 {
	if a.WorkMinutes == nil {
		return 0
	}
	return float64(*a.WorkMinutes) / 60.0
}

// BreakHours returns the summed break duration in hours.
func (a Attendance) BreakHours() float64 {
	total := 0
	for _, b := range a.Breaks {
		total += b.DurationMinutes
	}
	return float64(total) / 60.0
}
