package user

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// User is an account that can authenticate and, for employees, check in.
// Work schedule fields drive the late/early-departure classification:
// WorkStartTime/WorkEndTime are wall-clock times ("09:00:00") interpreted
// in the user's Timezone.
type User struct {
	ID            string
	Email         string
	PasswordHash  *string
	FullName      string
	Role          Role
	WorkStartTime string
	WorkEndTime   string
	GraceMinutes  int
	Timezone      string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
