package user

import "errors"

// User domain errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailExists           = errors.New("email already registered")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrInactiveUser          = errors.New("user account is inactive")
)
