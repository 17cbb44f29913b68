package user

import (
	"context"
)

// UserRepository defines data access methods for user accounts.
type UserRepository interface {
	// Create creates a new user account
	Create(ctx context.Context, user User) (User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email, used for login
	GetByEmail(ctx context.Context, email string) (User, error)

	// List retrieves all active users
	List(ctx context.Context) ([]User, error)

	// ListEmployees retrieves all active users with the employee role.
	// Used by the nightly absence sweep.
	ListEmployees(ctx context.Context) ([]User, error)

	// ListManagers retrieves all active users with the manager or admin role.
	// Used to fan out pending-approval events.
	ListManagers(ctx context.Context) ([]User, error)

	// Update updates an existing user
	Update(ctx context.Context, user User) error
}
