package postgresql

import (
	"context"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/user"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `id, email, password_hash, full_name, role,
		work_start_time, work_end_time, grace_minutes, timezone,
		is_active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&u.WorkStartTime,
		&u.WorkEndTime,
		&u.GraceMinutes,
		&u.Timezone,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO users (id, email, password_hash, full_name, role,
			work_start_time, work_end_time, grace_minutes, timezone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	return scanUser(q.QueryRow(ctx, insertQuery,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Role,
		u.WorkStartTime, u.WorkEndTime, u.GraceMinutes, u.Timezone, u.IsActive,
	))
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(q.QueryRow(ctx, query, email))
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE ORDER BY full_name`
	return r.queryUsers(ctx, query)
}

// ListEmployees implements user.UserRepository.
func (r *userRepositoryImpl) ListEmployees(ctx context.Context) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE is_active = TRUE AND role = 'employee' ORDER BY full_name`
	return r.queryUsers(ctx, query)
}

// ListManagers implements user.UserRepository.
func (r *userRepositoryImpl) ListManagers(ctx context.Context) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE is_active = TRUE AND role IN ('manager', 'admin') ORDER BY full_name`
	return r.queryUsers(ctx, query)
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE users
		SET email = $1, password_hash = $2, full_name = $3, role = $4,
			work_start_time = $5, work_end_time = $6, grace_minutes = $7,
			timezone = $8, is_active = $9, updated_at = NOW()
		WHERE id = $10
	`
	_, err := q.Exec(ctx, updateQuery,
		u.Email, u.PasswordHash, u.FullName, u.Role,
		u.WorkStartTime, u.WorkEndTime, u.GraceMinutes,
		u.Timezone, u.IsActive, u.ID,
	)
	return err
}

func (r *userRepositoryImpl) queryUsers(ctx context.Context, query string, args ...interface{}) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
