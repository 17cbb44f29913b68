package postgresql

import (
	"context"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/auth"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/database"
)

type refreshTokenRepositoryImpl struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{db: db}
}

// Store implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) Store(ctx context.Context, userID, token string, expiresAt int64) error {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, TO_TIMESTAMP($3))
	`
	_, err := q.Exec(ctx, insertQuery, token, userID, expiresAt)
	return err
}

// IsValid implements auth.RefreshTokenRepository. It returns pgx.ErrNoRows
// when the token is unknown, revoked, or expired.
func (r *refreshTokenRepositoryImpl) IsValid(ctx context.Context, token string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`
	var userID string
	if err := q.QueryRow(ctx, query, token).Scan(&userID); err != nil {
		return "", err
	}
	return userID, nil
}

// Revoke implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) Revoke(ctx context.Context, token string) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE token = $1 AND revoked_at IS NULL
	`
	_, err := q.Exec(ctx, updateQuery, token)
	return err
}
