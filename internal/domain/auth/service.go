package auth

import (
	"context"
)

// AuthService defines authentication business logic.
type AuthService interface {
	// Login authenticates with email and password
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// LoginWithGoogle returns the Google consent-screen URL to redirect to
	LoginWithGoogle(ctx context.Context) (string, error)

	// OAuthCallbackGoogle completes the Google OAuth flow for an existing user
	OAuthCallbackGoogle(ctx context.Context, code string) (LoginResponse, error)

	// Refresh exchanges a valid refresh token for a new access token
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)

	// Logout revokes the refresh token
	Logout(ctx context.Context, refreshToken string) error
}

// RefreshTokenRepository persists issued refresh tokens so they can be
// revoked server-side.
type RefreshTokenRepository interface {
	Store(ctx context.Context, userID, token string, expiresAt int64) error
	IsValid(ctx context.Context, token string) (userID string, err error)
	Revoke(ctx context.Context, token string) error
}
