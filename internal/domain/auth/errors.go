package auth

import "errors"

// Auth domain errors
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or malformed token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
	ErrOAuthExchangeFailed = errors.New("failed to exchange oauth authorization code")
)
