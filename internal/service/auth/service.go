package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/auth"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/user"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/jwt"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/oauth"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo         user.UserRepository
	refreshTokenRepo auth.RefreshTokenRepository
	jwtService       jwt.Service
	googleOAuth      oauth.GoogleService
}

func NewAuthService(
	userRepo user.UserRepository,
	refreshTokenRepo auth.RefreshTokenRepository,
	jwtService jwt.Service,
	googleOAuth oauth.GoogleService,
) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtService:       jwtService,
		googleOAuth:      googleOAuth,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData)
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context) (string, error) {
	if a.googleOAuth == nil {
		return "", auth.ErrOAuthExchangeFailed
	}
	state := a.googleOAuth.GenerateState("")
	if state == "" {
		return "", fmt.Errorf("failed to generate oauth state")
	}
	return a.googleOAuth.RedirectURL(state), nil
}

// OAuthCallbackGoogle implements auth.AuthService.
func (a *AuthServiceImpl) OAuthCallbackGoogle(ctx context.Context, code string) (auth.LoginResponse, error) {
	if a.googleOAuth == nil {
		return auth.LoginResponse{}, auth.ErrOAuthExchangeFailed
	}

	token, err := a.googleOAuth.VerifyToken(ctx, code)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrOAuthExchangeFailed
	}

	info, err := a.googleOAuth.VerifyUser(ctx, token)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrOAuthExchangeFailed
	}
	if !info.VerifiedEmail {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	userData, err := a.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return a.issueTokens(ctx, userData)
}

// Refresh implements auth.AuthService.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.RefreshResponse, error) {
	userID, err := a.refreshTokenRepo.IsValid(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.RefreshResponse{}, auth.ErrRefreshTokenRevoked
		}
		return auth.RefreshResponse{}, fmt.Errorf("failed to validate refresh token: %w", err)
	}

	userData, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.RefreshResponse{}, auth.ErrInvalidToken
		}
		return auth.RefreshResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !userData.IsActive {
		return auth.RefreshResponse{}, user.ErrInactiveUser
	}

	accessToken, expiresAt, err := a.jwtService.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.RefreshResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.RefreshResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresAt - time.Now().Unix(),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := a.refreshTokenRepo.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, userData user.User) (auth.LoginResponse, error) {
	if !userData.IsActive {
		return auth.LoginResponse{}, user.ErrInactiveUser
	}

	accessToken, accessExpiresAt, err := a.jwtService.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := a.jwtService.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.refreshTokenRepo.Store(ctx, userData.ID, refreshToken, refreshExpiresAt); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to save refresh token: %w", err)
	}

	now := time.Now().Unix()
	return auth.LoginResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresIn:  accessExpiresAt - now,
		RefreshTokenExpiresIn: refreshExpiresAt - now,
		UserID:                userData.ID,
		FullName:              userData.FullName,
		Role:                  string(userData.Role),
	}, nil
}
