package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/auth"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/response"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
	jwtService  jwt.Service
}

func NewAuthHandler(authService auth.AuthService, jwtService jwt.Service) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.setRefreshCookie(w, result)
	response.SuccessWithMessage(w, "Login successful", result)
}

// LoginWithGoogle implements AuthHandler.
func (h *authHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	url, err := h.authService.LoginWithGoogle(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler.
func (h *authHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "Missing authorization code", nil)
		return
	}

	result, err := h.authService.OAuthCallbackGoogle(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.setRefreshCookie(w, result)
	response.SuccessWithMessage(w, "Login successful", result)
}

// Refresh implements AuthHandler.
func (h *authHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Logout implements AuthHandler.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	// Expire the cookie client-side regardless.
	expired := h.jwtService.RefreshTokenCookie("", time.Now().Add(-time.Hour).Unix())
	http.SetCookie(w, expired)

	response.SuccessWithMessage(w, "Logged out", nil)
}

func (h *authHandlerImpl) setRefreshCookie(w http.ResponseWriter, result auth.LoginResponse) {
	expiresAt := time.Now().Unix() + result.RefreshTokenExpiresIn
	http.SetCookie(w, h.jwtService.RefreshTokenCookie(result.RefreshToken, expiresAt))
}
