package middleware

import (
	"net/http"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/auth"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests whose verified JWT is missing or is not an
// access token (refresh and SSE tokens must not reach API handlers).
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserID extracts the authenticated user's ID from the JWT claims.
func UserID(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	userID, ok := claims["user_id"].(string)
	return userID, ok && userID != ""
}
