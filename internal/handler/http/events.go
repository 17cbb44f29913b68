package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/middleware"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/response"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/jwt"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/sse"
)

type EventsHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	jwtService jwt.Service
	hub        *sse.Hub
}

func NewEventsHandler(jwtService jwt.Service, hub *sse.Hub) EventsHandler {
	return &eventsHandlerImpl{
		jwtService: jwtService,
		hub:        hub,
	}
}

type sseTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *eventsHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, sseTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection for real-time attendance events
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Token comes via query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
