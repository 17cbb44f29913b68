package http

import (
	"log/slog"
	"os"

	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/middleware"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env      string
	LogLevel slog.Level
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	timesheetHandler TimesheetHandler,
	locationHandler LocationHandler,
	reconciliationHandler ReconciliationHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "geoattend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.Route("/login/oauth", func(r chi.Router) {
				r.Get("/google", authHandler.LoginWithGoogle)
			})
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})
		})

		// SSE stream authenticates with its own short-lived token.
		r.Get("/events/stream", eventsHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/events/token", eventsHandler.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Post("/breaks/start", attendanceHandler.StartBreak)
				r.Post("/breaks/end", attendanceHandler.EndBreak)
				r.Get("/me", attendanceHandler.GetMyAttendance)

				// Manager/admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", attendanceHandler.List)
					r.Get("/{id}", attendanceHandler.Get)
					r.Post("/{id}/approve", attendanceHandler.Approve)
					r.Post("/{id}/reject", attendanceHandler.Reject)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Post("/", timesheetHandler.Create)
				r.Get("/me", timesheetHandler.ListMine)
				r.Get("/{id}", timesheetHandler.Get)
				r.Put("/{id}", timesheetHandler.Update)
				r.Post("/{id}/submit", timesheetHandler.Submit)
				r.Delete("/{id}", timesheetHandler.Delete)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/approve", timesheetHandler.Approve)
				})
			})

			r.Route("/locations", func(r chi.Router) {
				r.Get("/", locationHandler.List)
				r.Get("/{id}", locationHandler.Get)

				// Manager/admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", locationHandler.Create)
					r.Put("/{id}", locationHandler.Update)
					r.Delete("/{id}", locationHandler.Delete)
					r.Post("/{id}/assignments", locationHandler.AssignEmployee)
					r.Delete("/{id}/assignments", locationHandler.UnassignEmployee)
				})
			})

			// Manager/admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/employees/{employeeID}/locations", locationHandler.ListEmployeeLocations)

				r.Route("/reconciliation", func(r chi.Router) {
					r.Get("/", reconciliationHandler.Reconcile)
					r.Post("/auto-resolve", reconciliationHandler.AutoResolve)
					r.Get("/export/csv", reconciliationHandler.ExportCSV)
					r.Get("/export/xlsx", reconciliationHandler.ExportXLSX)
				})
			})
		})
	})

	return r
}
