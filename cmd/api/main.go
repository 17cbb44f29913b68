package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/fieldhr/geoattend-backend-go/internal/config"
	appHTTP "github.com/fieldhr/geoattend-backend-go/internal/handler/http"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/cron"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/database"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/jwt"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/oauth"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/sse"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/storage"
	"github.com/fieldhr/geoattend-backend-go/internal/repository/postgresql"
	attendanceService "github.com/fieldhr/geoattend-backend-go/internal/service/attendance"
	authService "github.com/fieldhr/geoattend-backend-go/internal/service/auth"
	geofenceService "github.com/fieldhr/geoattend-backend-go/internal/service/geofence"
	locationService "github.com/fieldhr/geoattend-backend-go/internal/service/location"
	reconciliationService "github.com/fieldhr/geoattend-backend-go/internal/service/reconciliation"
	timesheetService "github.com/fieldhr/geoattend-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var googleService oauth.GoogleService
	if cfg.GoogleOAuthEnabled() {
		googleService = oauth.NewGoogleService(
			cfg.OAuth2Google.ClientID,
			cfg.OAuth2Google.ClientSecret,
			cfg.OAuth2Google.RedirectURL,
			cfg.OAuth2Google.Scopes,
		)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	hub := sse.NewHub()

	geofenceSvc := geofenceService.NewGeofenceService()
	authSvc := authService.NewAuthService(userRepo, refreshTokenRepo, jwtService, googleService)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, locationRepo, userRepo, geofenceSvc, fileStorage, hub)
	timesheetSvc := timesheetService.NewEntryService(timesheetRepo)
	locationSvc := locationService.NewLocationService(locationRepo, userRepo)
	reconciliationSvc := reconciliationService.NewReconciliationService(attendanceRepo, timesheetRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	locationHandler := appHTTP.NewLocationHandler(locationSvc)
	reconciliationHandler := appHTTP.NewReconciliationHandler(reconciliationSvc)
	eventsHandler := appHTTP.NewEventsHandler(jwtService, hub)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, userRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:      cfg.App.Env,
			LogLevel: parseLogLevel(cfg.App.LogLevel),
		},
		jwtService,
		authHandler,
		attendanceHandler,
		timesheetHandler,
		locationHandler,
		reconciliationHandler,
		eventsHandler,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server starting", "addr", addr, "env", cfg.App.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error:", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
