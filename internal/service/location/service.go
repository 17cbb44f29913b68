package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LocationServiceImpl struct {
	locationRepo location.LocationRepository
	userRepo     user.UserRepository
}

func NewLocationService(
	locationRepo location.LocationRepository,
	userRepo user.UserRepository,
) location.LocationService {
	return &LocationServiceImpl{
		locationRepo: locationRepo,
		userRepo:     userRepo,
	}
}

// CreateLocation implements location.LocationService.
func (s *LocationServiceImpl) CreateLocation(ctx context.Context, req location.CreateLocationRequest) (location.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	created, err := s.locationRepo.Create(ctx, location.Location{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		RadiusMeters:     req.RadiusMeters,
		IsOfficeLocation: req.IsOfficeLocation,
	})
	if err != nil {
		return location.LocationResponse{}, fmt.Errorf("failed to create location: %w", err)
	}

	return mapToResponse(created), nil
}

// GetLocation implements location.LocationService.
func (s *LocationServiceImpl) GetLocation(ctx context.Context, id string) (location.LocationResponse, error) {
	loc, err := s.getLocation(ctx, id)
	if err != nil {
		return location.LocationResponse{}, err
	}
	return mapToResponse(loc), nil
}

// ListLocations implements location.LocationService.
func (s *LocationServiceImpl) ListLocations(ctx context.Context) (location.ListLocationResponse, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return location.ListLocationResponse{}, fmt.Errorf("failed to list locations: %w", err)
	}
	return mapToListResponse(locations), nil
}

// UpdateLocation implements location.LocationService.
func (s *LocationServiceImpl) UpdateLocation(ctx context.Context, req location.UpdateLocationRequest) (location.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	loc, err := s.getLocation(ctx, req.ID)
	if err != nil {
		return location.LocationResponse{}, err
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Latitude != nil {
		loc.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		loc.Longitude = *req.Longitude
	}
	if req.RadiusMeters != nil {
		loc.RadiusMeters = *req.RadiusMeters
	}
	if req.IsOfficeLocation != nil {
		loc.IsOfficeLocation = *req.IsOfficeLocation
	}

	if err := s.locationRepo.Update(ctx, loc); err != nil {
		return location.LocationResponse{}, fmt.Errorf("failed to update location: %w", err)
	}

	return mapToResponse(loc), nil
}

// DeleteLocation implements location.LocationService.
func (s *LocationServiceImpl) DeleteLocation(ctx context.Context, id string) error {
	if _, err := s.getLocation(ctx, id); err != nil {
		return err
	}
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

// AssignEmployee implements location.LocationService.
func (s *LocationServiceImpl) AssignEmployee(ctx context.Context, locationID string, req location.AssignLocationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.getLocation(ctx, locationID); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	if err := s.locationRepo.AssignToEmployee(ctx, locationID, req.EmployeeID); err != nil {
		return fmt.Errorf("failed to assign employee to location: %w", err)
	}
	return nil
}

// UnassignEmployee implements location.LocationService.
func (s *LocationServiceImpl) UnassignEmployee(ctx context.Context, locationID string, req location.AssignLocationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.getLocation(ctx, locationID); err != nil {
		return err
	}

	if err := s.locationRepo.UnassignFromEmployee(ctx, locationID, req.EmployeeID); err != nil {
		return fmt.Errorf("failed to unassign employee from location: %w", err)
	}
	return nil
}

// ListEmployeeLocations implements location.LocationService.
func (s *LocationServiceImpl) ListEmployeeLocations(ctx context.Context, employeeID string) (location.ListLocationResponse, error) {
	locations, err := s.locationRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return location.ListLocationResponse{}, fmt.Errorf("failed to list employee locations: %w", err)
	}
	return mapToListResponse(locations), nil
}

func (s *LocationServiceImpl) getLocation(ctx context.Context, id string) (location.Location, error) {
	loc, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, fmt.Errorf("failed to get location: %w", err)
	}
	return loc, nil
}

func mapToResponse(loc location.Location) location.LocationResponse {
	resp := location.LocationResponse{
		ID:               loc.ID,
		Name:             loc.Name,
		Latitude:         loc.Latitude,
		Longitude:        loc.Longitude,
		RadiusMeters:     loc.RadiusMeters,
		IsOfficeLocation: loc.IsOfficeLocation,
	}
	if !loc.CreatedAt.IsZero() {
		resp.CreatedAt = loc.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !loc.UpdatedAt.IsZero() {
		resp.UpdatedAt = loc.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(locations []location.Location) location.ListLocationResponse {
	responses := make([]location.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		responses = append(responses, mapToResponse(loc))
	}
	return location.ListLocationResponse{
		TotalCount: len(responses),
		Locations:  responses,
	}
}
