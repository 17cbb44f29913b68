package location

import (
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/geo"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/validator"
)

type CreateLocationRequest struct {
	Name             string  `json:"name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	RadiusMeters     float64 `json:"radius_meters"`
	IsOfficeLocation bool    `json:"is_office_location"`
}

func (r *CreateLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !geo.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !geo.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLocationRequest struct {
	ID               string   `json:"-"`
	Name             *string  `json:"name,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	RadiusMeters     *float64 `json:"radius_meters,omitempty"`
	IsOfficeLocation *bool    `json:"is_office_location,omitempty"`
}

func (r *UpdateLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Latitude != nil && !geo.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !geo.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssignLocationRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *AssignLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LocationResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	RadiusMeters     float64 `json:"radius_meters"`
	IsOfficeLocation bool    `json:"is_office_location"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type ListLocationResponse struct {
	TotalCount int                `json:"total_count"`
	Locations  []LocationResponse `json:"locations"`
}
