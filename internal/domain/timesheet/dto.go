package timesheet

import (
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/validator"
)

type CreateEntryRequest struct {
	Date         string `json:"date"`       // YYYY-MM-DD
	StartTime    string `json:"start_time"` // HH:MM or HH:MM:SS
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	start, startOK := validator.IsValidTimeOfDay(r.StartTime)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM or HH:MM:SS format",
		})
	}

	end, endOK := validator.IsValidTimeOfDay(r.EndTime)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM or HH:MM:SS format",
		})
	}

	if startOK && endOK && !end.After(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
	}

	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must not be negative",
		})
	}

	if startOK && endOK && r.BreakMinutes >= int(end.Sub(start).Minutes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must be shorter than the working period",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEntryRequest struct {
	ID           string  `json:"-"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartTime != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.StartTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_time",
				Message: "start_time must be in HH:MM or HH:MM:SS format",
			})
		}
	}

	if r.EndTime != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.EndTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "end_time must be in HH:MM or HH:MM:SS format",
			})
		}
	}

	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EntryResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	BreakMinutes int     `json:"break_minutes"`
	TotalHours   float64 `json:"total_hours"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ListEntryResponse struct {
	TotalCount int             `json:"total_count"`
	Entries    []EntryResponse `json:"entries"`
}

type EntryRangeFilter struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (f *EntryRangeFilter) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
