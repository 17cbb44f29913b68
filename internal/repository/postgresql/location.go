package postgresql

import (
	"context"
	"errors"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

type locationRepositoryImpl struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepositoryImpl{db: db}
}

const locationColumns = `id, name, latitude, longitude, radius_meters,
		is_office_location, created_at, updated_at`

func scanLocation(row interface{ Scan(dest ...any) error }) (location.Location, error) {
	var l location.Location
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Latitude,
		&l.Longitude,
		&l.RadiusMeters,
		&l.IsOfficeLocation,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

// Create implements location.LocationRepository.
func (r *locationRepositoryImpl) Create(ctx context.Context, loc location.Location) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO locations (id, name, latitude, longitude, radius_meters, is_office_location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + locationColumns

	created, err := scanLocation(q.QueryRow(ctx, insertQuery,
		loc.ID, loc.Name, loc.Latitude, loc.Longitude, loc.RadiusMeters, loc.IsOfficeLocation,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return location.Location{}, location.ErrLocationNameExists
		}
		return location.Location{}, err
	}
	return created, nil
}

// GetByID implements location.LocationRepository.
func (r *locationRepositoryImpl) GetByID(ctx context.Context, id string) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	return scanLocation(q.QueryRow(ctx, query, id))
}

// List implements location.LocationRepository.
func (r *locationRepositoryImpl) List(ctx context.Context) ([]location.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY name`
	return r.queryLocations(ctx, query)
}

// Update implements location.LocationRepository.
func (r *locationRepositoryImpl) Update(ctx context.Context, loc location.Location) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE locations
		SET name = $1, latitude = $2, longitude = $3, radius_meters = $4,
			is_office_location = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := q.Exec(ctx, updateQuery,
		loc.Name, loc.Latitude, loc.Longitude, loc.RadiusMeters,
		loc.IsOfficeLocation, loc.ID,
	)
	if err != nil && isUniqueViolation(err) {
		return location.ErrLocationNameExists
	}
	return err
}

// Delete implements location.LocationRepository. Assignments are removed by
// the ON DELETE CASCADE on employee_locations.
func (r *locationRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	return err
}

// AssignToEmployee implements location.LocationRepository.
func (r *locationRepositoryImpl) AssignToEmployee(ctx context.Context, locationID, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO employee_locations (location_id, employee_id)
		VALUES ($1, $2)
	`
	_, err := q.Exec(ctx, insertQuery, locationID, employeeID)
	if err != nil && isUniqueViolation(err) {
		return location.ErrAlreadyAssigned
	}
	return err
}

// UnassignFromEmployee implements location.LocationRepository.
func (r *locationRepositoryImpl) UnassignFromEmployee(ctx context.Context, locationID, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	deleteQuery := `
		DELETE FROM employee_locations
		WHERE location_id = $1 AND employee_id = $2
	`
	tag, err := q.Exec(ctx, deleteQuery, locationID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return location.ErrAssignmentNotFound
	}
	return nil
}

// ListByEmployee implements location.LocationRepository.
func (r *locationRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]location.Location, error) {
	query := `
		SELECT l.id, l.name, l.latitude, l.longitude, l.radius_meters,
			l.is_office_location, l.created_at, l.updated_at
		FROM locations l
		JOIN employee_locations el ON el.location_id = l.id
		WHERE el.employee_id = $1
		ORDER BY el.assigned_at
	`
	return r.queryLocations(ctx, query, employeeID)
}

func (r *locationRepositoryImpl) queryLocations(ctx context.Context, query string, args ...interface{}) ([]location.Location, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []location.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
