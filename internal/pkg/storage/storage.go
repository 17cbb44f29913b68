package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// GetURL generates a presigned/public URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

// AllowedPhotoTypes maps the file extensions accepted for check-in proof
// photos to their content types. It is the single allowlist; request
// validation checks extensions against it.
var AllowedPhotoTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ProofPhotoPath builds the storage key for an attendance proof photo.
func ProofPhotoPath(employeeID string, attendanceID string, ext string) string {
	return fmt.Sprintf("attendance/%s/%s%s", employeeID, attendanceID, ext)
}
