// Package validation holds input validation rules shared by handlers and
// services.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"folio/internal/models"
)

// MaxTitleLength bounds project titles to the column size.
const MaxTitleLength = 200

// MaxUploadBytes caps a single image upload at 16 MiB.
const MaxUploadBytes = 16 << 20

// allowedImageExtensions are the only file types accepted for project images.
var allowedImageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// ValidateProjectInput checks the fields an admin submits when saving a
// project. Title is required and bounded; status must be a known lifecycle
// state.
func ValidateProjectInput(title string, status models.ProjectStatus) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > MaxTitleLength {
		return models.NewValidationError(fmt.Sprintf("Title must be at most %d characters", MaxTitleLength))
	}
	switch status {
	case models.ProjectStatusDraft, models.ProjectStatusPublished:
		return nil
	default:
		return models.NewValidationError("Status must be draft or published")
	}
}

// AllowedImageFilename reports whether the filename carries an accepted image
// extension. The check is case-insensitive.
func AllowedImageFilename(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := allowedImageExtensions[ext]
	return ok
}

// ValidateImageUpload checks an image upload's name and size before it is
// written anywhere.
func ValidateImageUpload(filename string, size int64) error {
	if !AllowedImageFilename(filename) {
		return models.NewValidationError("Image must be a png, jpg, jpeg or gif file")
	}
	if size > MaxUploadBytes {
		return models.NewValidationError("Image exceeds the 16MB upload limit")
	}
	return nil
}
