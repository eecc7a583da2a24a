package validation

import (
	"strings"
	"testing"

	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProjectInput(t *testing.T) {
	assert.NoError(t, ValidateProjectInput("My Project", models.ProjectStatusDraft))
	assert.NoError(t, ValidateProjectInput("My Project", models.ProjectStatusPublished))

	assert.Error(t, ValidateProjectInput("", models.ProjectStatusDraft))
	assert.Error(t, ValidateProjectInput("   ", models.ProjectStatusDraft))
	assert.Error(t, ValidateProjectInput(strings.Repeat("a", 201), models.ProjectStatusDraft))
	assert.Error(t, ValidateProjectInput("My Project", "archived"))
}

func TestAllowedImageFilename(t *testing.T) {
	allowed := []string{"a.png", "b.jpg", "c.jpeg", "d.gif", "e.PNG", "f.JpEg"}
	for _, name := range allowed {
		assert.True(t, AllowedImageFilename(name), name)
	}

	rejected := []string{"a.svg", "b.webp", "script.js", "noext", "g.png.exe"}
	for _, name := range rejected {
		assert.False(t, AllowedImageFilename(name), name)
	}
}

func TestValidateImageUpload(t *testing.T) {
	require.NoError(t, ValidateImageUpload("shot.png", 1024))

	err := ValidateImageUpload("shot.png", MaxUploadBytes+1)
	require.Error(t, err)

	err = ValidateImageUpload("shot.bmp", 1024)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}
