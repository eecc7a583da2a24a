package repository

import (
	"context"
	"errors"

	"folio/internal/models"

	"gorm.io/gorm"
)

// AboutRepository manages the single owner-profile row.
type AboutRepository interface {
	Get(ctx context.Context) (*models.About, error)
	Upsert(ctx context.Context, about *models.About) error
}

type aboutRepository struct {
	db *gorm.DB
}

// NewAboutRepository creates a new AboutRepository
func NewAboutRepository(db *gorm.DB) AboutRepository {
	return &aboutRepository{db: db}
}

// Get returns the profile row, or (nil, nil) when none has been created yet.
func (r *aboutRepository) Get(ctx context.Context) (*models.About, error) {
	var about models.About
	err := r.db.WithContext(ctx).First(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &about, nil
}

func (r *aboutRepository) Upsert(ctx context.Context, about *models.About) error {
	existing, err := r.Get(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		about.ID = existing.ID
		about.CreatedAt = existing.CreatedAt
	}
	return r.db.WithContext(ctx).Save(about).Error
}
