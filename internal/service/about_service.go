package service

import (
	"context"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
)

// AboutService serves the public about page and the owner's edits to it.
type AboutService struct {
	repo repository.AboutRepository
}

// NewAboutService creates a new AboutService.
func NewAboutService(repo repository.AboutRepository) *AboutService {
	return &AboutService{repo: repo}
}

// Get returns the profile, cached in Redis. A site that has never saved one
// gets an empty profile rather than an error.
func (s *AboutService) Get(ctx context.Context) (*models.About, error) {
	var about models.About
	err := cache.Aside(ctx, cache.AboutKey, &about, cache.AboutTTL, func() error {
		stored, err := s.repo.Get(ctx)
		if err != nil {
			return err
		}
		if stored != nil {
			about = *stored
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &about, nil
}

// Update overwrites the profile and drops the cached copy.
func (s *AboutService) Update(ctx context.Context, about *models.About) (*models.About, error) {
	if err := s.repo.Upsert(ctx, about); err != nil {
		return nil, err
	}
	cache.InvalidateAbout(ctx)
	return about, nil
}
