package service

import (
	"context"
	"errors"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/repository"

	"gorm.io/gorm"
)

// UserService resolves identities from the external auth provider and serves
// profile views.
type UserService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
}

// Profile is the authenticated user's own view: identity plus activity
// counts and authored projects.
type Profile struct {
	User         *models.User      `json:"user"`
	Projects     []*models.Project `json:"projects"`
	CommentCount int64             `json:"comment_count"`
	LikeCount    int64             `json:"like_count"`
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
	}
}

// ResolveLogin maps the provider's identity to a local user row, creating it
// on first login and refreshing the profile fields on every subsequent one.
func (s *UserService) ResolveLogin(ctx context.Context, info *auth.UserInfo) (*models.User, error) {
	user := &models.User{
		ExternalID:      info.Subject,
		FirstName:       info.FirstName,
		LastName:        info.LastName,
		ProfileImageURL: info.Picture,
	}
	if info.Email != "" {
		email := info.Email
		user.Email = &email
	}
	return s.userRepo.UpsertByExternalID(ctx, user)
}

// GetProfile assembles the user's own profile view.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, err
	}
	projects, err := s.projectRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	likes, err := s.userRepo.CountLikesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:         user,
		Projects:     projects,
		CommentCount: comments,
		LikeCount:    likes,
	}, nil
}

// GetUser loads one user by id.
func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, err
	}
	return user, nil
}
