package service

import (
	"context"
	"errors"
	"strings"

	"folio/internal/cache"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/storage"
	"folio/internal/validation"

	"gorm.io/gorm"
)

// ProjectService owns the administrative write path: creating, updating and
// deleting projects, including image uploads and tag reconciliation.
type ProjectService struct {
	db           *gorm.DB
	projectRepo  repository.ProjectRepository
	categoryRepo repository.CategoryRepository
	store        storage.BlobStore
}

// ImageUpload carries a submitted project image.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// SaveProjectInput is the full project form. Saves are whole-record
// overwrites: every field here replaces the stored value, and the Tags list
// replaces the stored tag set entirely. An empty Tags list clears all tags.
type SaveProjectInput struct {
	ID          uint // zero means create
	AuthorID    uint
	Title       string
	Description string
	Content     string
	GithubURL   string
	DemoURL     string
	Status      models.ProjectStatus
	IsFeatured  bool
	CategoryID  *uint
	Tags        []string
	Image       *ImageUpload
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	db *gorm.DB,
	projectRepo repository.ProjectRepository,
	categoryRepo repository.CategoryRepository,
	store storage.BlobStore,
) *ProjectService {
	return &ProjectService{
		db:           db,
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		store:        store,
	}
}

// SaveProject creates or fully overwrites a project, stores the uploaded
// image if any, and reconciles the tag set against the submitted names.
// Unknown tag names are created on the fly; names absent from the list are
// detached from the project.
func (s *ProjectService) SaveProject(ctx context.Context, in SaveProjectInput) (*models.Project, error) {
	in.Status = normalizeStatus(in.Status)
	if err := validation.ValidateProjectInput(in.Title, in.Status); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewValidationError("Category does not exist")
			}
			return nil, err
		}
	}

	// Store the image before touching the database: a failed save then
	// leaves at most an orphan blob, never a project pointing at a missing
	// image.
	var imageURL string
	if in.Image != nil {
		if err := validation.ValidateImageUpload(in.Image.Filename, int64(len(in.Image.Content))); err != nil {
			return nil, err
		}
		url, err := s.store.Save(ctx, in.Image.Filename, in.Image.Content)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	// The row overwrite, tag creation and association reconciliation commit
	// or roll back as one unit, so a failure partway through never leaves a
	// half-applied save behind.
	var project *models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := repository.NewProjectRepository(tx)
		tags := repository.NewTagRepository(tx)

		if in.ID == 0 {
			project = &models.Project{AuthorID: in.AuthorID}
		} else {
			existing, err := projects.GetByID(ctx, in.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("Project", in.ID)
				}
				return err
			}
			project = existing
		}

		project.Title = strings.TrimSpace(in.Title)
		project.Description = in.Description
		project.Content = in.Content
		project.GithubURL = in.GithubURL
		project.DemoURL = in.DemoURL
		project.Status = in.Status
		project.IsFeatured = in.IsFeatured
		project.CategoryID = in.CategoryID
		if imageURL != "" {
			project.ImageURL = imageURL
		}

		if in.ID == 0 {
			if err := projects.Create(ctx, project); err != nil {
				return err
			}
		} else {
			if err := projects.Update(ctx, project); err != nil {
				return err
			}
		}

		tagIDs, err := s.resolveTags(ctx, tags, in.Tags)
		if err != nil {
			return err
		}
		return tags.ReplaceProjectTags(ctx, project.ID, tagIDs)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateHomeFeed(ctx)

	return project, nil
}

// DeleteProject removes the project and all dependent rows. Idempotent in
// effect; deleting a missing project reports not found.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint) error {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Project", id)
		}
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	cache.InvalidateHomeFeed(ctx)
	middleware.Logger.InfoContext(ctx, "project deleted", "project_id", id)
	return nil
}

// resolveTags maps submitted names to tag ids, creating tags that do not
// exist yet. Blank and duplicate names are dropped. Runs against the save
// transaction so created tags roll back with the rest of the save.
func (s *ProjectService) resolveTags(ctx context.Context, tagRepo repository.TagRepository, names []string) ([]uint, error) {
	seen := make(map[string]struct{}, len(names))
	ids := make([]uint, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		tag, err := tagRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			tag = &models.Tag{Name: name}
			if err := tagRepo.Create(ctx, tag); err != nil {
				return nil, err
			}
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func normalizeStatus(status models.ProjectStatus) models.ProjectStatus {
	if status == "" {
		return models.ProjectStatusDraft
	}
	return status
}
