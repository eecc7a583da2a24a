// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"folio/internal/models"

	"gorm.io/gorm"
)

// CatalogFilter narrows the public project listing. All clauses compose with
// logical AND. TagID is resolved from a tag name by the caller; a nil TagID
// means no tag clause.
type CatalogFilter struct {
	CategoryID *uint
	TagID      *uint
	Search     string
	Limit      int
	Offset     int
}

// AdminFilter narrows the administrative listing, which sees every status.
type AdminFilter struct {
	Status models.ProjectStatus // empty means all
	Limit  int
	Offset int
}

// DashboardStats aggregates the counts shown on the admin dashboard.
type DashboardStats struct {
	TotalProjects     int64 `json:"total_projects"`
	PublishedProjects int64 `json:"published_projects"`
	DraftProjects     int64 `json:"draft_projects"`
	TotalUsers        int64 `json:"total_users"`
	TotalComments     int64 `json:"total_comments"`
	TotalLikes        int64 `json:"total_likes"`
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	GetPublishedByID(ctx context.Context, id uint) (*models.Project, error)
	List(ctx context.Context, filter CatalogFilter) ([]*models.Project, int64, error)
	ListAdmin(ctx context.Context, filter AdminFilter) ([]*models.Project, int64, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Project, error)
	Featured(ctx context.Context, limit int) ([]*models.Project, error)
	Latest(ctx context.Context, limit int) ([]*models.Project, error)
	Popular(ctx context.Context, limit int) ([]*models.Project, error)
	Similar(ctx context.Context, project *models.Project, limit int) ([]*models.Project, error)
	IncrementViews(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, projectID uint) (bool, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*DashboardStats, error)
}

// projectRepository implements ProjectRepository
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetPublishedByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("status = ?", models.ProjectStatusPublished).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// published scopes a query to publicly visible projects.
func (r *projectRepository) published(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("projects.status = ?", models.ProjectStatusPublished)
}

func (r *projectRepository) List(ctx context.Context, filter CatalogFilter) ([]*models.Project, int64, error) {
	q := r.published(ctx)

	if filter.CategoryID != nil {
		q = q.Where("projects.category_id = ?", *filter.CategoryID)
	}
	if filter.TagID != nil {
		q = q.Joins("JOIN project_tags ON project_tags.project_id = projects.id").
			Where("project_tags.tag_id = ?", *filter.TagID)
	}
	if filter.Search != "" {
		// LOWER + LIKE is portable across PostgreSQL and sqlite; matches
		// title or description as a case-insensitive substring.
		like := "%" + filter.Search + "%"
		q = q.Where("LOWER(projects.title) LIKE LOWER(?) OR LOWER(projects.description) LIKE LOWER(?)", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*models.Project
	err := q.
		Preload("Author").
		Preload("Category").
		Order("projects.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepository) ListAdmin(ctx context.Context, filter AdminFilter) ([]*models.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*models.Project
	err := q.
		Preload("Author").
		Preload("Category").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Featured(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.published(ctx).
		Where("is_featured = ?", true).
		Preload("Author").
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Latest(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.published(ctx).
		Preload("Author").
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// Popular orders by the denormalized like counter. The id ascending tie-break
// keeps the ordering deterministic when counts are equal.
func (r *projectRepository) Popular(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.published(ctx).
		Preload("Author").
		Preload("Category").
		Order("likes_count DESC, id ASC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Similar(ctx context.Context, project *models.Project, limit int) ([]*models.Project, error) {
	if project.CategoryID == nil {
		return nil, nil
	}
	var projects []*models.Project
	err := r.published(ctx).
		Where("category_id = ? AND id <> ?", *project.CategoryID, project.ID).
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// IncrementViews bumps the view counter unconditionally. There is no
// per-viewer dedup; the counter measures fetches, not unique visitors.
func (r *projectRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *projectRepository) IsLiked(ctx context.Context, userID, projectID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes the project and everything it owns in one transaction:
// comments, likes and tag associations never outlive their parent.
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

func (r *projectRepository) Stats(ctx context.Context) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	var stats DashboardStats

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalProjects, db.Model(&models.Project{})},
		{&stats.PublishedProjects, db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusPublished)},
		{&stats.DraftProjects, db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusDraft)},
		{&stats.TotalUsers, db.Model(&models.User{})},
		{&stats.TotalComments, db.Model(&models.Comment{})},
		{&stats.TotalLikes, db.Model(&models.Like{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}
