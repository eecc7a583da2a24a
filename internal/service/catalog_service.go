package service

import (
	"context"
	"errors"

	"folio/internal/cache"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"

	"gorm.io/gorm"
)

// Page sizes for the catalog views.
const (
	publicPageSize = 9
	adminPageSize  = 10

	featuredLimit = 3
	latestLimit   = 6
	popularLimit  = 3
	similarLimit  = 3
)

// CatalogService answers every read query over published projects.
type CatalogService struct {
	projectRepo  repository.ProjectRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
	commentRepo  repository.CommentRepository
}

// ListProjectsInput filters the public catalog. Page is 1-based.
type ListProjectsInput struct {
	CategoryID *uint
	TagName    string
	Search     string
	Page       int
}

// ProjectPage is one page of catalog results.
type ProjectPage struct {
	Projects   []*models.Project `json:"projects"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

// ProjectDetail is the full view model for a single published project.
type ProjectDetail struct {
	Project   *models.Project   `json:"project"`
	Comments  []*models.Comment `json:"comments"`
	Tags      []*models.Tag     `json:"tags"`
	UserLiked bool              `json:"user_liked"`
	Similar   []*models.Project `json:"similar_projects"`
}

// HomeFeed is the landing page view model.
type HomeFeed struct {
	Featured   []*models.Project  `json:"featured"`
	Latest     []*models.Project  `json:"latest"`
	Popular    []*models.Project  `json:"popular"`
	Categories []*models.Category `json:"categories"`
}

// AdminListInput filters the administrative project listing.
type AdminListInput struct {
	Status string // "draft", "published" or empty for all
	Page   int
}

// DashboardView aggregates the admin dashboard widgets.
type DashboardView struct {
	Stats          *repository.DashboardStats `json:"stats"`
	RecentProjects []*models.Project          `json:"recent_projects"`
	RecentComments []*models.Comment          `json:"recent_comments"`
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	projectRepo repository.ProjectRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
	commentRepo repository.CommentRepository,
) *CatalogService {
	return &CatalogService{
		projectRepo:  projectRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		commentRepo:  commentRepo,
	}
}

// ListProjects returns one page of published projects. Category, tag and
// search clauses compose with AND. A tag name that matches no Tag row drops
// the tag clause entirely instead of returning an empty page; the behavior is
// intentional and relied on by old bookmarked URLs.
func (s *CatalogService) ListProjects(ctx context.Context, in ListProjectsInput) (*ProjectPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}

	filter := repository.CatalogFilter{
		CategoryID: in.CategoryID,
		Search:     in.Search,
		Limit:      publicPageSize,
		Offset:     (page - 1) * publicPageSize,
	}

	if in.TagName != "" {
		tag, err := s.tagRepo.GetByName(ctx, in.TagName)
		if err != nil {
			return nil, err
		}
		if tag != nil {
			filter.TagID = &tag.ID
		}
	}

	projects, total, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return newProjectPage(projects, total, page, publicPageSize), nil
}

// ProjectDetail loads a published project and its derived view data, bumping
// the view counter on every fetch. The counter is a raw fetch count with no
// per-viewer dedup; treating it as unique visitors would mislead.
func (s *CatalogService) ProjectDetail(ctx context.Context, projectID, actorID uint) (*ProjectDetail, error) {
	project, err := s.projectRepo.GetPublishedByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", projectID)
		}
		return nil, err
	}

	if err := s.projectRepo.IncrementViews(ctx, projectID); err != nil {
		return nil, err
	}
	project.Views++
	middleware.ProjectViews.Inc()

	comments, err := s.commentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	userLiked := false
	if actorID != 0 {
		userLiked, err = s.projectRepo.IsLiked(ctx, actorID, projectID)
		if err != nil {
			return nil, err
		}
	}

	similar, err := s.projectRepo.Similar(ctx, project, similarLimit)
	if err != nil {
		return nil, err
	}

	return &ProjectDetail{
		Project:   project,
		Comments:  comments,
		Tags:      tags,
		UserLiked: userLiked,
		Similar:   similar,
	}, nil
}

// HomeFeed assembles the landing page sections, cached briefly in Redis.
// Popular ties break on id ascending so the ordering is deterministic.
func (s *CatalogService) HomeFeed(ctx context.Context) (*HomeFeed, error) {
	var feed HomeFeed
	err := cache.Aside(ctx, cache.HomeFeedKey, &feed, cache.HomeFeedTTL, func() error {
		featured, err := s.projectRepo.Featured(ctx, featuredLimit)
		if err != nil {
			return err
		}
		latest, err := s.projectRepo.Latest(ctx, latestLimit)
		if err != nil {
			return err
		}
		popular, err := s.projectRepo.Popular(ctx, popularLimit)
		if err != nil {
			return err
		}
		categories, err := s.categoryRepo.List(ctx)
		if err != nil {
			return err
		}
		feed = HomeFeed{
			Featured:   featured,
			Latest:     latest,
			Popular:    popular,
			Categories: categories,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

// AdminListProjects lists projects of every status for the dashboard,
// optionally narrowed to one status.
func (s *CatalogService) AdminListProjects(ctx context.Context, in AdminListInput) (*ProjectPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}

	filter := repository.AdminFilter{
		Limit:  adminPageSize,
		Offset: (page - 1) * adminPageSize,
	}
	switch in.Status {
	case "":
		// all statuses
	case string(models.ProjectStatusDraft):
		filter.Status = models.ProjectStatusDraft
	case string(models.ProjectStatusPublished):
		filter.Status = models.ProjectStatusPublished
	default:
		return nil, models.NewValidationError("Invalid status filter")
	}

	projects, total, err := s.projectRepo.ListAdmin(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newProjectPage(projects, total, page, adminPageSize), nil
}

// Dashboard returns the admin dashboard counts and recent activity.
func (s *CatalogService) Dashboard(ctx context.Context) (*DashboardView, error) {
	stats, err := s.projectRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	recentProjects, _, err := s.projectRepo.ListAdmin(ctx, repository.AdminFilter{Limit: 5})
	if err != nil {
		return nil, err
	}
	recentComments, err := s.commentRepo.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &DashboardView{
		Stats:          stats,
		RecentProjects: recentProjects,
		RecentComments: recentComments,
	}, nil
}

// Categories lists every category for filter pickers.
func (s *CatalogService) Categories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Tags lists every tag for filter pickers.
func (s *CatalogService) Tags(ctx context.Context) ([]*models.Tag, error) {
	return s.tagRepo.List(ctx)
}

// ProjectComments lists a project's comments, requiring the project to be
// published.
func (s *CatalogService) ProjectComments(ctx context.Context, projectID uint) ([]*models.Comment, error) {
	if _, err := s.projectRepo.GetPublishedByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", projectID)
		}
		return nil, err
	}
	return s.commentRepo.ListByProject(ctx, projectID)
}

func newProjectPage(projects []*models.Project, total int64, page, perPage int) *ProjectPage {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &ProjectPage{
		Projects:   projects,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
