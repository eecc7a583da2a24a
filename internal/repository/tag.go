package repository

import (
	"context"
	"errors"

	"folio/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations, including the
// project/tag association bookkeeping.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context) ([]*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	ListByProject(ctx context.Context, projectID uint) ([]*models.Tag, error)
	IDsByProject(ctx context.Context, projectID uint) ([]uint, error)
	ReplaceProjectTags(ctx context.Context, projectID uint, tagIDs []uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// GetByName returns (nil, nil) when no tag has that name. Callers treat an
// unknown tag name as "no tag filter", not as an error.
func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) ListByProject(ctx context.Context, projectID uint) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN project_tags ON project_tags.tag_id = tags.id").
		Where("project_tags.project_id = ?", projectID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) IDsByProject(ctx context.Context, projectID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ProjectTag{}).
		Where("project_id = ?", projectID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

// ReplaceProjectTags swaps a project's entire tag set in one transaction:
// delete every association row, then insert one per deduplicated id. A reader
// never observes a partially replaced set. An empty list leaves the project
// with zero tags.
func (r *tagRepository) ReplaceProjectTags(ctx context.Context, projectID uint, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}

		seen := make(map[uint]struct{}, len(tagIDs))
		rows := make([]models.ProjectTag, 0, len(tagIDs))
		for _, id := range tagIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			rows = append(rows, models.ProjectTag{ProjectID: projectID, TagID: id})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
