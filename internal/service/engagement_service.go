// Package service contains the business rules of the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"folio/internal/cache"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/notifications"

	"gorm.io/gorm"
)

// EngagementService owns likes, comments and their side effects: the
// denormalized counters on projects and the notifications emitted to authors.
// Every mutation path runs inside a single database transaction so the
// counters can never drift from the association tables.
type EngagementService struct {
	db       *gorm.DB
	notifier *notifications.Notifier
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// AddCommentInput carries a new comment request.
type AddCommentInput struct {
	ActorID   uint
	ProjectID uint
	Content   string
}

// NewEngagementService creates a new EngagementService. The notifier may be
// nil; real-time fan-out is optional.
func NewEngagementService(db *gorm.DB, notifier *notifications.Notifier) *EngagementService {
	return &EngagementService{db: db, notifier: notifier}
}

// ToggleLike flips the actor's like on a project.
//
// An existing Like row is deleted and the counter decremented (floored at
// zero); otherwise a Like row is inserted, the counter incremented, and a
// notification emitted to the author when the actor is not the author.
// Association row, counter and notification commit or roll back as one unit,
// so two consecutive calls by the same actor restore the original state
// exactly. The unique (user_id, project_id) index serializes concurrent
// toggles on the same pair.
func (s *EngagementService) ToggleLike(ctx context.Context, actorID, projectID uint) (*LikeResult, error) {
	var result LikeResult
	var authorID uint
	var message string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Project", projectID)
			}
			return err
		}
		authorID = project.AuthorID

		var like models.Like
		err := tx.Where("user_id = ? AND project_id = ?", actorID, projectID).First(&like).Error
		switch {
		case err == nil:
			// Unlike
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Project{}).
				Where("id = ?", projectID).
				UpdateColumn("likes_count", gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error; err != nil {
				return err
			}
			result.Liked = false

		case errors.Is(err, gorm.ErrRecordNotFound):
			// Like. A concurrent duplicate insert fails on the unique
			// pair index and rolls the whole toggle back.
			if err := tx.Create(&models.Like{UserID: actorID, ProjectID: projectID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Project{}).
				Where("id = ?", projectID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
				return err
			}
			result.Liked = true

			if project.AuthorID != actorID {
				msg, err := s.notifyAuthor(tx, actorID, &project, "New Like",
					"%s liked your project '%s'", models.NotificationTypeSuccess)
				if err != nil {
					return err
				}
				message = msg
			}

		default:
			return err
		}

		return tx.Model(&models.Project{}).
			Select("likes_count").
			Where("id = ?", projectID).
			Scan(&result.LikesCount).Error
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateHomeFeed(ctx)

	if result.Liked {
		middleware.LikeToggles.WithLabelValues("liked").Inc()
		s.publish(ctx, actorID, authorID, "like", projectID, message)
	} else {
		middleware.LikeToggles.WithLabelValues("unliked").Inc()
	}

	return &result, nil
}

// AddComment appends a comment to a project, bumps the comment counter and
// notifies the author when someone else wrote it. Empty content (after
// trimming) is rejected before any state changes.
func (s *EngagementService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment cannot be empty")
	}

	var comment models.Comment
	var authorID uint
	var message string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, in.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Project", in.ProjectID)
			}
			return err
		}
		authorID = project.AuthorID

		comment = models.Comment{
			Content:   content,
			UserID:    in.ActorID,
			ProjectID: in.ProjectID,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).
			Where("id = ?", in.ProjectID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error; err != nil {
			return err
		}

		if project.AuthorID != in.ActorID {
			msg, err := s.notifyAuthor(tx, in.ActorID, &project, "New Comment",
				"%s commented on your project '%s'", models.NotificationTypeInfo)
			if err != nil {
				return err
			}
			message = msg
		}

		return tx.Preload("User").First(&comment, comment.ID).Error
	})
	if err != nil {
		return nil, err
	}

	middleware.CommentsCreated.Inc()
	s.publish(ctx, in.ActorID, authorID, "comment", in.ProjectID, message)

	return &comment, nil
}

// notifyAuthor inserts the author's notification row inside the engagement
// transaction, so a failed commit takes the notification down with it.
// Returns the rendered message so the real-time event can carry the same text.
func (s *EngagementService) notifyAuthor(tx *gorm.DB, actorID uint, project *models.Project, title, format, kind string) (string, error) {
	var actor models.User
	if err := tx.First(&actor, actorID).Error; err != nil {
		return "", err
	}
	message := fmt.Sprintf(format, actor.DisplayName(), project.Title)
	return message, tx.Create(&models.Notification{
		Title:   title,
		Message: message,
		Type:    kind,
		UserID:  project.AuthorID,
	}).Error
}

// publish pushes the committed event to the author's real-time channel.
// Best-effort: failures are logged and dropped.
func (s *EngagementService) publish(ctx context.Context, actorID, authorID uint, kind string, projectID uint, message string) {
	if s.notifier == nil || actorID == authorID {
		return
	}
	ev := notifications.Event{
		Kind:      kind,
		ProjectID: projectID,
		ActorID:   actorID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifier.PublishUser(ctx, authorID, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish engagement event",
			"kind", kind, "project_id", projectID, "error", err.Error())
	}
}
