package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"folio/internal/models"
	"folio/internal/notifications"
	"folio/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, db *gorm.DB, firstName string) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID: "ext-" + t.Name() + "-" + firstName,
		FirstName:  firstName,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, authorID uint, title string, status models.ProjectStatus) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:    title,
		Status:   status,
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func TestToggleLike_LikeThenUnlike(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	visitor := createTestUser(t, db, "Bob")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	svc := NewEngagementService(db, nil)
	ctx := context.Background()

	result, err := svc.ToggleLike(ctx, visitor.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikesCount)

	var likeRows int64
	require.NoError(t, db.Model(&models.Like{}).
		Where("user_id = ? AND project_id = ?", visitor.ID, project.ID).
		Count(&likeRows).Error)
	assert.Equal(t, int64(1), likeRows)

	// Second toggle restores the original state exactly.
	result, err = svc.ToggleLike(ctx, visitor.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikesCount)

	require.NoError(t, db.Model(&models.Like{}).
		Where("user_id = ? AND project_id = ?", visitor.ID, project.ID).
		Count(&likeRows).Error)
	assert.Equal(t, int64(0), likeRows)
}

func TestToggleLike_NotifiesAuthor(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	visitor := createTestUser(t, db, "Bob")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	svc := NewEngagementService(db, nil)

	_, err := svc.ToggleLike(context.Background(), visitor.ID, project.ID)
	require.NoError(t, err)

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", author.ID).First(&notification).Error)
	assert.Equal(t, "New Like", notification.Title)
	assert.Equal(t, models.NotificationTypeSuccess, notification.Type)
	assert.Equal(t, "Bob liked your project 'CLI Toolkit'", notification.Message)
	assert.False(t, notification.IsRead)
}

func TestToggleLike_SelfLikeSkipsNotification(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	svc := NewEngagementService(db, nil)

	result, err := svc.ToggleLike(context.Background(), author.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestToggleLike_AnonymousActorFallback(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	visitor := createTestUser(t, db, "")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	svc := NewEngagementService(db, nil)

	_, err := svc.ToggleLike(context.Background(), visitor.ID, project.ID)
	require.NoError(t, err)

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", author.ID).First(&notification).Error)
	assert.Equal(t, "Someone liked your project 'CLI Toolkit'", notification.Message)
}

func TestToggleLike_PublishesEventWithMessage(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	visitor := createTestUser(t, db, "Bob")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	notifier := notifications.NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	events := make(chan notifications.Event, 8)
	require.NoError(t, notifier.StartPatternSubscriber(ctx, func(_, payload string) {
		var ev notifications.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			t.Errorf("bad payload: %v", err)
			return
		}
		events <- ev
	}))

	// Subscription setup races the first publish; ping until a message comes
	// back before exercising the real flow.
	deadline := time.After(2 * time.Second)
ping:
	for {
		require.NoError(t, notifier.PublishUser(ctx, author.ID, notifications.Event{Kind: "ping"}))
		select {
		case ev := <-events:
			if ev.Kind == "ping" {
				break ping
			}
		case <-deadline:
			t.Fatal("subscription never became active")
		case <-time.After(20 * time.Millisecond):
		}
	}

	svc := NewEngagementService(db, notifier)
	_, err := svc.ToggleLike(ctx, visitor.ID, project.ID)
	require.NoError(t, err)

	for {
		select {
		case ev := <-events:
			if ev.Kind == "ping" {
				continue
			}
			assert.Equal(t, "like", ev.Kind)
			assert.Equal(t, project.ID, ev.ProjectID)
			assert.Equal(t, visitor.ID, ev.ActorID)
			assert.Equal(t, "Bob liked your project 'CLI Toolkit'", ev.Message)
			return
		case <-time.After(2 * time.Second):
			t.Fatal("like event was never delivered")
		}
	}
}

func TestToggleLike_CounterNeverNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	visitor := createTestUser(t, db, "Bob")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	// Simulate counter drift: a like row exists but the counter reads zero.
	require.NoError(t, db.Create(&models.Like{UserID: visitor.ID, ProjectID: project.ID}).Error)

	svc := NewEngagementService(db, nil)

	result, err := svc.ToggleLike(context.Background(), visitor.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikesCount)
}

func TestToggleLike_ProjectNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	visitor := createTestUser(t, db, "Bob")

	svc := NewEngagementService(db, nil)

	_, err := svc.ToggleLike(context.Background(), visitor.ID, 9999)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestAddComment(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	visitor := createTestUser(t, db, "Bob")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	svc := NewEngagementService(db, nil)

	comment, err := svc.AddComment(context.Background(), AddCommentInput{
		ActorID:   visitor.ID,
		ProjectID: project.ID,
		Content:   "  Great work!  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Great work!", comment.Content)
	assert.Equal(t, "Bob", comment.User.FirstName)

	var stored models.Project
	require.NoError(t, db.First(&stored, project.ID).Error)
	assert.Equal(t, 1, stored.CommentsCount)

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", author.ID).First(&notification).Error)
	assert.Equal(t, "New Comment", notification.Title)
	assert.Equal(t, models.NotificationTypeInfo, notification.Type)
	assert.Equal(t, "Bob commented on your project 'CLI Toolkit'", notification.Message)
}

func TestAddComment_EmptyContentRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	visitor := createTestUser(t, db, "Bob")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	svc := NewEngagementService(db, nil)

	_, err := svc.AddComment(context.Background(), AddCommentInput{
		ActorID:   visitor.ID,
		ProjectID: project.ID,
		Content:   "   \n\t ",
	})
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeValidation, appErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var stored models.Project
	require.NoError(t, db.First(&stored, project.ID).Error)
	assert.Equal(t, 0, stored.CommentsCount)
}

func TestAddComment_SelfCommentSkipsNotification(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	project := createTestProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	svc := NewEngagementService(db, nil)

	_, err := svc.AddComment(context.Background(), AddCommentInput{
		ActorID:   author.ID,
		ProjectID: project.ID,
		Content:   "Note to self",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
