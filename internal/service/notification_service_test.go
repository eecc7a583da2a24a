package service

import (
	"context"
	"testing"

	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationList(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	other := createTestUser(t, db, "Bob")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Notification{
			Title:   "New Like",
			Message: "Someone liked your project 'X'",
			Type:    models.NotificationTypeSuccess,
			UserID:  author.ID,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Notification{
		Title:   "New Comment",
		Message: "Someone commented on your project 'Y'",
		Type:    models.NotificationTypeInfo,
		UserID:  other.ID,
	}).Error)

	svc := NewNotificationService(repository.NewNotificationRepository(db))

	list, err := svc.List(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 3)
	assert.Equal(t, int64(3), list.UnreadCount)
}

func TestNotificationMarkRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")
	other := createTestUser(t, db, "Bob")

	notification := models.Notification{
		Title:   "New Like",
		Message: "Bob liked your project 'X'",
		UserID:  author.ID,
	}
	require.NoError(t, db.Create(&notification).Error)

	svc := NewNotificationService(repository.NewNotificationRepository(db))
	ctx := context.Background()

	// Another user cannot acknowledge someone else's notification.
	err := svc.MarkRead(ctx, other.ID, notification.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	require.NoError(t, svc.MarkRead(ctx, author.ID, notification.ID))

	var stored models.Notification
	require.NoError(t, db.First(&stored, notification.ID).Error)
	assert.True(t, stored.IsRead)
}

func TestNotificationMarkAllRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := createTestUser(t, db, "Alice")

	for i := 0; i < 4; i++ {
		require.NoError(t, db.Create(&models.Notification{
			Title:  "New Like",
			UserID: author.ID,
		}).Error)
	}

	svc := NewNotificationService(repository.NewNotificationRepository(db))
	ctx := context.Background()

	require.NoError(t, svc.MarkAllRead(ctx, author.ID))

	list, err := svc.List(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.UnreadCount)
}
