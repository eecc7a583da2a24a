package service

import (
	"context"

	"folio/internal/models"
	"folio/internal/repository"
)

const notificationListLimit = 50

// NotificationService reads and acknowledges a user's notifications. Creation
// happens inside the engagement transactions, never here.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NotificationList is a user's recent notifications plus the unread badge
// count.
type NotificationList struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns the user's most recent notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint) (*NotificationList, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, notificationListLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead flips the read flag on one of the user's notifications. Marking a
// notification that does not exist or belongs to someone else reports not
// found; ownership is enforced in the query itself.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	affected, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

// MarkAllRead flips the read flag on all the user's unread notifications.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID)
}
