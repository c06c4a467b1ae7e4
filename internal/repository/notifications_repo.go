package repository

import (
	"context"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// NotificationsRepository stores in-app notifications.
type NotificationsRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) (int64, error)
	ListNotifications(ctx context.Context, userID int64, unreadOnly bool, page Page) ([]*domain.Notification, int, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	// MarkRead returns false when the notification is not the user's.
	MarkRead(ctx context.Context, userID, id int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, userID, id int64) (bool, error)
}
