package service

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	commonredis "github.com/jagoanbunda/jagoanbunda-data/common/redis"
	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
)

// Notification types.
const (
	NotifyScreeningCompleted = "screening_completed"
	NotifyProgramCreated     = "pmt_program_created"
)

// Publisher pushes notification events to the delivery pipeline.
type Publisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

// StreamPublisher appends notification events to a Redis stream.
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewStreamPublisher(client *redis.Client, stream string, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

// NotificationEvent is the stream payload.
type NotificationEvent struct {
	NotificationID int64          `json:"notification_id"`
	UserID         int64          `json:"user_id"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	Data           map[string]any `json:"data,omitempty"`
}

func (p *StreamPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	_, err := commonredis.PublishJSONToStream(ctx, p.client, p.stream, p.maxLen, NotificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
		Body:           n.Body,
		Data:           n.Data,
	})
	return err
}

// NotificationService stores in-app notifications and publishes them.
type NotificationService interface {
	Notify(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, user *domain.User, unreadOnly bool, page repository.Page) ([]*domain.Notification, int, error)
	UnreadCount(ctx context.Context, user *domain.User) (int, error)
	MarkRead(ctx context.Context, user *domain.User, id int64) error
	MarkAllRead(ctx context.Context, user *domain.User) (int64, error)
	Delete(ctx context.Context, user *domain.User, id int64) error
}

type notificationService struct {
	repo      repository.NotificationsRepository
	publisher Publisher
	logger    *zap.Logger
}

// NewNotificationService accepts a nil publisher, in which case nothing is
// published.
func NewNotificationService(repo repository.NotificationsRepository, publisher Publisher, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, publisher: publisher, logger: logger}
}

// Notify stores n. Publishing is best-effort: a stream failure is logged and
// the stored notification stays.
func (s *notificationService) Notify(ctx context.Context, n *domain.Notification) error {
	if _, err := s.repo.CreateNotification(ctx, n); err != nil {
		return err
	}
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Warn("Failed to publish notification",
			zap.Int64("notification_id", n.ID),
			zap.Int64("user_id", n.UserID),
			zap.Error(err),
		)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, user *domain.User, unreadOnly bool, page repository.Page) ([]*domain.Notification, int, error) {
	return s.repo.ListNotifications(ctx, user.ID, unreadOnly, page)
}

func (s *notificationService) UnreadCount(ctx context.Context, user *domain.User) (int, error) {
	return s.repo.UnreadCount(ctx, user.ID)
}

func (s *notificationService) MarkRead(ctx context.Context, user *domain.User, id int64) error {
	ok, err := s.repo.MarkRead(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound(MsgNotificationNotFound)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, user *domain.User) (int64, error) {
	return s.repo.MarkAllRead(ctx, user.ID)
}

func (s *notificationService) Delete(ctx context.Context, user *domain.User, id int64) error {
	ok, err := s.repo.DeleteNotification(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound(MsgNotificationNotFound)
	}
	return nil
}

// notifyQuietly sends n and only logs a failure; the triggering action has
// already been committed.
func notifyQuietly(ctx context.Context, ns NotificationService, logger *zap.Logger, n *domain.Notification) {
	if ns == nil {
		return
	}
	if err := ns.Notify(ctx, n); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Failed to create notification",
			zap.Int64("user_id", n.UserID),
			zap.String("type", n.Type),
			zap.Error(err),
		)
	}
}
