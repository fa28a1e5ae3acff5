package services

import (
	"context"
	"errors"
	"time"

	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/pkg/logger"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// NotificationDocs is the store surface the notification service needs.
type NotificationDocs interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListForRecipient(ctx context.Context, email string, includeAdmin bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, email string, includeAdmin, read bool) error
}

// NotificationService emits lifecycle notifications through the task
// queue and serves the read surface. Emission is fire-and-forget: a
// delivery failure is logged and never propagated to the operation that
// triggered it.
type NotificationService struct {
	docs  NotificationDocs
	queue TaskQueue
}

func NewNotificationService(docs NotificationDocs, queue TaskQueue) *NotificationService {
	return &NotificationService{docs: docs, queue: queue}
}

// Emit hands a notification off for delivery.
func (s *NotificationService) Emit(ctx context.Context, n *models.Notification) {
	task := &NotificationTask{
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		To:        n.ToEmail,
		From:      n.FromEmail,
		ProjectID: n.ProjectID,
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		logger.Error().Err(err).
			Str("to", n.ToEmail).
			Str("type", n.Type).
			Msg("notification delivery failed")
	}
}

// Deliver writes a queued notification record. It is the consumer side
// of Emit: the asynq worker and the sync queue both end up here.
func (s *NotificationService) Deliver(ctx context.Context, task *NotificationTask) error {
	return s.docs.Insert(ctx, &models.Notification{
		Title:      task.Title,
		Message:    task.Message,
		Type:       task.Type,
		ToEmail:    task.To,
		FromEmail:  task.From,
		ProjectID:  task.ProjectID,
		ReadStatus: false,
		CreatedAt:  time.Now().UTC(),
	})
}

// ListFor returns the caller's notifications, newest first. Admins also
// see the admin-audience records.
func (s *NotificationService) ListFor(ctx context.Context, caller *models.Caller) ([]models.Notification, error) {
	return s.docs.ListForRecipient(ctx, caller.Email, caller.IsAdmin)
}

// MarkRead toggles a notification's read flag. Only the recipient (or an
// admin for admin-audience records) can touch it; anyone else sees 404.
func (s *NotificationService) MarkRead(ctx context.Context, caller *models.Caller, id string, read bool) error {
	err := s.docs.MarkRead(ctx, id, caller.Email, caller.IsAdmin, read)
	if errors.Is(err, store.ErrNotFound) {
		return response.NewNotFound("no such notification")
	}
	return err
}
