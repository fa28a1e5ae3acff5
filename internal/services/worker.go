package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/clubhq/clubhub/backend/pkg/logger"
)

// Worker consumes queued notification tasks from Redis. Only started
// when the async queue is in use.
type Worker struct {
	server        *asynq.Server
	notifications *NotificationService
}

func NewWorker(addr, password string, db int, notifications *NotificationService) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: addr, Password: password, DB: db},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{"notifications": 1},
		},
	)
	return &Worker{server: server, notifications: notifications}
}

// Start runs the worker in a background goroutine.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskNotificationDeliver, w.handleDeliver)

	go func() {
		if err := w.server.Run(mux); err != nil {
			logger.Error().Err(err).Msg("notification worker stopped")
		}
	}()
	return nil
}

// Stop drains in-flight tasks and shuts the worker down.
func (w *Worker) Stop() {
	w.server.Shutdown()
}

func (w *Worker) handleDeliver(ctx context.Context, t *asynq.Task) error {
	var task NotificationTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("unmarshal notification task: %w", err)
	}
	return w.notifications.Deliver(ctx, &task)
}
