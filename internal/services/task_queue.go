package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskNotificationDeliver is the asynq task type for notification fan-out.
const TaskNotificationDeliver = "notification:deliver"

// NotificationTask is the queue payload for one notification delivery.
type NotificationTask struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	To        string `json:"to"`
	From      string `json:"from,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

// TaskQueue hands notification tasks off for delivery. The async
// implementation goes through Redis; the sync one delivers inline and
// keeps single-binary deployments working without Redis.
type TaskQueue interface {
	Enqueue(ctx context.Context, task *NotificationTask) error
	IsAsync() bool
	Close() error
}

// AsyncQueue enqueues tasks onto Redis via asynq; a separate worker
// process (or goroutine) consumes them.
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(addr, password string, db int) *AsyncQueue {
	return &AsyncQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (q *AsyncQueue) Enqueue(ctx context.Context, task *NotificationTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal notification task: %w", err)
	}

	_, err = q.client.EnqueueContext(ctx,
		asynq.NewTask(TaskNotificationDeliver, payload),
		asynq.MaxRetry(3),
		asynq.Queue("notifications"))
	if err != nil {
		return fmt.Errorf("enqueue notification task: %w", err)
	}
	return nil
}

func (q *AsyncQueue) IsAsync() bool { return true }

func (q *AsyncQueue) Close() error { return q.client.Close() }

// SyncQueue delivers tasks inline on the caller's goroutine. Used when
// Redis is disabled in config. The processor is set after construction,
// since the delivering service itself holds the queue.
type SyncQueue struct {
	deliver func(ctx context.Context, task *NotificationTask) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor installs the delivery func.
func (q *SyncQueue) SetProcessor(deliver func(ctx context.Context, task *NotificationTask) error) {
	q.deliver = deliver
}

func (q *SyncQueue) Enqueue(ctx context.Context, task *NotificationTask) error {
	if q.deliver == nil {
		return fmt.Errorf("sync queue has no processor")
	}
	return q.deliver(ctx, task)
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }
