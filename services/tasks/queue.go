package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the asynq client surface. *asynq.Client satisfies it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue schedules booking and wallet background work on asynq.
type Queue struct {
	Client Enqueuer
	Logger *zap.Logger
}

func NewQueue(client Enqueuer, logger *zap.Logger) *Queue {
	return &Queue{Client: client, Logger: logger}
}

func (q *Queue) enqueue(ctx context.Context, task *asynq.Task, opts []asynq.Option) error {
	info, err := q.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		q.Logger.Debug("task already scheduled", zap.String("type", task.Type()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}
	q.Logger.Debug("task enqueued", zap.String("type", task.Type()), zap.String("taskID", info.ID))
	return nil
}

// ScheduleReminder fires once per booking and fire time.
func (q *Queue) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, at time.Time) error {
	task, opts, err := NewReminderTask(payload, at)
	if err != nil {
		return err
	}
	return q.enqueue(ctx, task, opts)
}

func (q *Queue) EnqueueRefund(ctx context.Context, refundID string) error {
	task, opts, err := NewRefundTask(refundID)
	if err != nil {
		return err
	}
	return q.enqueue(ctx, task, opts)
}

func (q *Queue) EnqueueReconcile(ctx context.Context, intentID string) error {
	task, opts, err := NewReconcileTask(intentID)
	if err != nil {
		return err
	}
	return q.enqueue(ctx, task, opts)
}

func (q *Queue) EnqueueRecharge(ctx context.Context, rechargeID string) error {
	task, opts, err := NewRechargeTask(rechargeID)
	if err != nil {
		return err
	}
	return q.enqueue(ctx, task, opts)
}
