package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salonbook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Processor is the booking side the worker drives.
type Processor interface {
	ProcessRefund(ctx context.Context, refundID string) error
	Reconcile(ctx context.Context, intentID string) error
}

type BookingReader interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipientID, title, body string, data map[string]string) error
}

// PendingIntents lists paid intents that never reached a booking.
type PendingIntents interface {
	PendingIntents(ctx context.Context, olderThan time.Time, limit int64) ([]models.SettlementIntent, error)
}

type RefundLister interface {
	ListByStatus(ctx context.Context, status string, createdBefore time.Time, limit int64) ([]models.Refund, error)
}

// RechargeCompleter credits paid wallet recharges.
type RechargeCompleter interface {
	CompleteRecharge(ctx context.Context, rechargeID string) error
}

// PendingRecharges lists paid recharges that were never credited.
type PendingRecharges interface {
	PendingRecharges(ctx context.Context, olderThan time.Time, limit int64) ([]models.RechargeIntent, error)
}

// Handlers runs the asynq tasks of the booking and wallet domains.
type Handlers struct {
	Processor Processor
	Bookings  BookingReader
	Notifier  Notifier
	Intents   PendingIntents
	Refunds   RefundLister
	Wallet    RechargeCompleter
	Recharges PendingRecharges
	Queue     *Queue
	Logger    *zap.Logger
}

// Register wires every task type onto mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeSendReminder, h.HandleReminder)
	mux.HandleFunc(TypeProcessRefund, h.HandleRefund)
	mux.HandleFunc(TypeReconcile, h.HandleReconcile)
	mux.HandleFunc(TypeSweep, h.HandleSweep)
	mux.HandleFunc(TypeRecharge, h.HandleRecharge)
}

func decode(task *asynq.Task, v any) error {
	if err := json.Unmarshal(task.Payload(), v); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// HandleReminder pushes the reminder unless the booking is no longer active.
func (h *Handlers) HandleReminder(ctx context.Context, task *asynq.Task) error {
	var p models.ReminderPayload
	if err := decode(task, &p); err != nil {
		return err
	}
	b, err := h.Bookings.GetByID(ctx, p.BookingID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !b.Active() {
		h.Logger.Debug("reminder dropped for inactive booking",
			zap.String("bookingID", b.ID), zap.String("status", b.Status.String()))
		return nil
	}
	data := map[string]string{"bookingId": p.BookingID, "type": "reminder", "fireDate": p.FireDate}
	if err := h.Notifier.Notify(ctx, p.UserID, p.Title, p.Body, data); err != nil {
		h.Logger.Warn("reminder push failed", zap.String("bookingID", p.BookingID), zap.Error(err))
		return err
	}
	return nil
}

func (h *Handlers) HandleRefund(ctx context.Context, task *asynq.Task) error {
	var p models.RefundPayload
	if err := decode(task, &p); err != nil {
		return err
	}
	return h.Processor.ProcessRefund(ctx, p.RefundID)
}

func (h *Handlers) HandleReconcile(ctx context.Context, task *asynq.Task) error {
	var p models.ReconcilePayload
	if err := decode(task, &p); err != nil {
		return err
	}
	return h.Processor.Reconcile(ctx, p.IntentID)
}

func (h *Handlers) HandleRecharge(ctx context.Context, task *asynq.Task) error {
	var p models.RechargePayload
	if err := decode(task, &p); err != nil {
		return err
	}
	return h.Wallet.CompleteRecharge(ctx, p.RechargeID)
}

const (
	sweepGrace = 2 * time.Minute
	sweepBatch = 100
)

// HandleSweep re-enqueues paid-but-uncommitted intents, refunds that failed or were
// never enqueued, and paid recharges that were never credited.
func (h *Handlers) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().Add(-sweepGrace)
	intents, err := h.Intents.PendingIntents(ctx, cutoff, sweepBatch)
	if err != nil {
		return err
	}
	for _, in := range intents {
		if err := h.Queue.EnqueueReconcile(ctx, in.ID); err != nil {
			h.Logger.Warn("sweep failed to enqueue reconcile", zap.String("intentID", in.ID), zap.Error(err))
		}
	}

	failed, err := h.Refunds.ListByStatus(ctx, models.RefundFailed, time.Now(), sweepBatch)
	if err != nil {
		return err
	}
	stalled, err := h.Refunds.ListByStatus(ctx, models.RefundPending, cutoff, sweepBatch)
	if err != nil {
		return err
	}
	refunds := append(failed, stalled...)
	for _, r := range refunds {
		if err := h.Queue.EnqueueRefund(ctx, r.ID); err != nil {
			h.Logger.Warn("sweep failed to enqueue refund", zap.String("refundID", r.ID), zap.Error(err))
		}
	}

	recharges, err := h.Recharges.PendingRecharges(ctx, cutoff, sweepBatch)
	if err != nil {
		return err
	}
	for _, r := range recharges {
		if err := h.Queue.EnqueueRecharge(ctx, r.ID); err != nil {
			h.Logger.Warn("sweep failed to enqueue recharge", zap.String("rechargeID", r.ID), zap.Error(err))
		}
	}

	if n := len(intents) + len(refunds) + len(recharges); n > 0 {
		h.Logger.Info("settlement sweep",
			zap.Int("intents", len(intents)),
			zap.Int("refunds", len(refunds)),
			zap.Int("recharges", len(recharges)))
	}
	return nil
}
