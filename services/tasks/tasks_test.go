package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"salonbook/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type enqueued struct {
	task *asynq.Task
	opts []asynq.Option
}

type fakeClient struct {
	got []enqueued
	ids map[string]bool
}

func (f *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			id := o.Value().(string)
			if f.ids[id] {
				return nil, asynq.ErrTaskIDConflict
			}
			f.ids[id] = true
		}
	}
	f.got = append(f.got, enqueued{task: task, opts: opts})
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func newQueue() (*Queue, *fakeClient) {
	c := &fakeClient{ids: map[string]bool{}}
	return NewQueue(c, zap.NewNop()), c
}

func optionOf(opts []asynq.Option, typ asynq.OptionType) (any, bool) {
	for _, o := range opts {
		if o.Type() == typ {
			return o.Value(), true
		}
	}
	return nil, false
}

func TestScheduleReminderIsDeduplicated(t *testing.T) {
	q, c := newQueue()
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	p := models.ReminderPayload{BookingID: "b1", UserID: "u1", FireDate: at.Format(time.RFC3339)}

	require.NoError(t, q.ScheduleReminder(context.Background(), p, at))
	require.NoError(t, q.ScheduleReminder(context.Background(), p, at))
	require.Len(t, c.got, 1)

	assert.Equal(t, TypeSendReminder, c.got[0].task.Type())
	v, ok := optionOf(c.got[0].opts, asynq.ProcessAtOpt)
	require.True(t, ok)
	assert.True(t, at.Equal(v.(time.Time)))

	var decoded models.ReminderPayload
	require.NoError(t, json.Unmarshal(c.got[0].task.Payload(), &decoded))
	assert.Equal(t, p, decoded)
}

func TestEnqueueRefundAndReconcile(t *testing.T) {
	q, c := newQueue()
	require.NoError(t, q.EnqueueRefund(context.Background(), "r1"))
	require.NoError(t, q.EnqueueReconcile(context.Background(), "i1"))
	require.Len(t, c.got, 2)

	assert.Equal(t, TypeProcessRefund, c.got[0].task.Type())
	retry, _ := optionOf(c.got[0].opts, asynq.MaxRetryOpt)
	assert.Equal(t, refundMaxRetry, retry)

	assert.Equal(t, TypeReconcile, c.got[1].task.Type())
	delay, ok := optionOf(c.got[1].opts, asynq.ProcessInOpt)
	require.True(t, ok)
	assert.Equal(t, reconcileDelay, delay)
}

type fakeProcessor struct {
	refunds    []string
	reconciled []string
	err        error
}

func (p *fakeProcessor) ProcessRefund(_ context.Context, id string) error {
	p.refunds = append(p.refunds, id)
	return p.err
}

func (p *fakeProcessor) Reconcile(_ context.Context, id string) error {
	p.reconciled = append(p.reconciled, id)
	return p.err
}

type bookingMap map[string]*models.Booking

func (m bookingMap) GetByID(_ context.Context, id string) (*models.Booking, error) {
	if b, ok := m[id]; ok {
		return b, nil
	}
	return nil, models.ErrNotFound
}

type pushes struct{ to []string }

func (p *pushes) Notify(_ context.Context, id, _, _ string, _ map[string]string) error {
	p.to = append(p.to, id)
	return nil
}

type pending []models.SettlementIntent

func (p pending) PendingIntents(context.Context, time.Time, int64) ([]models.SettlementIntent, error) {
	return p, nil
}

type refundsByStatus map[string][]models.Refund

func (f refundsByStatus) ListByStatus(_ context.Context, status string, createdBefore time.Time, _ int64) ([]models.Refund, error) {
	if status == models.RefundPending && time.Since(createdBefore) < sweepGrace {
		return nil, errors.New("pending refunds listed without grace")
	}
	return f[status], nil
}

type recharger struct{ completed []string }

func (r *recharger) CompleteRecharge(_ context.Context, id string) error {
	r.completed = append(r.completed, id)
	return nil
}

type paidRecharges []models.RechargeIntent

func (p paidRecharges) PendingRecharges(context.Context, time.Time, int64) ([]models.RechargeIntent, error) {
	return p, nil
}

func newHandlers() (*Handlers, *fakeProcessor, *pushes, *fakeClient) {
	q, c := newQueue()
	proc := &fakeProcessor{}
	push := &pushes{}
	h := &Handlers{
		Processor: proc,
		Bookings: bookingMap{
			"b1": {ID: "b1", UserID: "u1", Status: models.StatusConfirmed},
			"b2": {ID: "b2", UserID: "u1", Status: models.StatusCancelled},
		},
		Notifier: push,
		Intents:  pending{{ID: "i9"}},
		Refunds: refundsByStatus{
			models.RefundFailed:  {{ID: "r9"}},
			models.RefundPending: {{ID: "r8"}},
		},
		Wallet:    &recharger{},
		Recharges: paidRecharges{{ID: "w7"}},
		Queue:     q,
		Logger:    zap.NewNop(),
	}
	return h, proc, push, c
}

func reminderTask(t *testing.T, bookingID string) *asynq.Task {
	b, err := json.Marshal(models.ReminderPayload{BookingID: bookingID, UserID: "u1", Title: "Reminder"})
	require.NoError(t, err)
	return asynq.NewTask(TypeSendReminder, b)
}

func TestHandleReminder(t *testing.T) {
	h, _, push, _ := newHandlers()
	ctx := context.Background()

	require.NoError(t, h.HandleReminder(ctx, reminderTask(t, "b1")))
	require.NoError(t, h.HandleReminder(ctx, reminderTask(t, "b2")))
	require.NoError(t, h.HandleReminder(ctx, reminderTask(t, "missing")))
	assert.Equal(t, []string{"u1"}, push.to)

	err := h.HandleReminder(ctx, asynq.NewTask(TypeSendReminder, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleRefundAndReconcile(t *testing.T) {
	h, proc, _, _ := newHandlers()
	ctx := context.Background()

	b, _ := json.Marshal(models.RefundPayload{RefundID: "r1"})
	require.NoError(t, h.HandleRefund(ctx, asynq.NewTask(TypeProcessRefund, b)))
	b, _ = json.Marshal(models.ReconcilePayload{IntentID: "i1"})
	require.NoError(t, h.HandleReconcile(ctx, asynq.NewTask(TypeReconcile, b)))

	assert.Equal(t, []string{"r1"}, proc.refunds)
	assert.Equal(t, []string{"i1"}, proc.reconciled)

	proc.err = errors.New("gateway down")
	assert.Error(t, h.HandleRefund(ctx, asynq.NewTask(TypeProcessRefund, []byte(`{"refundId":"r2"}`))))
}

func TestHandleRecharge(t *testing.T) {
	h, _, _, _ := newHandlers()
	b, _ := json.Marshal(models.RechargePayload{RechargeID: "w1"})
	require.NoError(t, h.HandleRecharge(context.Background(), asynq.NewTask(TypeRecharge, b)))
	assert.Equal(t, []string{"w1"}, h.Wallet.(*recharger).completed)

	err := h.HandleRecharge(context.Background(), asynq.NewTask(TypeRecharge, []byte("nope")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestEnqueueRecharge(t *testing.T) {
	q, c := newQueue()
	require.NoError(t, q.EnqueueRecharge(context.Background(), "w1"))
	require.Len(t, c.got, 1)
	assert.Equal(t, TypeRecharge, c.got[0].task.Type())
	retry, _ := optionOf(c.got[0].opts, asynq.MaxRetryOpt)
	assert.Equal(t, rechargeMaxRetry, retry)
}

func TestHandleSweep(t *testing.T) {
	h, _, _, c := newHandlers()
	require.NoError(t, h.HandleSweep(context.Background(), asynq.NewTask(TypeSweep, nil)))
	require.Len(t, c.got, 4)
	assert.Equal(t, TypeReconcile, c.got[0].task.Type())
	assert.Equal(t, TypeProcessRefund, c.got[1].task.Type())
	assert.Equal(t, TypeProcessRefund, c.got[2].task.Type())
	assert.Equal(t, TypeRecharge, c.got[3].task.Type())

	var p models.RefundPayload
	require.NoError(t, json.Unmarshal(c.got[2].task.Payload(), &p))
	assert.Equal(t, "r8", p.RefundID)
}
