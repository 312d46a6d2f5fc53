package tasks

import (
	"encoding/json"
	"time"

	"salonbook/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder  = "booking:reminder"
	TypeProcessRefund = "booking:refund"
	TypeReconcile     = "settlement:reconcile"
	TypeSweep         = "settlement:sweep"
	TypeRecharge      = "wallet:recharge"
)

const (
	refundMaxRetry    = 10
	reconcileMaxRetry = 8
	reconcileDelay    = 30 * time.Second
	rechargeMaxRetry  = 8
)

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID + ":" + payload.FireDate),
	}
	return task, opts, nil
}

func NewRefundTask(refundID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.RefundPayload{RefundID: refundID})
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeProcessRefund, b), []asynq.Option{asynq.MaxRetry(refundMaxRetry)}, nil
}

func NewReconcileTask(intentID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.ReconcilePayload{IntentID: intentID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.ProcessIn(reconcileDelay),
		asynq.MaxRetry(reconcileMaxRetry),
	}
	return asynq.NewTask(TypeReconcile, b), opts, nil
}

func NewRechargeTask(rechargeID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.RechargePayload{RechargeID: rechargeID})
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeRecharge, b), []asynq.Option{asynq.MaxRetry(rechargeMaxRetry)}, nil
}
