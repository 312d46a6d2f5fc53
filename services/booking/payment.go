package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/models"
	"salonbook/services/payment"
	"salonbook/services/pricing"

	"go.uber.org/zap"
)

const reminderLead = time.Hour

// Reconcile retries the commit of an intent that was paid but never turned into a
// booking. It is run by the settlement:reconcile task and is safe to repeat. A failure
// is returned for the task's own retry; nothing new is enqueued.
func (s *DefaultBookingService) Reconcile(ctx context.Context, intentID string) error {
	intent, err := s.Settlements.GetIntent(ctx, intentID)
	if err != nil {
		return fmt.Errorf("failed to load settlement intent %s: %w", intentID, err)
	}
	switch intent.Status {
	case models.IntentCommitted, models.IntentReversed, models.IntentFailed:
		return nil
	case models.IntentCreated:
		// the client dropped before the charge resolved; wait for the webhook
		return nil
	}

	_, err = s.commit(ctx, intent)
	var se *SettlementError
	if errors.As(err, &se) && se.Code == CodeInsufficientBalance {
		return nil
	}
	return err
}

// HandlePaymentEvent applies a verified gateway webhook to its settlement intent.
func (s *DefaultBookingService) HandlePaymentEvent(ctx context.Context, ev *payment.WebhookEvent) error {
	if ev == nil || ev.IntentID == "" {
		return nil
	}
	intent, err := s.Settlements.GetIntent(ctx, ev.IntentID)
	if errors.Is(err, models.ErrNotFound) {
		s.Logger.Debug("webhook for unknown intent", zap.String("intentID", ev.IntentID))
		return nil
	}
	if err != nil {
		return err
	}

	if intent.Status != models.IntentCreated && intent.Status != models.IntentFailed {
		if ev.Succeeded && ev.TransactionID != "" && ev.TransactionID != intent.TransactionID {
			return s.refundStrayCharge(ctx, intent, ev.TransactionID)
		}
		return nil
	}

	intent.UpdatedAt = s.Now()
	if !ev.Succeeded {
		intent.Status = models.IntentFailed
		intent.Error = ev.FailureReason
		return s.Settlements.UpdateIntent(ctx, intent)
	}

	intent.Status = models.IntentPaid
	intent.TransactionID = ev.TransactionID
	intent.Error = ""
	if err := s.Settlements.UpdateIntent(ctx, intent); err != nil {
		return err
	}
	s.Logger.Info("payment confirmed by webhook", zap.String("intentID", intent.ID), zap.String("transactionID", ev.TransactionID))
	return s.Reconcile(ctx, intent.ID)
}

// refundStrayCharge returns a successful charge that is not the one the intent settled with.
func (s *DefaultBookingService) refundStrayCharge(ctx context.Context, intent *models.SettlementIntent, transactionID string) error {
	id, err := s.Gateway.Refund(ctx, transactionID, 0)
	if err != nil && !payment.IsAlreadyRefunded(err) {
		s.Logger.Error("failed to refund duplicate charge",
			zap.String("intentID", intent.ID),
			zap.String("transactionID", transactionID),
			zap.Error(err))
		return fmt.Errorf("refund duplicate charge %s: %w", transactionID, err)
	}
	s.Logger.Warn("refunded duplicate charge",
		zap.String("intentID", intent.ID),
		zap.String("transactionID", transactionID),
		zap.String("settledWith", intent.TransactionID),
		zap.String("refundID", id))
	return nil
}

// ProcessRefund returns a cancelled booking's money: the wallet share as a wallet credit,
// the card share through the gateway. Each leg is recorded so a retry does not repeat it.
func (s *DefaultBookingService) ProcessRefund(ctx context.Context, refundID string) error {
	r, err := s.Refunds.GetByID(ctx, refundID)
	if err != nil {
		return fmt.Errorf("failed to load refund %s: %w", refundID, err)
	}
	if r.Status == models.RefundProcessed {
		return nil
	}

	if r.WalletAmount > 0 && !r.WalletRefunded {
		_, err := s.Wallet.Credit(ctx, r.UserID, r.WalletAmount, models.SourceRefund, r.BookingID, "Refund for cancelled booking")
		switch {
		case errors.Is(err, models.ErrDuplicate):
			s.Logger.Info("wallet refund already credited", zap.String("refundID", r.ID), zap.String("bookingID", r.BookingID))
		case err != nil:
			return s.refundFailed(ctx, r, err)
		}
		r.WalletRefunded = true
		if err := s.Refunds.Update(ctx, r); err != nil {
			return fmt.Errorf("failed to record wallet refund: %w", err)
		}
	}

	if r.GatewayAmount > 0 && r.GatewayRefundID == "" {
		id, err := s.Gateway.Refund(ctx, r.TransactionID, pricing.ToMinorUnits(r.GatewayAmount))
		if err != nil && !payment.IsAlreadyRefunded(err) {
			return s.refundFailed(ctx, r, err)
		}
		if id == "" {
			id = "already_refunded"
		}
		r.GatewayRefundID = id
	}

	now := s.Now()
	r.Status = models.RefundProcessed
	r.Error = ""
	r.ProcessedAt = &now
	if err := s.Refunds.Update(ctx, r); err != nil {
		return fmt.Errorf("failed to mark refund processed: %w", err)
	}
	if err := s.Bookings.SetPaymentStatus(ctx, r.BookingID, models.PaymentStatusRefunded); err != nil {
		s.Logger.Warn("failed to mark booking refunded", zap.String("bookingID", r.BookingID), zap.Error(err))
	}

	s.Logger.Info("refund processed",
		zap.String("refundID", r.ID),
		zap.String("bookingID", r.BookingID),
		zap.Float64("walletAmount", r.WalletAmount),
		zap.Float64("gatewayAmount", r.GatewayAmount))
	s.notify(ctx, r.UserID, "Refund processed",
		fmt.Sprintf("%.2f has been refunded for your cancelled booking.", r.Amount),
		&models.Booking{ID: r.BookingID})
	return nil
}

func (s *DefaultBookingService) refundFailed(ctx context.Context, r *models.Refund, cause error) error {
	r.Status = models.RefundFailed
	r.Error = cause.Error()
	if err := s.Refunds.Update(ctx, r); err != nil {
		s.Logger.Error("failed to record refund failure", zap.String("refundID", r.ID), zap.Error(err))
	}
	s.Logger.Warn("refund attempt failed", zap.String("refundID", r.ID), zap.Error(cause))
	return fmt.Errorf("refund %s failed: %w", r.ID, cause)
}

func (s *DefaultBookingService) notify(ctx context.Context, recipientID, title, body string, b *models.Booking) {
	if s.Notifier == nil || recipientID == "" {
		return
	}
	data := map[string]string{"bookingId": b.ID}
	if b.Status != "" {
		data["status"] = b.Status.String()
	}
	if err := s.Notifier.Notify(ctx, recipientID, title, body, data); err != nil {
		s.Logger.Warn("push notification failed",
			zap.String("recipientID", recipientID),
			zap.String("bookingID", b.ID),
			zap.Error(err))
	}
}

func (s *DefaultBookingService) scheduleReminder(ctx context.Context, b *models.Booking) {
	at, err := models.AppointmentTime(b.Date, b.Time, time.Local)
	if err != nil {
		s.Logger.Warn("cannot schedule reminder", zap.String("bookingID", b.ID), zap.Error(err))
		return
	}
	fire := at.Add(-reminderLead)
	if fire.Before(s.Now()) {
		return
	}
	payload := models.ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		Title:     "Appointment reminder",
		Body:      fmt.Sprintf("Your appointment at %s starts at %s.", b.SalonName, b.Time),
		FireDate:  fire.Format(time.RFC3339),
	}
	if err := s.Tasks.ScheduleReminder(ctx, payload, fire); err != nil {
		s.Logger.Warn("failed to schedule reminder", zap.String("bookingID", b.ID), zap.Error(err))
	}
}
