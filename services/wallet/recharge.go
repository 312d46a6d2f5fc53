package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbook/models"
	"salonbook/services/payment"
	"salonbook/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RechargeRequest tops up the wallet from a card. IdempotencyKey makes retries safe.
type RechargeRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethodID string  `json:"paymentMethodId" binding:"required"`
	IdempotencyKey  string  `json:"idempotencyKey"`
}

type RechargeResult struct {
	Recharge *models.RechargeIntent `json:"recharge"`
	Replayed bool                   `json:"replayed"`
}

// Recharge records a recharge intent, charges the card and credits the wallet. A retry
// with the same key resumes the intent instead of charging again.
func (s *DefaultWalletService) Recharge(ctx context.Context, userID string, req RechargeRequest) (*RechargeResult, error) {
	amount := pricing.Round2(req.Amount)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = uuid.New().String()
	}

	existing, err := s.Recharges.GetRecharge(ctx, key)
	switch {
	case err == nil:
		return s.resumeOwned(ctx, userID, existing, req.PaymentMethodID)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to load recharge: %w", err)
	}

	now := s.Now()
	r := &models.RechargeIntent{
		ID:              key,
		UserID:          userID,
		Amount:          amount,
		AmountMinor:     pricing.ToMinorUnits(amount),
		Currency:        s.Currency,
		PaymentMethodID: req.PaymentMethodID,
		Status:          models.IntentCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Recharges.CreateRecharge(ctx, r); err != nil {
		if !errors.Is(err, models.ErrDuplicate) {
			return nil, fmt.Errorf("failed to record recharge: %w", err)
		}
		existing, gerr := s.Recharges.GetRecharge(ctx, key)
		if gerr != nil {
			return nil, fmt.Errorf("failed to load recharge: %w", gerr)
		}
		return s.resumeOwned(ctx, userID, existing, req.PaymentMethodID)
	}
	return s.resume(ctx, r, req.PaymentMethodID)
}

func (s *DefaultWalletService) resumeOwned(ctx context.Context, userID string, r *models.RechargeIntent, paymentMethodID string) (*RechargeResult, error) {
	if r.UserID != userID {
		return nil, ErrKeyReused
	}
	return s.resume(ctx, r, paymentMethodID)
}

func (s *DefaultWalletService) resume(ctx context.Context, r *models.RechargeIntent, paymentMethodID string) (*RechargeResult, error) {
	switch r.Status {
	case models.IntentCommitted:
		return &RechargeResult{Recharge: r, Replayed: true}, nil
	case models.IntentCreated, models.IntentFailed:
		if paymentMethodID != "" && r.Status == models.IntentFailed {
			r.PaymentMethodID = paymentMethodID
		}
		if err := s.charge(ctx, r); err != nil {
			return nil, err
		}
	}
	if err := s.credit(ctx, r); err != nil {
		return nil, err
	}
	return &RechargeResult{Recharge: r}, nil
}

// charge moves a recharge to paid. Only a decline moves to a new gateway idempotency key.
func (s *DefaultWalletService) charge(ctx context.Context, r *models.RechargeIntent) error {
	res, err := s.Gateway.Charge(ctx, models.PaymentRequest{
		UserID:          r.UserID,
		AmountMinor:     r.AmountMinor,
		Currency:        r.Currency,
		PaymentMethodID: r.PaymentMethodID,
		Idempotency:     fmt.Sprintf("recharge-%s-%d", r.ID, r.Attempts),
		Description:     "Wallet recharge",
		Metadata:        map[string]string{"rechargeId": r.ID, "userId": r.UserID, "purpose": "wallet_recharge"},
	})
	r.UpdatedAt = s.Now()
	if err != nil {
		var pe *payment.PaymentError
		declined := errors.As(err, &pe)
		if declined {
			r.Attempts++
			r.Status = models.IntentFailed
		}
		r.Error = err.Error()
		if uerr := s.Recharges.UpdateRecharge(ctx, r); uerr != nil {
			s.Logger.Error("failed to record recharge failure", zap.String("rechargeID", r.ID), zap.Error(uerr))
		}
		s.Logger.Warn("wallet recharge payment failed",
			zap.String("rechargeID", r.ID),
			zap.Bool("declined", declined),
			zap.Error(err))
		if declined {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPaymentUnconfirmed, err)
	}

	r.Status = models.IntentPaid
	r.TransactionID = res.TransactionID
	r.Error = ""
	if err := s.Recharges.UpdateRecharge(ctx, r); err != nil {
		s.Logger.Warn("failed to mark recharge paid", zap.String("rechargeID", r.ID), zap.Error(err))
	}
	return nil
}

// credit applies a paid recharge to the wallet once. The ledger row keyed by the
// recharge ID makes a repeat a no-op.
func (s *DefaultWalletService) credit(ctx context.Context, r *models.RechargeIntent) error {
	tx, err := s.Credit(ctx, r.UserID, r.Amount, models.SourceRecharge, r.ID, "Wallet recharge")
	switch {
	case errors.Is(err, models.ErrDuplicate):
		if bal, berr := s.Store.Balance(ctx, r.UserID); berr == nil {
			r.BalanceAfter = bal
		}
	case err != nil:
		s.Logger.Error("wallet credit failed after recharge payment",
			zap.String("rechargeID", r.ID),
			zap.String("transactionID", r.TransactionID),
			zap.Float64("amount", r.Amount),
			zap.Error(err))
		return err
	default:
		r.BalanceAfter = tx.BalanceAfter
	}

	r.Status = models.IntentCommitted
	r.Error = ""
	r.UpdatedAt = s.Now()
	if err := s.Recharges.UpdateRecharge(ctx, r); err != nil {
		s.Logger.Warn("failed to mark recharge credited", zap.String("rechargeID", r.ID), zap.Error(err))
	}
	return nil
}

// CompleteRecharge credits a recharge that was paid but never credited. It is run by
// the wallet:recharge task and is safe to repeat.
func (s *DefaultWalletService) CompleteRecharge(ctx context.Context, rechargeID string) error {
	r, err := s.Recharges.GetRecharge(ctx, rechargeID)
	if err != nil {
		return fmt.Errorf("failed to load recharge %s: %w", rechargeID, err)
	}
	if r.Status != models.IntentPaid {
		return nil
	}
	return s.credit(ctx, r)
}

// HandlePaymentEvent applies a verified gateway webhook to its recharge.
func (s *DefaultWalletService) HandlePaymentEvent(ctx context.Context, ev *payment.WebhookEvent) error {
	if ev == nil || ev.RechargeID == "" {
		return nil
	}
	r, err := s.Recharges.GetRecharge(ctx, ev.RechargeID)
	if errors.Is(err, models.ErrNotFound) {
		s.Logger.Debug("webhook for unknown recharge", zap.String("rechargeID", ev.RechargeID))
		return nil
	}
	if err != nil {
		return err
	}

	switch r.Status {
	case models.IntentCreated, models.IntentFailed:
		r.UpdatedAt = s.Now()
		if !ev.Succeeded {
			r.Status = models.IntentFailed
			r.Error = ev.FailureReason
			return s.Recharges.UpdateRecharge(ctx, r)
		}
		r.Status = models.IntentPaid
		r.TransactionID = ev.TransactionID
		r.Error = ""
		if err := s.Recharges.UpdateRecharge(ctx, r); err != nil {
			return err
		}
		return s.credit(ctx, r)
	}

	if ev.Succeeded && ev.TransactionID != "" && ev.TransactionID != r.TransactionID {
		id, err := s.Gateway.Refund(ctx, ev.TransactionID, 0)
		if err != nil && !payment.IsAlreadyRefunded(err) {
			return fmt.Errorf("refund duplicate recharge charge %s: %w", ev.TransactionID, err)
		}
		s.Logger.Warn("refunded duplicate recharge charge",
			zap.String("rechargeID", r.ID),
			zap.String("transactionID", ev.TransactionID),
			zap.String("refundID", id))
		return nil
	}
	if r.Status == models.IntentPaid {
		return s.credit(ctx, r)
	}
	return nil
}
