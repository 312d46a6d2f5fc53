package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"salonbook/models"
	"salonbook/services/payment"
	"salonbook/services/pricing"
	"salonbook/services/promo"
	"salonbook/services/wallet"
	"salonbook/services/wizard"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutRequest identifies the wizard session and the customer's price choices.
type CheckoutRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	PromoCode string `json:"promoCode"`
	UseWallet bool   `json:"useWallet"`
}

// SettleRequest submits a checkout. IdempotencyKey makes retries safe.
type SettleRequest struct {
	CheckoutRequest
	Method          string `json:"method" binding:"required,oneof=card pay_at_salon"`
	PaymentMethodID string `json:"paymentMethodId"`
	IdempotencyKey  string `json:"idempotencyKey" binding:"required"`
}

// Quote is the price breakdown shown on the confirmation step.
type Quote struct {
	Summary       pricing.Summary      `json:"summary"`
	Subtotal      float64              `json:"subtotal"`
	Discount      float64              `json:"discount"`
	Promo         *models.AppliedPromo `json:"promo,omitempty"`
	FinalAmount   float64              `json:"finalAmount"`
	WalletBalance float64              `json:"walletBalance"`
	WalletUsed    float64              `json:"walletUsed"`
	AmountToPay   float64              `json:"amountToPay"`
	AmountMinor   int64                `json:"amountMinor"`
	Currency      string               `json:"currency"`
}

type SettleResult struct {
	Booking  *models.Booking          `json:"booking"`
	Intent   *models.SettlementIntent `json:"intent"`
	Replayed bool                     `json:"replayed"`
}

// Quote prices the session's selection without moving any money.
func (s *DefaultBookingService) Quote(ctx context.Context, userID string, req CheckoutRequest) (*Quote, error) {
	w, err := s.Sessions.Load(ctx, userID, req.SessionID)
	if err != nil {
		return nil, err
	}
	return s.quote(ctx, userID, w, req)
}

func (s *DefaultBookingService) quote(ctx context.Context, userID string, w *wizard.Wizard, req CheckoutRequest) (*Quote, error) {
	if w.Selection().Len() == 0 {
		s.Logger.Error("checkout reached with an empty service selection",
			zap.String("sessionID", req.SessionID),
			zap.String("userID", userID))
		return nil, NewSettlementError(CodeInternal, "no services selected")
	}
	if err := w.Ready(); err != nil {
		return nil, err
	}

	summary := w.Summary()
	q := &Quote{
		Summary:  summary,
		Subtotal: summary.TotalPrice,
		Currency: s.Currency,
	}

	if code := strings.TrimSpace(req.PromoCode); code != "" {
		engine := promo.NewEngine(s.Promos, promo.WithExpiryEnforcement(s.EnforceExpiry), promo.WithClock(s.Now))
		if _, err := engine.Apply(code, q.Subtotal); err != nil {
			return nil, err
		}
		applied, _ := engine.Applied()
		q.Promo = &applied
		q.Discount = applied.Discount
	}
	q.FinalAmount = pricing.Round2(math.Max(0, q.Subtotal-q.Discount))

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	q.WalletBalance = user.Wallet.Balance
	q.WalletUsed = pricing.Round2(wallet.ComputeUsage(req.UseWallet, user.Wallet.Balance, q.FinalAmount))
	q.AmountToPay = pricing.Round2(math.Max(0, q.FinalAmount-q.WalletUsed))
	q.AmountMinor = pricing.ToMinorUnits(q.AmountToPay)
	return q, nil
}

// Settle turns a ready wizard session into a booking. A SettlementIntent is written
// before the gateway is called so a retry with the same key resumes instead of paying twice.
func (s *DefaultBookingService) Settle(ctx context.Context, userID string, req SettleRequest) (*SettleResult, error) {
	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		return nil, NewSettlementError(CodeInvalidRequest, "idempotency key is required")
	}

	existing, err := s.Settlements.GetIntent(ctx, key)
	switch {
	case err == nil:
		if existing.UserID != userID {
			return nil, NewSettlementError(CodeInvalidRequest, "idempotency key already used")
		}
		s.Logger.Info("resuming settlement", zap.String("intentID", key), zap.String("status", string(existing.Status)))
		return s.settle(ctx, existing, req.PaymentMethodID)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to load settlement intent: %w", err)
	}

	w, err := s.Sessions.Load(ctx, userID, req.SessionID)
	if err != nil {
		return nil, err
	}

	payAtSalon := req.Method == models.PaymentMethodPayAtSalon
	if payAtSalon {
		req.UseWallet = false
	}
	q, err := s.quote(ctx, userID, w, req.CheckoutRequest)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.VerifySlot(ctx, w); err != nil {
		return nil, err
	}
	if err := s.checkBookingLimit(ctx, userID); err != nil {
		return nil, err
	}

	method := models.PaymentMethodCard
	switch {
	case payAtSalon:
		method = models.PaymentMethodPayAtSalon
	case q.AmountMinor == 0:
		method = models.PaymentMethodWallet
	case req.PaymentMethodID == "":
		return nil, NewSettlementError(CodeInvalidRequest, "a payment method is required")
	}

	now := s.Now()
	draft := s.draftBooking(userID, w, q, method)
	draft.IntentID = key
	intent := &models.SettlementIntent{
		ID:              key,
		UserID:          userID,
		SessionID:       req.SessionID,
		BookingID:       draft.ID,
		SalonID:         draft.SalonID,
		Subtotal:        q.Subtotal,
		Discount:        q.Discount,
		FinalAmount:     q.FinalAmount,
		WalletUsed:      q.WalletUsed,
		AmountToPay:     q.AmountToPay,
		AmountMinor:     q.AmountMinor,
		Currency:        q.Currency,
		Method:          method,
		PaymentMethodID: req.PaymentMethodID,
		Status:          models.IntentCreated,
		Booking:         draft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if q.Promo != nil {
		intent.PromoCode = q.Promo.Code
	}
	if payAtSalon {
		intent.AmountToPay, intent.AmountMinor = 0, 0
	}

	if err := s.Settlements.CreateIntent(ctx, intent); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			// concurrent submit with the same key
			existing, gerr := s.Settlements.GetIntent(ctx, key)
			if gerr != nil {
				return nil, fmt.Errorf("failed to load settlement intent: %w", gerr)
			}
			return s.settle(ctx, existing, req.PaymentMethodID)
		}
		return nil, fmt.Errorf("failed to record settlement intent: %w", err)
	}
	return s.settle(ctx, intent, req.PaymentMethodID)
}

// settle resumes the intent and hands a charged but uncommitted intent to the reconcile task.
func (s *DefaultBookingService) settle(ctx context.Context, intent *models.SettlementIntent, paymentMethodID string) (*SettleResult, error) {
	res, err := s.resume(ctx, intent, paymentMethodID)
	if err != nil && intent.Status == models.IntentPaid {
		if qerr := s.Tasks.EnqueueReconcile(ctx, intent.ID); qerr != nil {
			s.Logger.Error("failed to enqueue settlement reconcile", zap.String("intentID", intent.ID), zap.Error(qerr))
		}
	}
	return res, err
}

func (s *DefaultBookingService) resume(ctx context.Context, intent *models.SettlementIntent, paymentMethodID string) (*SettleResult, error) {
	switch intent.Status {
	case models.IntentCommitted:
		b, err := s.Bookings.GetByID(ctx, intent.BookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to load settled booking: %w", err)
		}
		return &SettleResult{Booking: b, Intent: intent, Replayed: true}, nil
	case models.IntentReversed:
		return nil, NewSettlementError(CodeInsufficientBalance, "wallet balance changed during checkout; the payment was refunded")
	case models.IntentCreated, models.IntentFailed:
		// after an unconfirmed charge the same key must replay the same request
		if paymentMethodID != "" && intent.Status == models.IntentFailed {
			intent.PaymentMethodID = paymentMethodID
		}
		if err := s.charge(ctx, intent); err != nil {
			return nil, err
		}
	}
	return s.commit(ctx, intent)
}

// charge collects AmountMinor from the gateway and moves the intent to paid.
func (s *DefaultBookingService) charge(ctx context.Context, intent *models.SettlementIntent) error {
	if intent.AmountMinor > 0 {
		res, err := s.Gateway.Charge(ctx, models.PaymentRequest{
			UserID:          intent.UserID,
			AmountMinor:     intent.AmountMinor,
			Currency:        intent.Currency,
			PaymentMethodID: intent.PaymentMethodID,
			Idempotency:     fmt.Sprintf("%s-%d", intent.ID, intent.Attempts),
			Description:     "Salon booking " + intent.BookingID,
			Metadata: map[string]string{
				"intentId":  intent.ID,
				"bookingId": intent.BookingID,
				"userId":    intent.UserID,
			},
		})
		if err != nil {
			return s.chargeFailed(ctx, intent, err)
		}
		intent.TransactionID = res.TransactionID
	}

	intent.Status = models.IntentPaid
	intent.Error = ""
	intent.UpdatedAt = s.Now()
	if err := s.Settlements.UpdateIntent(ctx, intent); err != nil {
		// commit marks the intent committed itself
		s.Logger.Warn("failed to mark intent paid", zap.String("intentID", intent.ID), zap.Error(err))
	}
	return nil
}

// chargeFailed records a gateway error. Only a decline moves to a new gateway
// idempotency key; any other error leaves the intent created so a retry or the
// webhook resolves the original charge.
func (s *DefaultBookingService) chargeFailed(ctx context.Context, intent *models.SettlementIntent, err error) error {
	var pe *payment.PaymentError
	declined := errors.As(err, &pe)
	if declined {
		intent.Attempts++
		intent.Status = models.IntentFailed
	}
	intent.Error = err.Error()
	intent.UpdatedAt = s.Now()
	if uerr := s.Settlements.UpdateIntent(ctx, intent); uerr != nil {
		s.Logger.Error("failed to record payment failure", zap.String("intentID", intent.ID), zap.Error(uerr))
	}
	s.Logger.Warn("booking payment failed",
		zap.String("intentID", intent.ID),
		zap.Int64("amountMinor", intent.AmountMinor),
		zap.Bool("declined", declined),
		zap.Error(err))
	if !declined {
		return NewSettlementError(CodePaymentFailed, "payment could not be confirmed; retry with the same idempotency key")
	}
	return NewSettlementError(CodePaymentFailed, pe.Message)
}

// commit materialises the booking for a paid intent.
func (s *DefaultBookingService) commit(ctx context.Context, intent *models.SettlementIntent) (*SettleResult, error) {
	if intent.Booking == nil {
		return nil, NewSettlementError(CodeInternal, "settlement intent has no booking draft")
	}
	b := *intent.Booking
	b.Payment.TransactionID = intent.TransactionID
	b.UpdatedAt = s.Now()

	err := s.Settlements.CommitSettlement(ctx, intent, &b)
	if errors.Is(err, models.ErrInsufficientBalance) {
		return nil, s.reverse(ctx, intent)
	}
	if err != nil {
		s.Logger.Error("settlement commit failed",
			zap.String("intentID", intent.ID),
			zap.String("bookingID", b.ID),
			zap.Error(err))
		return nil, NewSettlementError(CodeInternal, "payment received; the booking will be confirmed shortly")
	}

	intent.Status = models.IntentCommitted
	s.Logger.Info("booking settled",
		zap.String("bookingID", b.ID),
		zap.String("intentID", intent.ID),
		zap.String("method", b.Payment.Method),
		zap.Float64("finalAmount", b.FinalAmount),
		zap.Float64("walletUsed", b.WalletUsed),
		zap.Float64("amountCharged", b.AmountCharged))
	s.afterSettle(ctx, intent, &b)
	return &SettleResult{Booking: &b, Intent: intent}, nil
}

// reverse runs when the wallet can no longer cover its share after the charge.
func (s *DefaultBookingService) reverse(ctx context.Context, intent *models.SettlementIntent) error {
	intent.UpdatedAt = s.Now()
	if intent.TransactionID == "" {
		intent.Status = models.IntentFailed
		intent.Error = models.ErrInsufficientBalance.Error()
		if err := s.Settlements.UpdateIntent(ctx, intent); err != nil {
			s.Logger.Error("failed to record failed settlement", zap.String("intentID", intent.ID), zap.Error(err))
		}
		return NewSettlementError(CodeInsufficientBalance, "wallet balance is no longer sufficient")
	}

	if _, err := s.Gateway.Refund(ctx, intent.TransactionID, intent.AmountMinor); err != nil {
		s.Logger.Error("failed to refund charge after wallet shortfall",
			zap.String("intentID", intent.ID),
			zap.String("transactionID", intent.TransactionID),
			zap.Error(err))
		return NewSettlementError(CodeInternal, "wallet balance changed during checkout; the refund is being processed")
	}

	intent.Status = models.IntentReversed
	intent.Error = models.ErrInsufficientBalance.Error()
	if err := s.Settlements.UpdateIntent(ctx, intent); err != nil {
		s.Logger.Error("failed to record reversed settlement", zap.String("intentID", intent.ID), zap.Error(err))
	}
	return NewSettlementError(CodeInsufficientBalance, "wallet balance changed during checkout; the payment was refunded")
}

func (s *DefaultBookingService) afterSettle(ctx context.Context, intent *models.SettlementIntent, b *models.Booking) {
	if intent.SessionID != "" {
		if err := s.Sessions.Discard(ctx, intent.SessionID); err != nil {
			s.Logger.Warn("failed to discard booking session", zap.String("sessionID", intent.SessionID), zap.Error(err))
		}
	}

	title, body := "Booking confirmed", fmt.Sprintf("%s on %s at %s is confirmed.", b.SalonName, b.Date, b.Time)
	if b.Status == models.StatusPending {
		title, body = "Booking requested", fmt.Sprintf("%s will confirm your %s %s appointment.", b.SalonName, b.Date, b.Time)
	}
	s.notify(ctx, b.UserID, title, body, b)
	if salon, err := s.Salons.GetByID(ctx, b.SalonID); err == nil {
		s.notify(ctx, salon.OwnerID, "New booking", fmt.Sprintf("New booking on %s at %s.", b.Date, b.Time), b)
	}
	s.scheduleReminder(ctx, b)
}

func (s *DefaultBookingService) checkBookingLimit(ctx context.Context, userID string) error {
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load platform settings: %w", err)
	}
	limit := settings.Platform.MaxBookingsPerUser
	if limit <= 0 {
		return nil
	}
	active, err := s.Bookings.CountActiveByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count active bookings: %w", err)
	}
	if active >= int64(limit) {
		return NewSettlementError(CodeLimitReached, fmt.Sprintf("you already have %d active bookings", active))
	}
	return nil
}

func (s *DefaultBookingService) draftBooking(userID string, w *wizard.Wizard, q *Quote, method string) *models.Booking {
	sess := w.Session()
	salon := w.Salon()
	staff, _ := w.SelectedStaff()
	now := s.Now()

	b := &models.Booking{
		ID:              uuid.New().String(),
		UserID:          userID,
		SalonID:         salon.ID,
		SalonName:       salon.Name,
		Services:        append([]models.ServiceItem(nil), sess.Services...),
		StaffID:         staff.ID,
		StaffName:       staff.Name,
		Date:            sess.Date,
		Time:            sess.Time,
		Duration:        q.Summary.TotalDuration,
		SpecialRequests: sess.SpecialRequests,
		Status:          models.StatusConfirmed,
		Payment:         models.PaymentRecord{Method: method, Status: models.PaymentStatusPaid},
		Promo:           q.Promo,
		Subtotal:        q.Subtotal,
		FinalAmount:     q.FinalAmount,
		WalletUsed:      q.WalletUsed,
		AmountCharged:   q.AmountToPay,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if method == models.PaymentMethodPayAtSalon {
		b.Status = models.StatusPending
		b.Payment.Status = models.PaymentStatusUnpaid
		b.WalletUsed = 0
		b.AmountCharged = 0
	}
	return b
}
