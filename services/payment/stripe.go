package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// StripeGateway charges cards through Stripe PaymentIntents. stripe.Key must be set.
type StripeGateway struct {
	logger  *zap.Logger
	timeout time.Duration
}

func NewStripeGateway(logger *zap.Logger, timeout time.Duration) *StripeGateway {
	return &StripeGateway{logger: logger, timeout: timeout}
}

func (g *StripeGateway) Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, NewPaymentError("invalid_request", err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.AmountMinor),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx
	if req.Idempotency != "" {
		params.SetIdempotencyKey(req.Idempotency)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		g.logger.Warn("stripe charge failed", zap.String("userID", req.UserID), zap.Error(err))
		return nil, translateStripeError(err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		g.logger.Warn("stripe payment not completed",
			zap.String("paymentIntent", pi.ID),
			zap.String("status", string(pi.Status)))
		return nil, NewPaymentError("payment_"+string(pi.Status), "payment was not completed")
	}

	g.logger.Info("card payment successful",
		zap.String("paymentIntent", pi.ID),
		zap.Int64("amountMinor", pi.Amount))
	return &models.PaymentResult{
		TransactionID: pi.ID,
		Status:        string(pi.Status),
		AmountMinor:   pi.Amount,
		Currency:      string(pi.Currency),
	}, nil
}

// Refund refunds a payment intent. amountMinor <= 0 refunds the full charge.
func (g *StripeGateway) Refund(ctx context.Context, transactionID string, amountMinor int64) (string, error) {
	if transactionID == "" {
		return "", errors.New("missing transaction reference")
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.RefundParams{PaymentIntent: stripe.String(transactionID)}
	if amountMinor > 0 {
		params.Amount = stripe.Int64(amountMinor)
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return "", translateStripeError(err)
	}
	g.logger.Info("refund issued", zap.String("paymentIntent", transactionID), zap.String("refund", r.ID))
	return r.ID, nil
}

func translateStripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		code := string(se.Code)
		if code == "" {
			code = string(se.Type)
		}
		return &PaymentError{Code: code, Message: se.Msg}
	}
	return fmt.Errorf("payment gateway unavailable: %w", err)
}
