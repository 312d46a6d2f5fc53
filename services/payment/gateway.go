package payment

import (
	"context"
	"errors"
	"fmt"

	"salonbook/models"
)

// Gateway is the external payment collaborator. A *PaymentError is a definite decline;
// any other error leaves the outcome unknown.
type Gateway interface {
	Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
	Refund(ctx context.Context, transactionID string, amountMinor int64) (string, error)
}

// PaymentError is a failure reported by the gateway itself (declines, dismissals).
type PaymentError struct {
	Code    string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewPaymentError(code, msg string) error {
	return &PaymentError{Code: code, Message: msg}
}

// CodeAlreadyRefunded is Stripe's code for a refund of a charge with nothing left to refund.
const CodeAlreadyRefunded = "charge_already_refunded"

// IsAlreadyRefunded reports whether a refund failed only because it already happened.
func IsAlreadyRefunded(err error) bool {
	var pe *PaymentError
	return errors.As(err, &pe) && pe.Code == CodeAlreadyRefunded
}

// ValidateRequest rejects requests that must never reach the gateway.
func ValidateRequest(req models.PaymentRequest) error {
	if req.AmountMinor <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.UserID == "" {
		return errors.New("missing user ID")
	}
	if req.Currency == "" {
		return errors.New("missing currency")
	}
	if req.PaymentMethodID == "" {
		return errors.New("missing payment method")
	}
	return nil
}
