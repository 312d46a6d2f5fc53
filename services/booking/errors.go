package booking

import (
	"errors"
	"fmt"

	"salonbook/models"
)

var (
	ErrNotFound        = models.ErrNotFound
	ErrVersionConflict = models.ErrVersionConflict
	ErrForbidden       = errors.New("not allowed to access this booking")
)

const (
	CodeInternal            = "internal"
	CodeInvalidRequest      = "invalid_request"
	CodePaymentFailed       = "payment_failed"
	CodeInsufficientBalance = "insufficient_balance"
	CodeLimitReached        = "limit_reached"
)

// SettlementError is returned by checkout when a booking cannot be settled.
type SettlementError struct {
	Code    string
	Message string
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewSettlementError(code, msg string) error {
	return &SettlementError{
		Code:    code,
		Message: msg,
	}
}

// TransitionError rejects a status change that the lifecycle table or the actor's role forbids.
type TransitionError struct {
	From   models.BookingStatus
	To     models.BookingStatus
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move booking from %s to %s: %s", e.From, e.To, e.Reason)
}
