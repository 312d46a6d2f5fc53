package models

import "time"

// PaymentRequest is what the orchestrator hands to the payment gateway.
type PaymentRequest struct {
	UserID          string
	AmountMinor     int64 // minor currency units (paise, cents)
	Currency        string
	PaymentMethodID string
	Idempotency     string
	Description     string
	Metadata        map[string]string
}

// PaymentResult is the gateway's success report.
type PaymentResult struct {
	TransactionID string
	Status        string
	AmountMinor   int64
	Currency      string
}

// SettlementIntent is written before any money moves so a checkout can be retried
// or reconciled without double charging or double debiting.
type SettlementIntent struct {
	ID              string       `bson:"id" json:"id"`
	UserID          string       `bson:"userId" json:"userId"`
	SessionID       string       `bson:"sessionId" json:"sessionId"`
	BookingID       string       `bson:"bookingId" json:"bookingId"`
	SalonID         string       `bson:"salonId" json:"salonId"`
	Subtotal        float64      `bson:"subtotal" json:"subtotal"`
	Discount        float64      `bson:"discount" json:"discount"`
	PromoCode       string       `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
	FinalAmount     float64      `bson:"finalAmount" json:"finalAmount"`
	WalletUsed      float64      `bson:"walletUsed" json:"walletUsed"`
	AmountToPay     float64      `bson:"amountToPay" json:"amountToPay"`
	AmountMinor     int64        `bson:"amountMinor" json:"amountMinor"`
	Currency        string       `bson:"currency" json:"currency"`
	Method          string       `bson:"method" json:"method"`
	PaymentMethodID string       `bson:"paymentMethodId,omitempty" json:"-"`
	Status          IntentStatus `bson:"status" json:"status"`
	TransactionID   string       `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Error           string       `bson:"error,omitempty" json:"error,omitempty"`
	Booking         *Booking     `bson:"booking,omitempty" json:"-"` // draft materialised on commit
	Attempts        int          `bson:"attempts" json:"attempts"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time    `bson:"updatedAt" json:"updatedAt"`
}

type IntentStatus string

const (
	IntentCreated   IntentStatus = "created"
	IntentPaid      IntentStatus = "paid"
	IntentCommitted IntentStatus = "committed"
	IntentFailed    IntentStatus = "failed"
	IntentReversed  IntentStatus = "reversed"
)
