package models

import "time"

// Booking is a persisted appointment. Services is a snapshot taken at settlement.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	UserID          string        `bson:"userId" json:"userId"`
	SalonID         string        `bson:"salonId" json:"salonId"`
	SalonName       string        `bson:"salonName" json:"salonName"`
	Services        []ServiceItem `bson:"services" json:"services"`
	StaffID         string        `bson:"staffId" json:"staffId"`
	StaffName       string        `bson:"staffName" json:"staffName"`
	Date            string        `bson:"date" json:"date"` // YYYY-MM-DD
	Time            string        `bson:"time" json:"time"` // HH:MM
	Duration        int           `bson:"duration" json:"duration"`
	SpecialRequests string        `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	Status          BookingStatus `bson:"status" json:"status"`
	Payment         PaymentRecord `bson:"payment" json:"payment"`
	Promo           *AppliedPromo `bson:"promo,omitempty" json:"promo,omitempty"`
	Subtotal        float64       `bson:"subtotal" json:"subtotal"`
	FinalAmount     float64       `bson:"finalAmount" json:"finalAmount"`
	WalletUsed      float64       `bson:"walletUsed" json:"walletUsed"`
	AmountCharged   float64       `bson:"amountCharged" json:"amountCharged"`
	IntentID        string        `bson:"intentId,omitempty" json:"intentId,omitempty"`
	Version         int64         `bson:"version" json:"version"`
	CancelledBy     string        `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelledAt     *time.Time    `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PaymentRecord describes how a booking was paid.
type PaymentRecord struct {
	Method        string `bson:"method" json:"method"` // wallet, card, pay_at_salon
	TransactionID string `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Status        string `bson:"status" json:"status"` // paid, unpaid, refunded
}

const (
	PaymentMethodWallet     = "wallet"
	PaymentMethodCard       = "card"
	PaymentMethodPayAtSalon = "pay_at_salon"

	PaymentStatusPaid     = "paid"
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusRefunded = "refunded"
)

type AppliedPromo struct {
	Code     string  `bson:"code" json:"code"`
	Discount float64 `bson:"discount" json:"discount"`
}

// StartMinute returns the appointment start as minutes from midnight.
func (b *Booking) StartMinute() (int, error) {
	return ParseClock(b.Time)
}

// Active bookings hold their slot.
func (b *Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
