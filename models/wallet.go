package models

import "time"

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

const (
	SourceBooking  = "booking"
	SourceRecharge = "recharge"
	SourceRefund   = "refund"
	SourceCashback = "cashback"
)

// WalletTransaction is one ledger row. BalanceAfter is the balance once it applied.
type WalletTransaction struct {
	ID           string          `bson:"id" json:"id"`
	UserID       string          `bson:"userId" json:"userId"`
	Type         TransactionType `bson:"type" json:"type"`
	Source       string          `bson:"source" json:"source"`
	Amount       float64         `bson:"amount" json:"amount"`
	BalanceAfter float64         `bson:"balanceAfter" json:"balanceAfter"`
	Reference    string          `bson:"reference,omitempty" json:"reference,omitempty"`
	Description  string          `bson:"description" json:"description"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
}

// RechargeIntent is written before a wallet top-up is charged. Its ID is the client's
// idempotency key; a retry, the webhook or the sweep finishes the credit from it.
type RechargeIntent struct {
	ID              string       `bson:"id" json:"id"`
	UserID          string       `bson:"userId" json:"userId"`
	Amount          float64      `bson:"amount" json:"amount"`
	AmountMinor     int64        `bson:"amountMinor" json:"amountMinor"`
	Currency        string       `bson:"currency" json:"currency"`
	PaymentMethodID string       `bson:"paymentMethodId" json:"-"`
	Status          IntentStatus `bson:"status" json:"status"`
	TransactionID   string       `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	BalanceAfter    float64      `bson:"balanceAfter" json:"balanceAfter"`
	Error           string       `bson:"error,omitempty" json:"error,omitempty"`
	Attempts        int          `bson:"attempts" json:"attempts"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time    `bson:"updatedAt" json:"updatedAt"`
}
