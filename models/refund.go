package models

import "time"

// Refund is created when a paid booking is cancelled.
type Refund struct {
	ID              string     `bson:"id" json:"id"`
	BookingID       string     `bson:"bookingId" json:"bookingId"`
	UserID          string     `bson:"userId" json:"userId"`
	Amount          float64    `bson:"amount" json:"amount"`
	WalletAmount    float64    `bson:"walletAmount" json:"walletAmount"`
	GatewayAmount   float64    `bson:"gatewayAmount" json:"gatewayAmount"`
	TransactionID   string     `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	WalletRefunded  bool       `bson:"walletRefunded" json:"walletRefunded"`
	GatewayRefundID string     `bson:"gatewayRefundId,omitempty" json:"gatewayRefundId,omitempty"`
	Status          string     `bson:"status" json:"status"`
	Error           string     `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	ProcessedAt     *time.Time `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}

const (
	RefundPending   = "pending"
	RefundProcessed = "processed"
	RefundFailed    = "failed"
)
