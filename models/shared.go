package models

// ReminderPayload is the body of an appointment reminder task.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate"`
}

// RefundPayload is the body of a refund processing task.
type RefundPayload struct {
	RefundID string `json:"refundId"`
}

// ReconcilePayload is the body of a settlement reconcile task.
type ReconcilePayload struct {
	IntentID string `json:"intentId"`
}

// RechargePayload is the body of a wallet recharge completion task.
type RechargePayload struct {
	RechargeID string `json:"rechargeId"`
}
