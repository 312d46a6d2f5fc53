package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// WebhookEvent is the subset of a gateway event used to reconcile settlements.
type WebhookEvent struct {
	Type          string
	IntentID      string // settlement intent id from metadata
	RechargeID    string // wallet recharge id from metadata
	TransactionID string
	Succeeded     bool
	FailureReason string
}

// ParseWebhook verifies the Stripe-Signature header and extracts the payment outcome.
// Events that are not payment outcomes return a nil event and no error.
func ParseWebhook(payload []byte, signature, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, secret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	eventType := string(event.Type)
	if eventType != EventPaymentSucceeded && eventType != EventPaymentFailed {
		return nil, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}

	ev := &WebhookEvent{
		Type:          eventType,
		IntentID:      pi.Metadata["intentId"],
		RechargeID:    pi.Metadata["rechargeId"],
		TransactionID: pi.ID,
		Succeeded:     eventType == EventPaymentSucceeded,
	}
	if pi.LastPaymentError != nil {
		ev.FailureReason = pi.LastPaymentError.Msg
	}
	return ev, nil
}
