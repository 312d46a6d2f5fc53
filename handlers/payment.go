package handlers

import (
	"io"
	"net/http"

	"salonbook/services/booking"
	"salonbook/services/payment"
	"salonbook/services/wallet"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

// PaymentHandler receives gateway webhooks.
type PaymentHandler struct {
	Bookings      booking.BookingService
	Wallet        wallet.WalletService
	WebhookSecret string
}

func NewPaymentHandler(bookings booking.BookingService, walletSvc wallet.WalletService, secret string) *PaymentHandler {
	return &PaymentHandler{Bookings: bookings, Wallet: walletSvc, WebhookSecret: secret}
}

// WebhookHandler verifies the Stripe signature and settles the matching settlement or
// recharge intent. Unrelated event types are acknowledged and ignored.
func (h *PaymentHandler) WebhookHandler(c *gin.Context) {
	logger := getLogger(c)
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Could not read webhook body", err.Error())
		return
	}

	ev, err := payment.ParseWebhook(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		logger.Warn("rejected payment webhook", zap.Error(err))
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalid_signature", "Invalid webhook signature", "")
		return
	}
	if ev == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if ev.RechargeID != "" {
		err = h.Wallet.HandlePaymentEvent(c.Request.Context(), ev)
	} else {
		err = h.Bookings.HandlePaymentEvent(c.Request.Context(), ev)
	}
	if err != nil {
		logger.Error("failed to apply payment webhook",
			zap.String("type", ev.Type),
			zap.String("intentID", ev.IntentID),
			zap.String("rechargeID", ev.RechargeID),
			zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Webhook processing failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
