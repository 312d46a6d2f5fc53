package handlers

import (
	"net/http"

	"salonbook/services/wallet"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	Wallet   wallet.WalletService
	Currency string
}

func NewWalletHandler(svc wallet.WalletService, currency string) *WalletHandler {
	return &WalletHandler{Wallet: svc, Currency: currency}
}

func (h *WalletHandler) BalanceHandler(c *gin.Context) {
	balance, err := h.Wallet.Balance(c.Request.Context(), session(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance, "currency": h.Currency})
}

// TransactionsHandler lists wallet movements, newest first, ?limit= up to 100.
func (h *WalletHandler) TransactionsHandler(c *gin.Context) {
	txs, err := h.Wallet.History(c.Request.Context(), session(c).UserID, queryLimit(c, 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// RechargeHandler charges the card and credits the wallet with the same amount. The
// Idempotency-Key header stands in for a missing idempotencyKey.
func (h *WalletHandler) RechargeHandler(c *gin.Context) {
	var req wallet.RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}
	res, err := h.Wallet.Recharge(c.Request.Context(), session(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, res)
}
