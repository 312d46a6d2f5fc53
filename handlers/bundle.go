package handlers

import (
	"net/http"

	"salonbook/middleware"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers plus what the router needs to guard them.
type HandlerBundle struct {
	Authenticator middleware.Authenticator
	Settings      middleware.SettingsReader
	RatePerMinute int

	Auth     *AuthHandler
	Salons   *SalonHandler
	Booking  *BookingHandler
	Wallet   *WalletHandler
	Owner    *OwnerHandler
	Admin    *AdminHandler
	Payments *PaymentHandler
}

// HealthHandler reports the last dependency probe. Unhealthy answers 503.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "dependencies": status})
}
