package middleware

import (
	"context"
	"net/http"

	"salonbook/models"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SettingsReader interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
}

// Maintenance answers 503 while maintenance mode is on, except for admins.
// Place it after JWTAuth on authenticated groups so admins are recognised.
func Maintenance(settings SettingsReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := settings.Get(c.Request.Context())
		if err != nil {
			utils.GetLogger().Warn("maintenance check skipped", zap.Error(err))
			c.Next()
			return
		}
		if s.Platform.MaintenanceMode {
			if sess := SessionFrom(c); sess != nil && sess.IsAdmin() {
				c.Next()
				return
			}
			utils.JSONErrorCode(c, http.StatusServiceUnavailable, "maintenance", "Platform is under maintenance", "Please try again later.")
			return
		}
		c.Next()
	}
}
