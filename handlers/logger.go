package handlers

import (
	"strconv"

	"salonbook/middleware"
	"salonbook/services/auth"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger if one was set, else the process logger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// session returns the authenticated principal. Routes using it sit behind JWTAuth.
func session(c *gin.Context) *auth.Session {
	return middleware.SessionFrom(c)
}

// queryLimit reads ?limit=, falling back to def on absence or garbage.
func queryLimit(c *gin.Context, def int64) int64 {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
