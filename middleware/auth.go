package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"salonbook/services/auth"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session"

// Authenticator turns a bearer token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

// JWTAuth requires a valid, unrevoked bearer token and stores the session on the context.
func JWTAuth(authSvc Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header", "")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		sess, err := authSvc.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token", "")
			return
		case errors.Is(err, auth.ErrAccountDisabled):
			utils.JSONErrorCode(c, http.StatusForbidden, "forbidden", "Account is disabled", "")
			return
		case err != nil:
			utils.GetLogger().Error("session lookup failed", zap.Error(err))
			utils.JSONErrorCode(c, http.StatusInternalServerError, "internal", "Could not verify session", "")
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session stored by JWTAuth, or nil.
func SessionFrom(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}

// SetSession is used by tests and internal callers that authenticate differently.
func SetSession(c *gin.Context, sess *auth.Session) {
	c.Set(sessionKey, sess)
}
