package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"salonbook/models"
	"salonbook/services/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type tokenTable map[string]*auth.Session

func (t tokenTable) Authenticate(_ context.Context, token string) (*auth.Session, error) {
	if token == "disabled" {
		return nil, auth.ErrAccountDisabled
	}
	if s, ok := t[token]; ok {
		return s, nil
	}
	return nil, auth.ErrUnauthorized
}

type maintenanceFlag bool

func (m maintenanceFlag) Get(context.Context) (*models.PlatformSettings, error) {
	s := models.DefaultPlatformSettings()
	s.Platform.MaintenanceMode = bool(m)
	return &s, nil
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, sess.UserID)
	})
	r.GET("/x", handlers...)
	return r
}

func get(r http.Handler, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var tokens = tokenTable{
	"cust":  {UserID: "u1", Role: models.RoleUser},
	"owner": {UserID: "o1", Role: models.RoleSalonOwner},
	"admin": {UserID: "a1", Role: models.RoleAdmin},
}

func TestJWTAuth(t *testing.T) {
	r := newRouter(JWTAuth(tokens))

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "forged").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "disabled").Code)

	w := get(r, "cust")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := newRouter(JWTAuth(tokens), RequireRole(models.RoleSalonOwner, models.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, get(r, "cust").Code)
	assert.Equal(t, http.StatusOK, get(r, "owner").Code)
	assert.Equal(t, http.StatusOK, get(r, "admin").Code)

	bare := newRouter(RequireRole(models.RoleUser))
	assert.Equal(t, http.StatusUnauthorized, get(bare, "").Code)
}

func TestMaintenance(t *testing.T) {
	on := newRouter(JWTAuth(tokens), Maintenance(maintenanceFlag(true)))
	assert.Equal(t, http.StatusServiceUnavailable, get(on, "cust").Code)
	assert.Equal(t, http.StatusOK, get(on, "admin").Code)

	public := newRouter(Maintenance(maintenanceFlag(true)))
	assert.Equal(t, http.StatusServiceUnavailable, get(public, "").Code)

	off := newRouter(JWTAuth(tokens), Maintenance(maintenanceFlag(false)))
	assert.Equal(t, http.StatusOK, get(off, "cust").Code)
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimitMiddleware(2))

	assert.Equal(t, http.StatusOK, get(r, "", "X-Forwarded-For", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, get(r, "", "X-Forwarded-For", "10.0.0.1, 172.16.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "", "X-Forwarded-For", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, get(r, "", "X-Forwarded-For", "10.0.0.2").Code)
}
