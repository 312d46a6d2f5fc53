package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"salonbook/handlers"
	"salonbook/models"
	"salonbook/services/admin"
	"salonbook/services/auth"
	"salonbook/services/salon"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type tokens map[string]*auth.Session

func (t tokens) Authenticate(_ context.Context, token string) (*auth.Session, error) {
	if s, ok := t[token]; ok {
		return s, nil
	}
	return nil, auth.ErrUnauthorized
}

type settingsStub struct{ maintenance bool }

func (s *settingsStub) Get(context.Context) (*models.PlatformSettings, error) {
	ps := models.DefaultPlatformSettings()
	ps.Platform.MaintenanceMode = s.maintenance
	return &ps, nil
}

type adminStub struct {
	admin.AdminService
	settings *settingsStub
}

func (a *adminStub) Settings(ctx context.Context) (*models.PlatformSettings, error) {
	return a.settings.Get(ctx)
}

type salonStub struct {
	salon.SalonService
}

func (salonStub) ListPublic(context.Context, string) ([]models.Salon, error) {
	return []models.Salon{{ID: "salon-1", Name: "Glow", IsActive: true}}, nil
}

func newTestRouter(settings *settingsStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	hb := &handlers.HandlerBundle{
		Authenticator: tokens{
			"customer": {UserID: "u1", Role: models.RoleUser},
			"owner":    {UserID: "o1", Role: models.RoleSalonOwner},
			"admin":    {UserID: "a1", Role: models.RoleAdmin},
		},
		Settings:      settings,
		RatePerMinute: 1000,
		Auth:          handlers.NewAuthHandler(nil),
		Salons:        handlers.NewSalonHandler(salonStub{}),
		Booking:       handlers.NewBookingHandler(nil, nil, nil),
		Wallet:        handlers.NewWalletHandler(nil, "INR"),
		Owner:         handlers.NewOwnerHandler(nil, nil),
		Admin:         handlers.NewAdminHandler(&adminStub{settings: settings}, nil, nil),
		Payments:      handlers.NewPaymentHandler(nil, nil, "whsec_test"),
	}
	r := gin.New()
	RegisterRoutes(r, hb)
	return r
}

func call(r http.Handler, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRoleGuards(t *testing.T) {
	r := newTestRouter(&settingsStub{})

	cases := []struct {
		method, path, token string
		want                int
	}{
		{http.MethodGet, "/api/admin/settings", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/settings", "bogus", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/settings", "customer", http.StatusForbidden},
		{http.MethodGet, "/api/admin/settings", "owner", http.StatusForbidden},
		{http.MethodGet, "/api/admin/settings", "admin", http.StatusOK},
		{http.MethodGet, "/api/owner/salons", "customer", http.StatusForbidden},
		{http.MethodGet, "/api/wallet", "owner", http.StatusForbidden},
		{http.MethodPost, "/api/checkout/settle", "admin", http.StatusForbidden},
		{http.MethodGet, "/api/salons", "", http.StatusOK},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, call(r, tc.method, tc.path, tc.token), "%s %s as %q", tc.method, tc.path, tc.token)
	}
}

func TestMaintenanceModeSparesAdmins(t *testing.T) {
	r := newTestRouter(&settingsStub{maintenance: true})

	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodGet, "/api/salons", ""))
	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodGet, "/api/wallet", "customer"))
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/admin/settings", "admin"))
}

func TestHealthDegradedBeforeFirstProbe(t *testing.T) {
	r := newTestRouter(&settingsStub{})
	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodGet, "/health", ""))
}

func TestWebhookRejectsUnsignedPayload(t *testing.T) {
	r := newTestRouter(&settingsStub{})
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/payments/webhook", ""))
}
