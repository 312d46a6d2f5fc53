package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/admin"
	"salonbook/services/auth"
	"salonbook/services/booking"
	"salonbook/services/promo"
	"salonbook/services/salon"
	"salonbook/services/wallet"
	"salonbook/services/wizard"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeBookings implements only what a test sets; anything else panics on the nil embed.
type fakeBookings struct {
	booking.BookingService
	settle     func(userID string, req booking.SettleRequest) (*booking.SettleResult, error)
	transition func(id string, target models.BookingStatus, version int64) (*models.Booking, error)
	lastSettle booking.SettleRequest
}

func (f *fakeBookings) Settle(_ context.Context, userID string, req booking.SettleRequest) (*booking.SettleResult, error) {
	f.lastSettle = req
	return f.settle(userID, req)
}

func (f *fakeBookings) Transition(_ context.Context, _ *auth.Session, id string, target models.BookingStatus, version int64) (*models.Booking, error) {
	return f.transition(id, target, version)
}

type fakeSessions struct {
	wizard.SessionService
	views map[string]*wizard.View
}

func (f *fakeSessions) Get(_ context.Context, userID, sessionID string) (*wizard.View, error) {
	v, ok := f.views[sessionID]
	if !ok || v.Session.UserID != userID {
		return nil, wizard.ErrSessionNotFound
	}
	return v, nil
}

func serve(t *testing.T, method, path string, body any, sess *auth.Session, register func(r *gin.Engine), headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sess != nil {
			middleware.SetSession(c, sess)
		}
		c.Next()
	})
	register(r)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"payment failed", booking.NewSettlementError(booking.CodePaymentFailed, "card declined"), http.StatusPaymentRequired, "payment_failed"},
		{"insufficient balance", booking.NewSettlementError(booking.CodeInsufficientBalance, "low"), http.StatusPaymentRequired, "insufficient_balance"},
		{"limit reached", booking.NewSettlementError(booking.CodeLimitReached, "too many"), http.StatusUnprocessableEntity, "limit_reached"},
		{"settlement internal", booking.NewSettlementError(booking.CodeInternal, "no services"), http.StatusInternalServerError, "internal"},
		{"transition", &booking.TransitionError{From: models.StatusCompleted, To: models.StatusPending, Reason: "transition not allowed"}, http.StatusUnprocessableEntity, "invalid_transition"},
		{"stage", &wizard.StageError{Stage: wizard.StageServices, Reason: "select at least one service"}, http.StatusUnprocessableEntity, "invalid_step"},
		{"salon validation", &salon.ValidationError{Problems: []string{"name is required"}}, http.StatusBadRequest, "invalid_salon"},
		{"promo", promo.ErrInvalidCode, http.StatusUnprocessableEntity, "invalid_promo"},
		{"wrapped version conflict", errors.Join(errors.New("update"), models.ErrVersionConflict), http.StatusConflict, "version_conflict"},
		{"not found", models.ErrNotFound, http.StatusNotFound, "not_found"},
		{"session gone", wizard.ErrSessionNotFound, http.StatusNotFound, "not_found"},
		{"forbidden", booking.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"bad login", auth.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"email taken", auth.ErrEmailTaken, http.StatusConflict, "conflict"},
		{"closed salon", wizard.ErrSalonClosed, http.StatusConflict, "salon_closed"},
		{"recharge key reused", wallet.ErrKeyReused, http.StatusBadRequest, "invalid_request"},
		{"recharge unconfirmed", fmt.Errorf("%w: timeout", wallet.ErrPaymentUnconfirmed), http.StatusBadGateway, "payment_unconfirmed"},
		{"unknown", errors.New("mongo exploded"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(t, http.MethodGet, "/x", nil, nil, func(r *gin.Engine) {
				r.GET("/x", func(c *gin.Context) { respondError(c, tc.err) })
			})
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}
}

func TestSettleStatusCodes(t *testing.T) {
	customer := &auth.Session{UserID: "u1", Role: models.RoleUser}
	fb := &fakeBookings{}
	h := NewBookingHandler(nil, fb, promo.DefaultRegistry())
	register := func(r *gin.Engine) { r.POST("/settle", h.Settle) }
	body := map[string]any{"sessionId": "s1", "method": "card", "paymentMethodId": "pm_card_visa", "idempotencyKey": "k1"}

	fb.settle = func(userID string, req booking.SettleRequest) (*booking.SettleResult, error) {
		assert.Equal(t, "u1", userID)
		return &booking.SettleResult{Booking: &models.Booking{ID: "b1"}}, nil
	}
	w := serve(t, http.MethodPost, "/settle", body, customer, register)
	assert.Equal(t, http.StatusCreated, w.Code)

	fb.settle = func(string, booking.SettleRequest) (*booking.SettleResult, error) {
		return &booking.SettleResult{Booking: &models.Booking{ID: "b1"}, Replayed: true}, nil
	}
	w = serve(t, http.MethodPost, "/settle", body, customer, register)
	assert.Equal(t, http.StatusOK, w.Code)

	fb.settle = func(string, booking.SettleRequest) (*booking.SettleResult, error) {
		return nil, booking.NewSettlementError(booking.CodePaymentFailed, "Your card was declined.")
	}
	w = serve(t, http.MethodPost, "/settle", body, customer, register)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "Your card was declined.", decodeError(t, w).Message)
}

func TestSettleTakesIdempotencyKeyFromHeader(t *testing.T) {
	fb := &fakeBookings{settle: func(string, booking.SettleRequest) (*booking.SettleResult, error) {
		return &booking.SettleResult{Booking: &models.Booking{ID: "b1"}}, nil
	}}
	h := NewBookingHandler(nil, fb, promo.DefaultRegistry())
	body := map[string]any{"sessionId": "s1", "method": "pay_at_salon"}

	w := serve(t, http.MethodPost, "/settle", body, &auth.Session{UserID: "u1", Role: models.RoleUser},
		func(r *gin.Engine) { r.POST("/settle", h.Settle) }, "Idempotency-Key", "hdr-key")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "hdr-key", fb.lastSettle.IdempotencyKey)

	w = serve(t, http.MethodPost, "/settle", body, &auth.Session{UserID: "u1", Role: models.RoleUser},
		func(r *gin.Engine) { r.POST("/settle", h.Settle) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettleRejectsUnknownMethod(t *testing.T) {
	h := NewBookingHandler(nil, &fakeBookings{}, promo.DefaultRegistry())
	body := map[string]any{"sessionId": "s1", "method": "crypto", "idempotencyKey": "k"}
	w := serve(t, http.MethodPost, "/settle", body, &auth.Session{UserID: "u1", Role: models.RoleUser},
		func(r *gin.Engine) { r.POST("/settle", h.Settle) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusPassesVersion(t *testing.T) {
	fb := &fakeBookings{transition: func(id string, target models.BookingStatus, version int64) (*models.Booking, error) {
		if version != 3 {
			return nil, models.ErrVersionConflict
		}
		return &models.Booking{ID: id, Status: target, Version: version + 1}, nil
	}}
	h := NewBookingHandler(nil, fb, promo.DefaultRegistry())
	register := func(r *gin.Engine) { r.PATCH("/bookings/:id/status", h.UpdateStatus) }
	owner := &auth.Session{UserID: "o1", Role: models.RoleSalonOwner, SalonIDs: []string{"salon-1"}}

	w := serve(t, http.MethodPatch, "/bookings/b1/status", map[string]any{"status": "confirmed", "version": 3}, owner, register)
	require.Equal(t, http.StatusOK, w.Code)
	var b models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, models.StatusConfirmed, b.Status)
	assert.EqualValues(t, 4, b.Version)

	w = serve(t, http.MethodPatch, "/bookings/b1/status", map[string]any{"status": "confirmed", "version": 2}, owner, register)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSessionOfAnotherUserIsNotFound(t *testing.T) {
	sessions := &fakeSessions{views: map[string]*wizard.View{
		"s1": {Session: &models.BookingSession{SessionID: "s1", UserID: "u1"}, Stage: "services"},
	}}
	h := NewBookingHandler(sessions, &fakeBookings{}, promo.DefaultRegistry())
	register := func(r *gin.Engine) { r.GET("/session/:sessionID", h.GetSession) }

	w := serve(t, http.MethodGet, "/session/s1", nil, &auth.Session{UserID: "u1", Role: models.RoleUser}, register)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(t, http.MethodGet, "/session/s1", nil, &auth.Session{UserID: "u2", Role: models.RoleUser}, register)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPromos(t *testing.T) {
	h := NewBookingHandler(nil, &fakeBookings{}, promo.DefaultRegistry())
	w := serve(t, http.MethodGet, "/promos", nil, nil, func(r *gin.Engine) { r.GET("/promos", h.ListPromos) })
	require.Equal(t, http.StatusOK, w.Code)

	var codes []models.PromoCode
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &codes))
	assert.Len(t, codes, 3)
}

func TestQueryLimit(t *testing.T) {
	cases := map[string]int64{"": 100, "25": 25, "-4": 100, "abc": 100}
	for raw, want := range cases {
		w := serve(t, http.MethodGet, "/l?limit="+raw, nil, nil, func(r *gin.Engine) {
			r.GET("/l", func(c *gin.Context) { c.JSON(http.StatusOK, queryLimit(c, 100)) })
		})
		assert.Equal(t, want, mustInt(t, w), "limit=%q", raw)
	}
}

func mustInt(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	var n int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &n))
	return n
}

type fakeAdmin struct {
	admin.AdminService
	roles []models.Role
}

func (f *fakeAdmin) ListUsers(_ context.Context, role models.Role, _ int64) ([]models.User, error) {
	f.roles = append(f.roles, role)
	return []models.User{}, nil
}

func TestGetAllUsersValidatesRole(t *testing.T) {
	fa := &fakeAdmin{}
	ah := NewAdminHandler(fa, nil, nil)
	register := func(r *gin.Engine) { r.GET("/users", ah.GetAllUsersHandler) }

	for _, q := range []string{"", "?role=user", "?role=admin"} {
		w := serve(t, http.MethodGet, "/users"+q, nil, nil, register)
		assert.Equal(t, http.StatusOK, w.Code, q)
	}
	w := serve(t, http.MethodGet, "/users?role=superuser", nil, nil, register)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []models.Role{"", models.RoleUser, models.RoleAdmin}, fa.roles)
}
