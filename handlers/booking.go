package handlers

import (
	"net/http"

	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/services/promo"
	"salonbook/services/wizard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler drives the booking wizard, checkout and persisted bookings.
type BookingHandler struct {
	Sessions wizard.SessionService
	Bookings booking.BookingService
	Promos   *promo.Registry
}

func NewBookingHandler(sessions wizard.SessionService, bookings booking.BookingService, promos *promo.Registry) *BookingHandler {
	return &BookingHandler{Sessions: sessions, Bookings: bookings, Promos: promos}
}

// StartSession opens a wizard for a salon.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var req struct {
		SalonID string `json:"salonId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.Sessions.Start(c.Request.Context(), session(c).UserID, req.SalonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *BookingHandler) GetSession(c *gin.Context) {
	h.respondView(c)(h.Sessions.Get(c.Request.Context(), session(c).UserID, c.Param("sessionID")))
}

// ToggleService adds the service if absent, removes it otherwise.
func (h *BookingHandler) ToggleService(c *gin.Context) {
	var req struct {
		ServiceID string `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respondView(c)(h.Sessions.ToggleService(c.Request.Context(), session(c).UserID, c.Param("sessionID"), req.ServiceID))
}

func (h *BookingHandler) SelectStaff(c *gin.Context) {
	var req struct {
		StaffID string `json:"staffId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respondView(c)(h.Sessions.SelectStaff(c.Request.Context(), session(c).UserID, c.Param("sessionID"), req.StaffID))
}

func (h *BookingHandler) SelectDate(c *gin.Context) {
	var req struct {
		Date string `json:"date" binding:"required,isodate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respondView(c)(h.Sessions.SelectDate(c.Request.Context(), session(c).UserID, c.Param("sessionID"), req.Date))
}

func (h *BookingHandler) SelectTime(c *gin.Context) {
	var req struct {
		Time string `json:"time" binding:"required,hhmm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respondView(c)(h.Sessions.SelectTime(c.Request.Context(), session(c).UserID, c.Param("sessionID"), req.Time))
}

func (h *BookingHandler) SetSpecialRequests(c *gin.Context) {
	var req struct {
		SpecialRequests string `json:"specialRequests" binding:"max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respondView(c)(h.Sessions.SetSpecialRequests(c.Request.Context(), session(c).UserID, c.Param("sessionID"), req.SpecialRequests))
}

func (h *BookingHandler) NextStep(c *gin.Context) {
	h.respondView(c)(h.Sessions.Next(c.Request.Context(), session(c).UserID, c.Param("sessionID")))
}

func (h *BookingHandler) PreviousStep(c *gin.Context) {
	h.respondView(c)(h.Sessions.Back(c.Request.Context(), session(c).UserID, c.Param("sessionID")))
}

// Slots returns the time grid for ?date= and the session's staff and services.
func (h *BookingHandler) Slots(c *gin.Context) {
	var q struct {
		Date string `form:"date" binding:"required,isodate"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	slots, err := h.Sessions.Slots(c.Request.Context(), session(c).UserID, c.Param("sessionID"), q.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": q.Date, "slots": slots})
}

// CancelSession drops the wizard without booking.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")
	if _, err := h.Sessions.Load(ctx, session(c).UserID, sessionID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Sessions.Discard(ctx, sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) respondView(c *gin.Context) func(*wizard.View, error) {
	return func(view *wizard.View, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// ListPromos shows the codes customers may enter at checkout.
func (h *BookingHandler) ListPromos(c *gin.Context) {
	c.JSON(http.StatusOK, h.Promos.List())
}

func (h *BookingHandler) Quote(c *gin.Context) {
	var req booking.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	q, err := h.Bookings.Quote(c.Request.Context(), session(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Settle charges and records the booking. An Idempotency-Key header fills a missing body key.
func (h *BookingHandler) Settle(c *gin.Context) {
	var req booking.SettleRequest
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess := session(c)
	res, err := h.Bookings.Settle(c.Request.Context(), sess.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	getLogger(c).Info("checkout settled",
		zap.String("userID", sess.UserID),
		zap.String("bookingID", res.Booking.ID),
		zap.Bool("replayed", res.Replayed))
	c.JSON(status, res)
}

// ListMyBookings returns the caller's bookings, newest first.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	bookings, err := h.Bookings.ListMine(c.Request.Context(), session(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Bookings.Get(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateStatus moves a booking along its lifecycle. version is the one the client last read.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status  models.BookingStatus `json:"status" binding:"required"`
		Version int64                `json:"version" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.Transition(c.Request.Context(), session(c), c.Param("id"), req.Status, req.Version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
