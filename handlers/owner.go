package handlers

import (
	"net/http"
	"time"

	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/services/salon"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// OwnerHandler serves the salon owner dashboard.
type OwnerHandler struct {
	Salons   salon.SalonService
	Bookings booking.BookingService
}

func NewOwnerHandler(salons salon.SalonService, bookings booking.BookingService) *OwnerHandler {
	return &OwnerHandler{Salons: salons, Bookings: bookings}
}

func (h *OwnerHandler) ListSalonsHandler(c *gin.Context) {
	salons, err := h.Salons.ListMine(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, salons)
}

func (h *OwnerHandler) CreateSalonHandler(c *gin.Context) {
	var req salon.SalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.Salons.Create(c.Request.Context(), session(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *OwnerHandler) UpdateSalonHandler(c *gin.Context) {
	var req salon.SalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.Salons.Update(c.Request.Context(), session(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// SetSalonActiveHandler opens or closes a salon for new bookings.
func (h *OwnerHandler) SetSalonActiveHandler(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Salons.SetActive(c.Request.Context(), session(c), c.Param("id"), *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": *req.Active})
}

// UploadImageHandler adds a multipart "file" to the salon gallery.
func (h *OwnerHandler) UploadImageHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		getLogger(c).Error("failed to open uploaded file", zap.Error(err))
		badRequest(c, err)
		return
	}
	defer file.Close()

	img, err := h.Salons.UploadImage(c.Request.Context(), session(c), c.Param("id"), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (h *OwnerHandler) DeleteImageHandler(c *gin.Context) {
	if err := h.Salons.DeleteImage(c.Request.Context(), session(c), c.Param("id"), c.Param("publicId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBookingsHandler lists bookings across the owner's salons, ?status= optional.
func (h *OwnerHandler) ListBookingsHandler(c *gin.Context) {
	status, ok := statusQuery(c)
	if !ok {
		return
	}
	bookings, err := h.Bookings.ListForOwner(c.Request.Context(), session(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// EarningsHandler reports completed bookings between ?from= and ?to= (YYYY-MM-DD, to inclusive).
// Without a range it covers the current calendar year to date.
func (h *OwnerHandler) EarningsHandler(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	to := now
	if raw := c.Query("from"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, now.Location())
		if err != nil {
			badRequest(c, err)
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, now.Location())
		if err != nil {
			badRequest(c, err)
			return
		}
		to = t.AddDate(0, 0, 1)
	}

	report, err := h.Salons.Earnings(c.Request.Context(), session(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// statusQuery parses ?status=; it answers 400 itself and returns false on a bad value.
func statusQuery(c *gin.Context) (models.BookingStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return "", true
	}
	status, err := models.ParseBookingStatus(raw)
	if err != nil {
		badRequest(c, err)
		return "", false
	}
	return status, true
}
