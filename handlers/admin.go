package handlers

import (
	"net/http"

	"salonbook/models"
	"salonbook/services/admin"
	"salonbook/services/booking"
	"salonbook/services/salon"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Admin    admin.AdminService
	Salons   salon.SalonService
	Bookings booking.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc admin.AdminService, salons salon.SalonService, bookings booking.BookingService) *AdminHandler {
	return &AdminHandler{
		Admin:    adminSvc,
		Salons:   salons,
		Bookings: bookings,
	}
}

func (ah *AdminHandler) GetSettingsHandler(c *gin.Context) {
	s, err := ah.Admin.Settings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateSettingsHandler replaces the platform settings document.
func (ah *AdminHandler) UpdateSettingsHandler(c *gin.Context) {
	var req models.PlatformSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := ah.Admin.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("settings changed by admin", zap.String("adminID", session(c).UserID))
	c.JSON(http.StatusOK, s)
}

func (ah *AdminHandler) ListPlansHandler(c *gin.Context) {
	plans, err := ah.Admin.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (ah *AdminHandler) CreatePlanHandler(c *gin.Context) {
	var req models.SubscriptionPlan
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := ah.Admin.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (ah *AdminHandler) UpdatePlanHandler(c *gin.Context) {
	var req models.SubscriptionPlan
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := ah.Admin.UpdatePlan(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ah *AdminHandler) DeletePlanHandler(c *gin.Context) {
	if err := ah.Admin.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAllUsersHandler returns customer and admin accounts, ?role= optional.
func (ah *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	var q struct {
		Role string `form:"role" binding:"omitempty,role"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	users, err := ah.Admin.ListUsers(c.Request.Context(), models.Role(q.Role), queryLimit(c, 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ah *AdminHandler) SetUserActiveHandler(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ah.Admin.SetUserActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": *req.Active})
}

// GetAllOwnersHandler returns salon owner accounts without credentials.
func (ah *AdminHandler) GetAllOwnersHandler(c *gin.Context) {
	owners, err := ah.Admin.ListOwners(c.Request.Context(), queryLimit(c, 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owners)
}

func (ah *AdminHandler) SetOwnerApprovalHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ah.Admin.SetOwnerApproval(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "approvalStatus": req.Status})
}

// GetAllSalonsHandler includes inactive salons.
func (ah *AdminHandler) GetAllSalonsHandler(c *gin.Context) {
	salons, err := ah.Salons.ListAll(c.Request.Context(), queryLimit(c, 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, salons)
}

func (ah *AdminHandler) SetSalonActiveHandler(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ah.Salons.SetActive(c.Request.Context(), session(c), c.Param("id"), *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": *req.Active})
}

func (ah *AdminHandler) GetAllBookingsHandler(c *gin.Context) {
	status, ok := statusQuery(c)
	if !ok {
		return
	}
	bookings, err := ah.Bookings.ListAll(c.Request.Context(), status, queryLimit(c, 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (ah *AdminHandler) DeleteBookingHandler(c *gin.Context) {
	if err := ah.Bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
