package handlers

import (
	"net/http"
	"strings"

	"salonbook/services/salon"

	"github.com/gin-gonic/gin"
)

// SalonHandler serves the public catalogue.
type SalonHandler struct {
	Salons salon.SalonService
}

func NewSalonHandler(svc salon.SalonService) *SalonHandler {
	return &SalonHandler{Salons: svc}
}

// ListSalonsHandler lists active salons, optionally narrowed by ?city=.
func (h *SalonHandler) ListSalonsHandler(c *gin.Context) {
	salons, err := h.Salons.ListPublic(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, salons)
}

func (h *SalonHandler) GetSalonHandler(c *gin.Context) {
	s, err := h.Salons.Get(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// StaffHandler lists staff able to perform every service in ?services=a,b.
func (h *SalonHandler) StaffHandler(c *gin.Context) {
	var ids []string
	for _, id := range strings.Split(c.Query("services"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	staff, err := h.Salons.Staff(c.Request.Context(), c.Param("id"), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}
