package handlers

import (
	"net/http"

	"salonbook/models"
	"salonbook/services/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves sign-up, sign-in and the current account.
type AuthHandler struct {
	Auth auth.AuthService
}

func NewAuthHandler(svc auth.AuthService) *AuthHandler {
	return &AuthHandler{Auth: svc}
}

// RegisterHandler creates a customer or salon owner and signs them in.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("account registered", zap.String("id", resp.Session.UserID), zap.String("role", resp.Session.Role.String()))
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler revokes the bearer token until it would have expired anyway.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), session(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (h *AuthHandler) MeHandler(c *gin.Context) {
	sess := session(c)
	profile, err := h.Auth.Profile(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":      sess,
		"profile":      profile,
		"redirectPath": sess.RedirectPath(),
	})
}

// UpdateFCMTokenHandler stores the device token used for push notifications.
func (h *AuthHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Auth.UpdateFCMToken(c.Request.Context(), session(c), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated"})
}

// UpdateProfileHandler updates the authenticated customer's profile.
func (h *AuthHandler) UpdateProfileHandler(c *gin.Context) {
	var req models.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Auth.UpdateProfile(c.Request.Context(), session(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
