package routes

import (
	"time"

	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-up, sign-in and account endpoints.
// Maintenance mode is not applied here so admins can still sign in.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		api.Use(middleware.JWTAuth(hb.Authenticator))
		api.POST("/logout", hb.Auth.LogoutHandler)
		api.GET("/me", hb.Auth.MeHandler)
		api.PUT("/me", hb.Auth.UpdateProfileHandler)
		api.PUT("/fcm-token", hb.Auth.UpdateFCMTokenHandler)
	}
}

// RegisterSalonRoutes registers the public catalogue.
func RegisterSalonRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	salons := r.Group("/api/salons")
	{
		salons.Use(middleware.Maintenance(hb.Settings))
		salons.GET("", hb.Salons.ListSalonsHandler)
		salons.GET("/:id", hb.Salons.GetSalonHandler)
		salons.GET("/:id/staff", hb.Salons.StaffHandler)
	}
}

// RegisterBookingRoutes sets up the wizard, checkout and booking endpoints for customers.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	customer := []gin.HandlerFunc{
		middleware.JWTAuth(hb.Authenticator),
		middleware.Maintenance(hb.Settings),
		middleware.RequireRole(models.RoleUser),
	}

	wizard := r.Group("/api/booking", customer...)
	{
		wizard.POST("/session", hb.Booking.StartSession)
		wizard.GET("/session/:sessionID", hb.Booking.GetSession)
		wizard.DELETE("/session/:sessionID", hb.Booking.CancelSession)
		wizard.POST("/session/:sessionID/services", hb.Booking.ToggleService)
		wizard.PUT("/session/:sessionID/staff", hb.Booking.SelectStaff)
		wizard.PUT("/session/:sessionID/date", hb.Booking.SelectDate)
		wizard.PUT("/session/:sessionID/time", hb.Booking.SelectTime)
		wizard.PUT("/session/:sessionID/requests", hb.Booking.SetSpecialRequests)
		wizard.GET("/session/:sessionID/slots", hb.Booking.Slots)
		wizard.POST("/session/:sessionID/next", hb.Booking.NextStep)
		wizard.POST("/session/:sessionID/back", hb.Booking.PreviousStep)
	}

	checkout := r.Group("/api/checkout", customer...)
	{
		checkout.GET("/promos", hb.Booking.ListPromos)
		checkout.POST("/quote", hb.Booking.Quote)
		checkout.POST("/settle", hb.Booking.Settle)
	}

	// any signed-in role; the service decides who may see or move a booking
	bookings := r.Group("/api/bookings", middleware.JWTAuth(hb.Authenticator), middleware.Maintenance(hb.Settings))
	{
		bookings.GET("", middleware.RequireRole(models.RoleUser), hb.Booking.ListMyBookings)
		bookings.GET("/:id", hb.Booking.GetBooking)
		bookings.PATCH("/:id/status", hb.Booking.UpdateStatus)
	}
}

func RegisterWalletRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	wallet := r.Group("/api/wallet")
	{
		wallet.Use(middleware.JWTAuth(hb.Authenticator), middleware.Maintenance(hb.Settings), middleware.RequireRole(models.RoleUser))
		wallet.GET("", hb.Wallet.BalanceHandler)
		wallet.GET("/transactions", hb.Wallet.TransactionsHandler)
		wallet.POST("/recharge", hb.Wallet.RechargeHandler)
	}
}

// RegisterOwnerRoutes sets up the salon owner dashboard.
func RegisterOwnerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	owner := r.Group("/api/owner")
	{
		owner.Use(middleware.JWTAuth(hb.Authenticator), middleware.Maintenance(hb.Settings), middleware.RequireRole(models.RoleSalonOwner))
		owner.GET("/salons", hb.Owner.ListSalonsHandler)
		owner.POST("/salons", hb.Owner.CreateSalonHandler)
		owner.PUT("/salons/:id", hb.Owner.UpdateSalonHandler)
		owner.PATCH("/salons/:id/active", hb.Owner.SetSalonActiveHandler)
		owner.POST("/salons/:id/images", hb.Owner.UploadImageHandler)
		owner.DELETE("/salons/:id/images/:publicId", hb.Owner.DeleteImageHandler)
		owner.GET("/bookings", hb.Owner.ListBookingsHandler)
		owner.GET("/earnings", hb.Owner.EarningsHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuth(hb.Authenticator), middleware.RequireRole(models.RoleAdmin))
		adminGroup.GET("/settings", hb.Admin.GetSettingsHandler)
		adminGroup.PUT("/settings", hb.Admin.UpdateSettingsHandler)

		adminGroup.GET("/plans", hb.Admin.ListPlansHandler)
		adminGroup.POST("/plans", hb.Admin.CreatePlanHandler)
		adminGroup.PUT("/plans/:id", hb.Admin.UpdatePlanHandler)
		adminGroup.DELETE("/plans/:id", hb.Admin.DeletePlanHandler)

		adminGroup.GET("/users", hb.Admin.GetAllUsersHandler)
		adminGroup.PATCH("/users/:id/active", hb.Admin.SetUserActiveHandler)
		adminGroup.GET("/owners", hb.Admin.GetAllOwnersHandler)
		adminGroup.PATCH("/owners/:id/approval", hb.Admin.SetOwnerApprovalHandler)

		adminGroup.GET("/salons", hb.Admin.GetAllSalonsHandler)
		adminGroup.PATCH("/salons/:id/active", hb.Admin.SetSalonActiveHandler)

		adminGroup.GET("/bookings", hb.Admin.GetAllBookingsHandler)
		adminGroup.DELETE("/bookings/:id", hb.Admin.DeleteBookingHandler)
	}
}

// RegisterPaymentRoutes exposes the gateway webhook. It authenticates by signature, not JWT.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/webhook", hb.Payments.WebhookHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes is the entry point that registers all route groups.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.RatePerMinute))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterSalonRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterWalletRoutes(r, hb)
	RegisterOwnerRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
