package routes

import (
	"net/http"

	"caterbook/handlers"
	"caterbook/middleware"
	"caterbook/models"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the wizard and lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	api.Use(middleware.AuthMiddleware())
	{
		// Wizard. Drafts live in the session store until commit.
		api.POST("/drafts", middleware.RequireRole(models.RoleCustomer), handlers.StartBookingDraft)
		api.PUT("/drafts/:draftID/date", handlers.SetBookingDraftDate)
		api.PUT("/drafts/:draftID/details", handlers.SetBookingDraftDetails)
		api.POST("/drafts/:draftID/commit", handlers.CommitBookingDraft)

		api.GET("", handlers.ListMyBookings)
		api.GET("/:bookingID", handlers.GetBooking)
		api.GET("/:bookingID/history", handlers.GetBookingHistory)

		api.POST("/:bookingID/submit", handlers.SubmitBooking)
		api.POST("/:bookingID/accept", middleware.RequireRole(models.RoleCaterer, models.RoleAdmin), handlers.AcceptBooking)
		api.POST("/:bookingID/reject", middleware.RequireRole(models.RoleCaterer, models.RoleAdmin), handlers.RejectBooking)
		api.POST("/:bookingID/cancel", handlers.CancelBooking)

		// Quotation engine.
		api.POST("/:bookingID/quotation", handlers.CreateQuotation)
		api.GET("/:bookingID/quotation", handlers.GetQuotation)
		api.POST("/:bookingID/quotation/send", middleware.RequireRole(models.RoleCaterer, models.RoleAdmin), handlers.SendQuotation)
		api.POST("/:bookingID/quotation/sign", handlers.SignQuotation)

		// Identity verification against a booking.
		api.POST("/:bookingID/verification/document", handlers.UploadVerificationDocument)
		api.POST("/:bookingID/verification/selfie", handlers.UploadVerificationSelfie)
		api.POST("/:bookingID/verification/match", handlers.RequestVerificationMatch)
		api.GET("/:bookingID/verification/attempts", handlers.GetVerificationAttempts)
	}
}

// RegisterVerificationRoutes registers the per-user verification status and
// history endpoints.
func RegisterVerificationRoutes(r *gin.Engine) {
	api := r.Group("/api/verification")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/status", handlers.GetVerificationStatus)
		api.GET("/attempts", handlers.GetVerificationHistory)
	}
}

// RegisterAvailabilityRoutes registers the caterer calendar endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine) {
	api := r.Group("/api/caterers/:catererID/availability")
	{
		api.GET("", handlers.CheckAvailability)
		api.GET("/blocked", handlers.ListBlockedDates)
		api.PUT("", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleCaterer, models.RoleAdmin), handlers.SetAvailability)
	}
}

// RegisterAdminRoutes registers operator-only endpoints.
func RegisterAdminRoutes(r *gin.Engine) {
	api := r.Group("/api/admin")
	api.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		api.POST("/bookings/:bookingID/flag", handlers.FlagBooking)
	}
}

// RegisterWebhookRoutes registers gateway callbacks. These authenticate by
// gateway signature upstream, not by bearer token.
func RegisterWebhookRoutes(r *gin.Engine) {
	api := r.Group("/api/webhooks")
	{
		api.POST("/payment", handlers.PaymentWebhook)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Caterbook"})
	})
}
