package handlers

import (
	"net/http"

	"caterbook/models"
	"caterbook/utils"

	"github.com/gin-gonic/gin"
)

// PaymentWebhook ingests payment gateway callbacks. The gateway retries on
// non-2xx, so every processed event answers 200 even when it is a no-op.
func PaymentWebhook(c *gin.Context) {
	var event models.PaymentWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}

	booking, err := BookingService.ProcessPaymentWebhook(c.Request.Context(), event)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking_id": booking.ID,
		"status":     booking.Status,
	})
}
