package handlers

import (
	"net/http"

	"caterbook/middleware"
	"caterbook/utils"

	"github.com/gin-gonic/gin"
)

// FlagBooking marks a booking for fraud review. Operator only.
func FlagBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		FlagType    string `json:"flag_type" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	booking, err := BookingService.Flag(c.Request.Context(), principal, c.Param("bookingID"), input.FlagType, input.Description)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
