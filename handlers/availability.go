package handlers

import (
	"net/http"

	"caterbook/middleware"
	"caterbook/utils"

	"github.com/gin-gonic/gin"
)

// SetAvailability blocks or reopens a date on the caterer's calendar.
func SetAvailability(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		Date      string `json:"date" binding:"required"`
		Available *bool  `json:"available" binding:"required"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	err := AvailabilityService.SetAvailability(c.Request.Context(), principal, c.Param("catererID"), input.Date, *input.Available, input.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "availability updated"})
}

// CheckAvailability reports whether a caterer's date is open.
func CheckAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date query parameter is required")
		return
	}

	blocked, reason, err := AvailabilityService.IsBlocked(c.Request.Context(), c.Param("catererID"), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	resp := gin.H{"date": date, "available": !blocked}
	if blocked {
		resp["reason"] = reason
	}
	c.JSON(http.StatusOK, resp)
}

// ListBlockedDates returns the caterer's blocked calendar entries.
func ListBlockedDates(c *gin.Context) {
	entries, err := AvailabilityService.ListBlocked(c.Request.Context(), c.Param("catererID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": entries})
}
