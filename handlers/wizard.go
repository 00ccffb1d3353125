package handlers

import (
	"net/http"

	"caterbook/middleware"
	"caterbook/utils"

	"github.com/gin-gonic/gin"
)

// StartBookingDraft opens a new booking wizard against a caterer.
func StartBookingDraft(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		CatererID    string   `json:"caterer_id" binding:"required"`
		PackageID    string   `json:"package_id"`
		AddonItemIDs []string `json:"addon_item_ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	draft, err := BookingService.StartDraft(c.Request.Context(), principal, input.CatererID, input.PackageID, input.AddonItemIDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// SetBookingDraftDate records the event date, time and guest count.
func SetBookingDraftDate(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		EventDate  string `json:"event_date" binding:"required"`
		EventTime  string `json:"event_time"`
		GuestCount int    `json:"guest_count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	draft, err := BookingService.SetDraftDate(c.Request.Context(), principal, c.Param("draftID"), input.EventDate, input.EventTime, input.GuestCount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SetBookingDraftDetails records the event name, type and venue.
func SetBookingDraftDetails(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		EventName       string `json:"event_name" binding:"required"`
		EventType       string `json:"event_type"`
		VenueAddress    string `json:"venue_address" binding:"required"`
		SpecialRequests string `json:"special_requests"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	draft, err := BookingService.SetDraftDetails(c.Request.Context(), principal, c.Param("draftID"), input.EventName, input.EventType, input.VenueAddress, input.SpecialRequests)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// CommitBookingDraft turns the reviewed draft into a persisted booking.
func CommitBookingDraft(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	booking, err := BookingService.CommitDraft(c.Request.Context(), principal, c.Param("draftID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}
