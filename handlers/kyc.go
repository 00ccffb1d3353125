package handlers

import (
	"net/http"

	"caterbook/middleware"
	"caterbook/utils"

	"github.com/gin-gonic/gin"
)

// UploadVerificationDocument runs the ID document step of the identity
// check. Re-uploading restarts the whole sequence.
func UploadVerificationDocument(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		DocumentURL string `json:"document_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	record, err := VerificationGate.UploadDocument(c.Request.Context(), principal, c.Param("bookingID"), input.DocumentURL)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UploadVerificationSelfie runs the liveness step of the identity check.
func UploadVerificationSelfie(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		SelfieURL string `json:"selfie_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	record, err := VerificationGate.UploadSelfie(c.Request.Context(), principal, c.Param("bookingID"), input.SelfieURL)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// RequestVerificationMatch schedules the face match. The response carries a
// processing attempt the client can poll via the status endpoint.
func RequestVerificationMatch(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	record, err := VerificationGate.RequestMatch(c.Request.Context(), principal, c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, record)
}

// GetVerificationStatus returns the caller's identity verification record.
func GetVerificationStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	record, err := VerificationGate.Status(c.Request.Context(), principal.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetVerificationHistory returns the caller's verification attempts across
// all bookings.
func GetVerificationHistory(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	attempts, err := VerificationGate.AttemptHistory(c.Request.Context(), principal)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

// GetVerificationAttempts returns the booking's verification audit trail.
func GetVerificationAttempts(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	attempts, err := VerificationGate.Attempts(c.Request.Context(), principal, c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
