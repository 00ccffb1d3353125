package handlers

import (
	"net/http"

	"caterbook/middleware"
	"caterbook/utils"

	"github.com/gin-gonic/gin"
)

// CreateQuotation prices a booking and arms its payment deadline. Calling
// it again returns the stored quotation unchanged.
func CreateQuotation(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		DownpaymentPercent int `json:"downpayment_percent"`
	}
	_ = c.ShouldBindJSON(&input) // defaults apply when omitted

	quotation, err := QuotationService.CreateOrFetch(c.Request.Context(), principal, c.Param("bookingID"), input.DownpaymentPercent)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}

// SendQuotation marks the quotation as delivered to the customer.
func SendQuotation(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	quotation, err := QuotationService.Send(c.Request.Context(), principal, c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}

// SignQuotation records the customer's acceptance of the quotation.
func SignQuotation(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var input struct {
		ContractURL string `json:"contract_url"`
	}
	_ = c.ShouldBindJSON(&input)

	quotation, err := QuotationService.Sign(c.Request.Context(), principal, c.Param("bookingID"), input.ContractURL)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}

// GetQuotation returns the booking's quotation.
func GetQuotation(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	quotation, err := QuotationService.GetByBooking(c.Request.Context(), principal, c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}
