package models

// Payment webhook outcomes reported by the gateway.
const (
	PaymentEventSuccess = "success"
	PaymentEventFailed  = "failed"
)

// PaymentWebhookEvent is the payload delivered by the payment gateway
// callback. The engine is the sole consumer of this shape.
type PaymentWebhookEvent struct {
	BookingID string `json:"booking_id" binding:"required"`
	Status    string `json:"status" binding:"required"` // success | failed
	Method    string `json:"method"`                    // GCash, Credit Card, etc.
}
