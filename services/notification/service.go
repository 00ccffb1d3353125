package notification

import (
	"context"

	"caterbook/models"

	"go.uber.org/zap"
)

// Events emitted by the reservation engine. Delivery channels (push, email)
// hang off these; the engine itself never blocks on them.
const (
	EventBookingCreated   = "booking.created"
	EventBookingSubmitted = "booking.submitted"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingRejected  = "booking.rejected"
	EventBookingCancelled = "booking.cancelled"
	EventBookingExpired   = "booking.expired"
	EventBookingCompleted = "booking.completed"
	EventPaymentReceived  = "payment.received"
	EventPaymentFailed    = "payment.failed"
)

// Notifier fans booking lifecycle events out to interested parties.
// Implementations must be fire-and-forget: a delivery failure never fails
// the state transition that triggered it.
type Notifier interface {
	NotifyBookingEvent(ctx context.Context, event string, booking *models.Booking)
}

// LogNotifier records events to the structured log. It stands in for the
// push/email fan-out, which lives outside the reservation engine.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) NotifyBookingEvent(ctx context.Context, event string, booking *models.Booking) {
	if booking == nil {
		return
	}
	zap.L().Info("booking event",
		zap.String("event", event),
		zap.String("bookingID", booking.ID),
		zap.String("customerID", booking.CustomerID),
		zap.String("catererID", booking.CatererID),
		zap.String("status", booking.Status))
}
