package booking

import (
	"context"

	"caterbook/models"
	"caterbook/services/notification"
	"caterbook/utils"

	"go.uber.org/zap"
)

// ProcessPaymentWebhook ingests a payment gateway callback. A success
// confirms the booking; a failure is journaled but changes nothing. Events
// that arrive after the booking reached a terminal status are no-ops, which
// makes gateway retries safe.
func (s *DefaultBookingService) ProcessPaymentWebhook(ctx context.Context, event models.PaymentWebhookEvent) (*models.Booking, error) {
	if event.BookingID == "" {
		return nil, utils.NewValidationError("payment event has no booking id")
	}
	if event.Status != models.PaymentEventSuccess && event.Status != models.PaymentEventFailed {
		return nil, utils.NewValidationError("unknown payment status %q", event.Status)
	}

	b, err := s.mustGet(ctx, event.BookingID)
	if err != nil {
		return nil, err
	}
	if b.IsTerminal() {
		zap.L().Info("payment event for settled booking ignored",
			zap.String("bookingID", b.ID),
			zap.String("status", b.Status),
			zap.String("event", event.Status))
		return b, nil
	}

	if event.Status == models.PaymentEventFailed {
		s.journal(ctx, b.ID, b.Status, "Payment failed via "+event.Method)
		s.Notifier.NotifyBookingEvent(ctx, notification.EventPaymentFailed, b)
		return b, nil
	}

	// A fraud hold blocks payment confirmation the same way it blocks a
	// caterer accept. The payment is journaled, not applied; once the hold
	// is lifted the gateway's retry lands normally.
	if b.Flagged {
		s.journal(ctx, b.ID, b.Status, "Payment via "+event.Method+" held for fraud review")
		zap.L().Warn("payment held for flagged booking",
			zap.String("bookingID", b.ID),
			zap.String("method", event.Method))
		return b, nil
	}

	ok, err := s.Repo.MarkPaid(ctx, b.ID,
		[]string{models.BookingStatusDraft, models.BookingStatusPending, models.BookingStatusConfirmed},
		event.Method)
	if err != nil {
		return nil, err
	}
	b, err = s.mustGet(ctx, event.BookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Raced with the sweeper or another transition; the booking's
		// current state is the answer.
		return b, nil
	}

	s.journal(ctx, b.ID, b.Status, "Payment received via "+event.Method)
	s.Notifier.NotifyBookingEvent(ctx, notification.EventPaymentReceived, b)
	zap.L().Info("payment recorded",
		zap.String("bookingID", b.ID),
		zap.String("method", event.Method),
		zap.String("status", b.Status))
	return b, nil
}
