package booking

import (
	"context"
	"time"

	"caterbook/models"
	"caterbook/services/notification"

	"go.uber.org/zap"
)

// SweepExpired expires draft and pending bookings whose payment deadline
// has passed. Each booking is handled independently; one failure never
// stalls the rest of the sweep. Returns the number of bookings expired.
func (s *DefaultBookingService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.Repo.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range overdue {
		b := &overdue[i]
		ok, err := s.Repo.TransitionStatus(ctx, b.ID,
			[]string{models.BookingStatusDraft, models.BookingStatusPending},
			models.BookingStatusExpired)
		if err != nil {
			zap.L().Error("failed to expire booking",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		if !ok {
			// Paid or cancelled between the listing and the update.
			continue
		}
		expired++
		s.journal(ctx, b.ID, models.BookingStatusExpired, "Booking expired due to non-payment")
		b.Status = models.BookingStatusExpired
		s.Notifier.NotifyBookingEvent(ctx, notification.EventBookingExpired, b)
	}

	if expired > 0 {
		zap.L().Info("expiration sweep finished",
			zap.Int("candidates", len(overdue)),
			zap.Int("expired", expired))
	}
	return expired, nil
}

// CompleteElapsed closes out confirmed bookings whose event date has passed.
func (s *DefaultBookingService) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	today := now.UTC().Format(dateLayout)
	elapsed, err := s.Repo.ListElapsedConfirmed(ctx, today)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range elapsed {
		b := &elapsed[i]
		ok, err := s.Repo.TransitionStatus(ctx, b.ID,
			[]string{models.BookingStatusConfirmed}, models.BookingStatusCompleted)
		if err != nil {
			zap.L().Error("failed to complete booking",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		completed++
		s.journal(ctx, b.ID, models.BookingStatusCompleted, "Event date passed, booking completed")
		b.Status = models.BookingStatusCompleted
		s.Notifier.NotifyBookingEvent(ctx, notification.EventBookingCompleted, b)
	}

	if completed > 0 {
		zap.L().Info("completion sweep finished", zap.Int("completed", completed))
	}
	return completed, nil
}
