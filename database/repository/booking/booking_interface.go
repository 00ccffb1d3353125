package bookingRepo

import (
	"context"
	"time"

	"caterbook/models"
)

// BookingRepository defines data access for bookings, their history journal
// and operator fraud flags.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListByCaterer(ctx context.Context, catererID string) ([]models.Booking, error)

	// TransitionStatus moves the booking to the target status only if its
	// current status is one of from. Returns false when the guard did not
	// match; callers treat that as losing a race, not as an error.
	TransitionStatus(ctx context.Context, id string, from []string, to string) (bool, error)

	// MarkPaid transitions to confirmed and records the payment in one
	// conditional update, guarded by the from statuses.
	MarkPaid(ctx context.Context, id string, from []string, method string) (bool, error)

	// ConfirmWithDateLock transitions pending -> confirmed and claims the
	// caterer+date in the availability ledger inside one transaction. The
	// unique (caterer_id, date) index is the serialization point: the
	// second writer for the same date fails with a Conflict.
	ConfirmWithDateLock(ctx context.Context, booking *models.Booking) (bool, error)

	// ReleaseDateLock frees the availability claim held by the booking,
	// used when a confirmed booking is cancelled.
	ReleaseDateLock(ctx context.Context, bookingID string) error

	SetExpiresAt(ctx context.Context, id string, at time.Time) error
	SetPricing(ctx context.Context, id string, totalAmount, reservationFee string) error
	SetFlagged(ctx context.Context, id string, flagged bool) error

	// ListOverdue returns draft/pending bookings whose deadline passed.
	ListOverdue(ctx context.Context, now time.Time) ([]models.Booking, error)
	// ListElapsedConfirmed returns confirmed bookings whose event date is
	// strictly before the given date ("2006-01-02").
	ListElapsedConfirmed(ctx context.Context, beforeDate string) ([]models.Booking, error)

	AppendHistory(ctx context.Context, entry *models.BookingHistory) error
	History(ctx context.Context, bookingID string) ([]models.BookingHistory, error)

	AddFraudFlag(ctx context.Context, flag *models.FraudFlag) error
	FraudFlags(ctx context.Context, bookingID string) ([]models.FraudFlag, error)
}
