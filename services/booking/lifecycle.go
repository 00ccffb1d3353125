package booking

import (
	"context"
	"time"

	"caterbook/models"
	"caterbook/services/notification"
	"caterbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitForReview moves a draft booking into the caterer's review queue.
// Two gates stand in front of it: a quotation must exist (so the payment
// deadline is armed) and the customer's identity must be verified.
func (s *DefaultBookingService) SubmitForReview(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	b, err := s.visibleBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && actor.UserID != b.CustomerID {
		return nil, utils.NewForbidden("only the customer can submit a booking")
	}
	if b.Status == models.BookingStatusPending {
		return b, nil
	}
	if b.Status != models.BookingStatusDraft {
		return nil, utils.NewInvalidState("booking in status %q cannot be submitted", b.Status)
	}

	q, err := s.Quotations.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, utils.NewInvalidState("booking has no quotation yet")
	}
	record, err := s.Gate.Status(ctx, b.CustomerID)
	if err != nil {
		return nil, err
	}
	if record == nil || !record.Verified() {
		return nil, utils.NewInvalidState("identity verification is not complete")
	}

	ok, err := s.Repo.TransitionStatus(ctx, bookingID, []string{models.BookingStatusDraft}, models.BookingStatusPending)
	if err != nil {
		return nil, err
	}
	if ok {
		s.journal(ctx, bookingID, models.BookingStatusPending, "Booking submitted for caterer review")
	}
	b, err = s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyBookingEvent(ctx, notification.EventBookingSubmitted, b)
	return b, nil
}

// Accept confirms a pending booking and claims the event date in the
// availability ledger. Concurrent accepts are safe: the loser observes an
// already-confirmed booking and returns it unchanged.
func (s *DefaultBookingService) Accept(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	b, err := s.visibleBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if !s.actsForCaterer(ctx, actor, b.CatererID) {
		return nil, utils.NewForbidden("only the caterer can accept a booking")
	}
	if b.Flagged {
		return nil, utils.NewInvalidState("booking is held for fraud review")
	}
	if b.Status == models.BookingStatusConfirmed {
		return b, nil
	}
	if b.Status != models.BookingStatusPending {
		return nil, utils.NewInvalidState("booking in status %q cannot be accepted", b.Status)
	}

	ok, err := s.Repo.ConfirmWithDateLock(ctx, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Something else transitioned the booking first. If it ended up
		// confirmed anyway (a concurrent accept), that is our answer.
		current, err := s.mustGet(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if current.Status == models.BookingStatusConfirmed {
			return current, nil
		}
		return nil, utils.NewInvalidState("booking in status %q cannot be accepted", current.Status)
	}

	s.journal(ctx, bookingID, models.BookingStatusConfirmed, "Booking accepted by caterer")
	b, err = s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyBookingEvent(ctx, notification.EventBookingConfirmed, b)
	zap.L().Info("booking confirmed",
		zap.String("bookingID", b.ID),
		zap.String("catererID", b.CatererID),
		zap.String("eventDate", b.EventDate))
	return b, nil
}

// Reject declines a pending booking on behalf of the caterer.
func (s *DefaultBookingService) Reject(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error) {
	b, err := s.visibleBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if !s.actsForCaterer(ctx, actor, b.CatererID) {
		return nil, utils.NewForbidden("only the caterer can reject a booking")
	}
	if b.Status == models.BookingStatusCancelled {
		return b, nil
	}
	if b.Status != models.BookingStatusPending {
		return nil, utils.NewInvalidState("booking in status %q cannot be rejected", b.Status)
	}

	ok, err := s.Repo.TransitionStatus(ctx, bookingID, []string{models.BookingStatusPending}, models.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	if ok {
		notes := "Booking rejected by caterer"
		if reason != "" {
			notes += ": " + reason
		}
		s.journal(ctx, bookingID, models.BookingStatusCancelled, notes)
	}
	b, err = s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyBookingEvent(ctx, notification.EventBookingRejected, b)
	return b, nil
}

// Cancel withdraws a booking on behalf of the customer. Cancelling a
// confirmed booking also releases its hold on the event date.
func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error) {
	b, err := s.visibleBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && actor.UserID != b.CustomerID {
		return nil, utils.NewForbidden("only the customer can cancel a booking")
	}
	if b.Status == models.BookingStatusCancelled {
		return b, nil
	}
	if b.IsTerminal() {
		return nil, utils.NewInvalidState("booking in status %q cannot be cancelled", b.Status)
	}

	wasConfirmed := b.Status == models.BookingStatusConfirmed
	ok, err := s.Repo.TransitionStatus(ctx, bookingID,
		[]string{models.BookingStatusDraft, models.BookingStatusPending, models.BookingStatusConfirmed},
		models.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	if ok {
		notes := "Booking cancelled by customer"
		if reason != "" {
			notes += ": " + reason
		}
		s.journal(ctx, bookingID, models.BookingStatusCancelled, notes)
		if wasConfirmed {
			if err := s.Repo.ReleaseDateLock(ctx, bookingID); err != nil {
				zap.L().Error("failed to release date after cancellation",
					zap.String("bookingID", bookingID), zap.Error(err))
			}
		}
	}
	b, err = s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyBookingEvent(ctx, notification.EventBookingCancelled, b)
	return b, nil
}

// Flag marks a booking for fraud review. The status is untouched; the flag
// itself blocks acceptance until an operator clears it.
func (s *DefaultBookingService) Flag(ctx context.Context, actor models.Principal, bookingID, flagType, description string) (*models.Booking, error) {
	if actor.Role != models.RoleAdmin {
		return nil, utils.NewForbidden("only operators can flag a booking")
	}
	b, err := s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.IsTerminal() {
		return nil, utils.NewInvalidState("booking in status %q cannot be flagged", b.Status)
	}

	flag := &models.FraudFlag{
		ID:          uuid.New().String(),
		BookingID:   bookingID,
		FlagType:    flagType,
		Description: description,
		FlaggedBy:   actor.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.AddFraudFlag(ctx, flag); err != nil {
		return nil, err
	}
	if err := s.Repo.SetFlagged(ctx, bookingID, true); err != nil {
		return nil, err
	}
	s.journal(ctx, bookingID, b.Status, "Booking flagged for review: "+description)
	zap.L().Warn("booking flagged",
		zap.String("bookingID", bookingID),
		zap.String("flagType", flagType),
		zap.String("flaggedBy", actor.UserID))
	return s.mustGet(ctx, bookingID)
}

func (s *DefaultBookingService) Get(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	return s.visibleBooking(ctx, actor, bookingID)
}

func (s *DefaultBookingService) History(ctx context.Context, actor models.Principal, bookingID string) ([]models.BookingHistory, error) {
	if _, err := s.visibleBooking(ctx, actor, bookingID); err != nil {
		return nil, err
	}
	return s.Repo.History(ctx, bookingID)
}

func (s *DefaultBookingService) ListMine(ctx context.Context, actor models.Principal) ([]models.Booking, error) {
	switch actor.Role {
	case models.RoleCaterer:
		profile, err := s.Catalog.GetCatererByOwner(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, utils.NewNotFound("no caterer profile for this account")
		}
		return s.Repo.ListByCaterer(ctx, profile.ID)
	default:
		return s.Repo.ListByCustomer(ctx, actor.UserID)
	}
}

// journal appends a history entry. History is best-effort relative to the
// transition it records; a write failure is logged, never propagated.
func (s *DefaultBookingService) journal(ctx context.Context, bookingID, status, notes string) {
	entry := &models.BookingHistory{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		Status:    status,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.AppendHistory(ctx, entry); err != nil {
		zap.L().Error("failed to append booking history",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}

func (s *DefaultBookingService) mustGet(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.NewNotFound("booking %s not found", bookingID)
	}
	return b, nil
}

// visibleBooking enforces party-only access. Outsiders get NotFound so they
// cannot probe for booking IDs.
func (s *DefaultBookingService) visibleBooking(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	b, err := s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleAdmin || actor.UserID == b.CustomerID {
		return b, nil
	}
	if s.actsForCaterer(ctx, actor, b.CatererID) {
		return b, nil
	}
	return nil, utils.NewNotFound("booking %s not found", bookingID)
}

func (s *DefaultBookingService) actsForCaterer(ctx context.Context, actor models.Principal, catererID string) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	if actor.Role != models.RoleCaterer {
		return false
	}
	profile, err := s.Catalog.GetCaterer(ctx, catererID)
	if err != nil || profile == nil {
		return false
	}
	return profile.OwnerUserID == actor.UserID
}
