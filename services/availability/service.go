package availability

import (
	"context"
	"time"

	availabilityRepo "caterbook/database/repository/availability"
	catalogRepo "caterbook/database/repository/catalog"
	"caterbook/models"
	"caterbook/utils"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// AvailabilityService answers conflict queries and lets caterers manage
// their calendar. A date with no record is available by default. Blocking a
// date never retroactively affects already-confirmed bookings; it only
// prevents new bookings for that date.
type AvailabilityService interface {
	// IsBlocked reports whether the caterer's date is blocked and why.
	IsBlocked(ctx context.Context, catererID, date string) (bool, string, error)
	// SetAvailability upserts the record for (caterer, date), last write
	// wins. Dates held by a confirmed booking reject the write with Conflict.
	SetAvailability(ctx context.Context, actor models.Principal, catererID, date string, available bool, reason string) error
	ListBlocked(ctx context.Context, catererID string) ([]models.Availability, error)
}

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Repo    availabilityRepo.AvailabilityRepository
	Catalog catalogRepo.CatalogRepository
}

func (s *DefaultAvailabilityService) IsBlocked(ctx context.Context, catererID, date string) (bool, string, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return false, "", utils.NewValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}
	entry, err := s.Repo.Get(ctx, catererID, date)
	if err != nil {
		return false, "", err
	}
	if entry == nil || entry.Available {
		return false, "", nil
	}
	reason := entry.Reason
	if reason == "" {
		reason = models.DefaultBlockReason
	}
	return true, reason, nil
}

func (s *DefaultAvailabilityService) SetAvailability(ctx context.Context, actor models.Principal, catererID, date string, available bool, reason string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return utils.NewValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}
	caterer, err := s.Catalog.GetCaterer(ctx, catererID)
	if err != nil {
		return err
	}
	if caterer == nil {
		return utils.NewNotFound("caterer %s not found", catererID)
	}
	if actor.Role != models.RoleAdmin && caterer.OwnerUserID != actor.UserID {
		return utils.NewForbidden("caterer profile is not owned by the acting user")
	}

	// A date claimed by a confirmed booking is not the caterer's to edit;
	// the claim is released when the booking is cancelled.
	existing, err := s.Repo.Get(ctx, catererID, date)
	if err != nil {
		return err
	}
	if existing != nil && existing.BookingID != "" {
		return utils.NewConflict("date %s is held by a confirmed booking", date)
	}

	entry := &models.Availability{
		CatererID: catererID,
		Date:      date,
		Available: available,
		Reason:    reason,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Upsert(ctx, entry); err != nil {
		return err
	}
	utils.GetLogger().Info("availability updated",
		zap.String("catererID", catererID),
		zap.String("date", date),
		zap.Bool("available", available))
	return nil
}

func (s *DefaultAvailabilityService) ListBlocked(ctx context.Context, catererID string) ([]models.Availability, error) {
	return s.Repo.ListBlocked(ctx, catererID)
}
