package booking

import (
	"context"
	"time"

	"caterbook/models"
	"caterbook/services/notification"
	"caterbook/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"
const timeLayout = "15:04"

// phaseRank orders the wizard phases so steps can check they are not being
// run ahead of their prerequisites. Re-running an earlier step is allowed;
// it rewinds the draft to that phase.
var phaseRank = map[string]int{
	models.DraftPhaseCaterer: 0,
	models.DraftPhaseDate:    1,
	models.DraftPhaseDetails: 2,
	models.DraftPhaseReview:  3,
}

func (s *DefaultBookingService) StartDraft(ctx context.Context, actor models.Principal, catererID, packageID string, addonItemIDs []string) (*models.BookingDraft, error) {
	if actor.Role != models.RoleCustomer {
		return nil, utils.NewForbidden("only customers can start a booking")
	}

	caterer, err := s.Catalog.GetCaterer(ctx, catererID)
	if err != nil {
		return nil, err
	}
	if caterer == nil {
		return nil, utils.NewNotFound("caterer %s not found", catererID)
	}

	if packageID != "" {
		pkg, err := s.activePackage(ctx, catererID, packageID)
		if err != nil {
			return nil, err
		}
		for _, id := range addonItemIDs {
			item := pkg.FindMenuItem(id)
			if item == nil || !item.IsAddon {
				return nil, utils.NewValidationError("menu item %s is not an add-on of package %s", id, packageID)
			}
		}
	} else if len(addonItemIDs) > 0 {
		return nil, utils.NewValidationError("add-ons require a catering package")
	}

	draft := &models.BookingDraft{
		DraftID:      uuid.New().String(),
		CustomerID:   actor.UserID,
		Phase:        models.DraftPhaseCaterer,
		CatererID:    catererID,
		PackageID:    packageID,
		AddonItemIDs: addonItemIDs,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	zap.L().Info("booking draft started",
		zap.String("draftID", draft.DraftID),
		zap.String("customerID", actor.UserID),
		zap.String("catererID", catererID))
	return draft, nil
}

func (s *DefaultBookingService) SetDraftDate(ctx context.Context, actor models.Principal, draftID, eventDate, eventTime string, guestCount int) (*models.BookingDraft, error) {
	draft, err := s.ownedDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse(dateLayout, eventDate)
	if err != nil {
		return nil, utils.NewValidationError("event date must be in YYYY-MM-DD format")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return nil, utils.NewValidationError("event date %s is in the past", eventDate)
	}
	if eventTime != "" {
		if _, err := time.Parse(timeLayout, eventTime); err != nil {
			return nil, utils.NewValidationError("event time must be in HH:MM format")
		}
	}
	if guestCount < 1 {
		return nil, utils.NewValidationError("guest count must be at least 1")
	}
	if draft.PackageID != "" {
		pkg, err := s.activePackage(ctx, draft.CatererID, draft.PackageID)
		if err != nil {
			return nil, err
		}
		if guestCount < pkg.MinGuests {
			return nil, utils.NewValidationError("package %q requires at least %d guests", pkg.Name, pkg.MinGuests)
		}
		if pkg.MaxGuests > 0 && guestCount > pkg.MaxGuests {
			return nil, utils.NewValidationError("package %q serves at most %d guests", pkg.Name, pkg.MaxGuests)
		}
	}

	blocked, reason, err := s.Availability.IsBlocked(ctx, draft.CatererID, eventDate)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, utils.NewConflict("caterer is not available on %s: %s", eventDate, reason)
	}

	draft.EventDate = eventDate
	draft.EventTime = eventTime
	draft.GuestCount = guestCount
	draft.Phase = models.DraftPhaseDate
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DefaultBookingService) SetDraftDetails(ctx context.Context, actor models.Principal, draftID, eventName, eventType, venueAddress, specialRequests string) (*models.BookingDraft, error) {
	draft, err := s.ownedDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}
	if phaseRank[draft.Phase] < phaseRank[models.DraftPhaseDate] {
		return nil, utils.NewOutOfOrderStep("set the event date before the event details")
	}
	if eventName == "" {
		return nil, utils.NewValidationError("event name is required")
	}
	if venueAddress == "" {
		return nil, utils.NewValidationError("venue address is required")
	}

	draft.EventName = eventName
	draft.EventType = eventType
	draft.VenueAddress = venueAddress
	draft.SpecialRequests = specialRequests
	draft.Phase = models.DraftPhaseReview

	if draft.PackageID != "" {
		total, err := s.estimateTotal(ctx, draft)
		if err != nil {
			return nil, err
		}
		draft.TotalAmount = total
	}
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DefaultBookingService) CommitDraft(ctx context.Context, actor models.Principal, draftID string) (*models.Booking, error) {
	draft, err := s.ownedDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}
	if phaseRank[draft.Phase] < phaseRank[models.DraftPhaseReview] {
		return nil, utils.NewOutOfOrderStep("complete the event details before committing")
	}

	// The date may have been taken while the wizard sat idle.
	blocked, reason, err := s.Availability.IsBlocked(ctx, draft.CatererID, draft.EventDate)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, utils.NewConflict("caterer is no longer available on %s: %s", draft.EventDate, reason)
	}

	var menuItems []models.BookingMenuItem
	if draft.PackageID != "" {
		pkg, err := s.activePackage(ctx, draft.CatererID, draft.PackageID)
		if err != nil {
			return nil, err
		}
		menuItems = snapshotMenu(pkg, draft.AddonItemIDs)
	}

	now := time.Now().UTC()
	b := &models.Booking{
		ID:              uuid.New().String(),
		CustomerID:      draft.CustomerID,
		CatererID:       draft.CatererID,
		PackageID:       draft.PackageID,
		EventName:       draft.EventName,
		EventType:       draft.EventType,
		EventDate:       draft.EventDate,
		EventTime:       draft.EventTime,
		VenueAddress:    draft.VenueAddress,
		GuestCount:      draft.GuestCount,
		MenuItems:       menuItems,
		TotalAmount:     draft.TotalAmount,
		Status:          models.BookingStatusDraft,
		PaymentStatus:   models.PaymentStatusPending,
		SpecialRequests: draft.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.journal(ctx, b.ID, b.Status, "Booking created via wizard")

	if err := s.Drafts.Delete(ctx, draftID); err != nil {
		zap.L().Warn("failed to delete committed draft", zap.String("draftID", draftID), zap.Error(err))
	}

	s.Notifier.NotifyBookingEvent(ctx, notification.EventBookingCreated, b)
	zap.L().Info("booking created",
		zap.String("bookingID", b.ID),
		zap.String("customerID", b.CustomerID),
		zap.String("catererID", b.CatererID),
		zap.String("eventDate", b.EventDate))
	return b, nil
}

// snapshotMenu copies the package menu into booking-owned line items. Base
// items are included as part of the package price; selected add-ons carry
// their own line price.
func snapshotMenu(pkg *models.CateringPackage, addonItemIDs []string) []models.BookingMenuItem {
	selected := make(map[string]bool, len(addonItemIDs))
	for _, id := range addonItemIDs {
		selected[id] = true
	}
	var items []models.BookingMenuItem
	for _, mi := range pkg.MenuItems {
		if mi.IsAddon && !selected[mi.ID] {
			continue
		}
		items = append(items, models.BookingMenuItem{
			MenuItemID: mi.ID,
			Name:       mi.Name,
			Category:   mi.Category,
			IsAddon:    mi.IsAddon,
			UnitPrice:  mi.Price,
			Quantity:   1,
		})
	}
	return items
}

// estimateTotal previews the package price for the review screen. The
// binding figure is still the quotation.
func (s *DefaultBookingService) estimateTotal(ctx context.Context, draft *models.BookingDraft) (string, error) {
	pkg, err := s.activePackage(ctx, draft.CatererID, draft.PackageID)
	if err != nil {
		return "", err
	}
	price, err := decimal.NewFromString(pkg.Price)
	if err != nil {
		return "", utils.NewValidationError("package %s has malformed price %q", pkg.ID, pkg.Price)
	}
	total := price
	if pkg.PriceUnit != models.PriceUnitFlat {
		total = price.Mul(decimal.NewFromInt(int64(draft.GuestCount)))
	}
	for _, id := range draft.AddonItemIDs {
		item := pkg.FindMenuItem(id)
		if item == nil {
			continue
		}
		unit, err := decimal.NewFromString(item.Price)
		if err != nil {
			return "", utils.NewValidationError("add-on %q has malformed price %q", item.Name, item.Price)
		}
		total = total.Add(unit)
	}
	return total.StringFixed(2), nil
}

func (s *DefaultBookingService) activePackage(ctx context.Context, catererID, packageID string) (*models.CateringPackage, error) {
	pkg, err := s.Catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.CatererID != catererID {
		return nil, utils.NewNotFound("package %s not found for caterer %s", packageID, catererID)
	}
	if !pkg.IsActive {
		return nil, utils.NewInvalidState("package %q is no longer offered", pkg.Name)
	}
	return pkg, nil
}

func (s *DefaultBookingService) ownedDraft(ctx context.Context, actor models.Principal, draftID string) (*models.BookingDraft, error) {
	draft, err := s.Drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil || draft.CustomerID != actor.UserID {
		return nil, utils.NewNotFound("draft %s not found", draftID)
	}
	return draft, nil
}
