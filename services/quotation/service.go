package quotation

import (
	"context"
	"time"

	"caterbook/config"
	bookingRepo "caterbook/database/repository/booking"
	catalogRepo "caterbook/database/repository/catalog"
	quotationRepo "caterbook/database/repository/quotation"
	"caterbook/models"
	"caterbook/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuotationService prices bookings and walks the quotation through its
// draft -> sent -> signed lifecycle. Creating a quotation is what arms the
// payment deadline on the booking.
type QuotationService interface {
	// CreateOrFetch returns the booking's quotation, computing and persisting
	// it on first call. Subsequent calls return the stored quotation unchanged.
	CreateOrFetch(ctx context.Context, principal models.Principal, bookingID string, downpaymentPercent int) (*models.Quotation, error)
	// Send marks a draft quotation as delivered to the customer.
	Send(ctx context.Context, principal models.Principal, bookingID string) (*models.Quotation, error)
	// Sign records the customer's acceptance and the contract they signed.
	Sign(ctx context.Context, principal models.Principal, bookingID string, contractURL string) (*models.Quotation, error)
	// GetByBooking fetches the quotation for a booking the principal can see.
	GetByBooking(ctx context.Context, principal models.Principal, bookingID string) (*models.Quotation, error)
}

type DefaultQuotationService struct {
	Repo     quotationRepo.QuotationRepository
	Bookings bookingRepo.BookingRepository
	Catalog  catalogRepo.CatalogRepository
}

func NewDefaultQuotationService(repo quotationRepo.QuotationRepository, bookings bookingRepo.BookingRepository, cat catalogRepo.CatalogRepository) *DefaultQuotationService {
	return &DefaultQuotationService{Repo: repo, Bookings: bookings, Catalog: cat}
}

func (s *DefaultQuotationService) CreateOrFetch(ctx context.Context, principal models.Principal, bookingID string, downpaymentPercent int) (*models.Quotation, error) {
	b, err := s.visibleBooking(ctx, principal, bookingID)
	if err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if b.Status != models.BookingStatusDraft && b.Status != models.BookingStatusPending {
		return nil, utils.NewInvalidState("cannot quote a booking in status %q", b.Status)
	}
	if b.PackageID == "" {
		return nil, utils.NewInvalidState("booking has no catering package selected")
	}

	if downpaymentPercent == 0 {
		downpaymentPercent = models.DefaultDownpaymentPercent
	}
	if downpaymentPercent < models.MinDownpaymentPercent || downpaymentPercent > models.MaxDownpaymentPercent {
		return nil, utils.NewValidationError("downpayment percent must be between %d and %d, got %d",
			models.MinDownpaymentPercent, models.MaxDownpaymentPercent, downpaymentPercent)
	}

	pkg, err := s.Catalog.GetPackage(ctx, b.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, utils.NewNotFound("catering package %s not found", b.PackageID)
	}

	price, err := decimal.NewFromString(pkg.Price)
	if err != nil {
		return nil, utils.NewValidationError("package %s has malformed price %q", pkg.ID, pkg.Price)
	}

	var base decimal.Decimal
	if pkg.PriceUnit == models.PriceUnitFlat {
		base = price
	} else {
		base = price.Mul(decimal.NewFromInt(int64(b.GuestCount)))
	}

	total := base
	var addons []models.QuotationLine
	for _, item := range b.MenuItems {
		if !item.IsAddon {
			continue
		}
		unit, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, utils.NewValidationError("add-on %q has malformed price %q", item.Name, item.UnitPrice)
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		line := unit.Mul(decimal.NewFromInt(int64(qty)))
		total = total.Add(line)
		addons = append(addons, models.QuotationLine{
			Name:      item.Name,
			UnitPrice: unit.StringFixed(2),
			Quantity:  qty,
			LineTotal: line.StringFixed(2),
		})
	}

	fee := total.Mul(decimal.NewFromInt(int64(downpaymentPercent))).Div(decimal.NewFromInt(100)).Round(2)

	now := time.Now().UTC()
	q := &models.Quotation{
		ID:        uuid.New().String(),
		BookingID: b.ID,
		PackageDetails: models.PackageSnapshot{
			PackageID:   pkg.ID,
			Name:        pkg.Name,
			Description: pkg.Description,
			UnitPrice:   price.StringFixed(2),
			PriceUnit:   pkg.PriceUnit,
			GuestCount:  b.GuestCount,
		},
		Addons:             addons,
		TotalAmount:        total.StringFixed(2),
		DownpaymentPercent: downpaymentPercent,
		ReservationFee:     fee.StringFixed(2),
		Status:             models.QuotationStatusDraft,
		CreatedAt:          now,
	}
	if err := s.Repo.Create(ctx, q); err != nil {
		if utils.HasCode(err, utils.CodeConflict) {
			// Lost a race with a concurrent quote request; theirs wins.
			return s.Repo.GetByBookingID(ctx, bookingID)
		}
		return nil, err
	}

	if err := s.Bookings.SetPricing(ctx, b.ID, q.TotalAmount, q.ReservationFee); err != nil {
		return nil, err
	}
	expiresAt := now.Add(time.Duration(config.AppConfig.ReservationHoldHours) * time.Hour)
	if err := s.Bookings.SetExpiresAt(ctx, b.ID, expiresAt); err != nil {
		return nil, err
	}

	zap.L().Info("quotation created",
		zap.String("bookingID", b.ID),
		zap.String("total", q.TotalAmount),
		zap.String("reservationFee", q.ReservationFee),
		zap.Time("expiresAt", expiresAt))
	return q, nil
}

func (s *DefaultQuotationService) Send(ctx context.Context, principal models.Principal, bookingID string) (*models.Quotation, error) {
	b, err := s.visibleBooking(ctx, principal, bookingID)
	if err != nil {
		return nil, err
	}
	if !s.actsForCaterer(ctx, principal, b.CatererID) {
		return nil, utils.NewForbidden("only the caterer can send a quotation")
	}
	q, err := s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if q.Status == models.QuotationStatusSent {
		return q, nil
	}
	updated, err := s.Repo.TransitionStatus(ctx, bookingID, []string{models.QuotationStatusDraft}, models.QuotationStatusSent, "")
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, utils.NewInvalidState("quotation in status %q cannot be sent", q.Status)
	}
	return s.mustGet(ctx, bookingID)
}

func (s *DefaultQuotationService) Sign(ctx context.Context, principal models.Principal, bookingID string, contractURL string) (*models.Quotation, error) {
	b, err := s.visibleBooking(ctx, principal, bookingID)
	if err != nil {
		return nil, err
	}
	if principal.Role != models.RoleAdmin && principal.UserID != b.CustomerID {
		return nil, utils.NewForbidden("only the customer can sign a quotation")
	}
	q, err := s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if q.Status == models.QuotationStatusSigned {
		return q, nil
	}
	updated, err := s.Repo.TransitionStatus(ctx, bookingID,
		[]string{models.QuotationStatusDraft, models.QuotationStatusSent},
		models.QuotationStatusSigned, contractURL)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, utils.NewInvalidState("quotation in status %q cannot be signed", q.Status)
	}
	return s.mustGet(ctx, bookingID)
}

func (s *DefaultQuotationService) GetByBooking(ctx context.Context, principal models.Principal, bookingID string) (*models.Quotation, error) {
	if _, err := s.visibleBooking(ctx, principal, bookingID); err != nil {
		return nil, err
	}
	return s.mustGet(ctx, bookingID)
}

func (s *DefaultQuotationService) mustGet(ctx context.Context, bookingID string) (*models.Quotation, error) {
	q, err := s.Repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, utils.NewNotFound("no quotation for booking %s", bookingID)
	}
	return q, nil
}

// visibleBooking loads the booking and enforces that the principal is a
// party to it. Outsiders get NotFound rather than Forbidden so they cannot
// probe for booking IDs.
func (s *DefaultQuotationService) visibleBooking(ctx context.Context, principal models.Principal, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.NewNotFound("booking %s not found", bookingID)
	}
	if principal.Role == models.RoleAdmin || principal.UserID == b.CustomerID {
		return b, nil
	}
	if s.actsForCaterer(ctx, principal, b.CatererID) {
		return b, nil
	}
	return nil, utils.NewNotFound("booking %s not found", bookingID)
}

func (s *DefaultQuotationService) actsForCaterer(ctx context.Context, principal models.Principal, catererID string) bool {
	if principal.Role == models.RoleAdmin {
		return true
	}
	if principal.Role != models.RoleCaterer {
		return false
	}
	profile, err := s.Catalog.GetCaterer(ctx, catererID)
	if err != nil || profile == nil {
		return false
	}
	return profile.OwnerUserID == principal.UserID
}
