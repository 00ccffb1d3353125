package booking

import (
	"context"
	"time"

	bookingRepo "caterbook/database/repository/booking"
	catalogRepo "caterbook/database/repository/catalog"
	quotationRepo "caterbook/database/repository/quotation"
	"caterbook/models"
	"caterbook/services/availability"
	"caterbook/services/notification"
	"caterbook/services/verification"
)

// BookingService is the reservation engine: the draft wizard, the status
// state machine, payment webhook ingestion and the deadline sweeps.
type BookingService interface {
	// Wizard. Drafts live in the session store until Commit persists a
	// draft-status booking.
	StartDraft(ctx context.Context, actor models.Principal, catererID, packageID string, addonItemIDs []string) (*models.BookingDraft, error)
	SetDraftDate(ctx context.Context, actor models.Principal, draftID, eventDate, eventTime string, guestCount int) (*models.BookingDraft, error)
	SetDraftDetails(ctx context.Context, actor models.Principal, draftID, eventName, eventType, venueAddress, specialRequests string) (*models.BookingDraft, error)
	CommitDraft(ctx context.Context, actor models.Principal, draftID string) (*models.Booking, error)

	// Lifecycle transitions.
	SubmitForReview(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error)
	Accept(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error)
	Reject(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error)
	Cancel(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error)
	Flag(ctx context.Context, actor models.Principal, bookingID, flagType, description string) (*models.Booking, error)

	// Reads.
	Get(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error)
	History(ctx context.Context, actor models.Principal, bookingID string) ([]models.BookingHistory, error)
	ListMine(ctx context.Context, actor models.Principal) ([]models.Booking, error)

	// ProcessPaymentWebhook ingests a gateway callback. Idempotent: replays
	// and events for terminal bookings are no-ops.
	ProcessPaymentWebhook(ctx context.Context, event models.PaymentWebhookEvent) (*models.Booking, error)

	// Sweeps, run on a schedule.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Quotations   quotationRepo.QuotationRepository
	Catalog      catalogRepo.CatalogRepository
	Availability availability.AvailabilityService
	Gate         verification.VerificationGate
	Drafts       DraftStore
	Notifier     notification.Notifier
}

func NewDefaultBookingService(
	repo bookingRepo.BookingRepository,
	quotations quotationRepo.QuotationRepository,
	catalog catalogRepo.CatalogRepository,
	avail availability.AvailabilityService,
	gate verification.VerificationGate,
	drafts DraftStore,
	notifier notification.Notifier,
) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:         repo,
		Quotations:   quotations,
		Catalog:      catalog,
		Availability: avail,
		Gate:         gate,
		Drafts:       drafts,
		Notifier:     notifier,
	}
}
