package quotationRepo

import (
	"context"

	"caterbook/models"
)

// QuotationRepository defines data access for quotations (1:1 with bookings).
type QuotationRepository interface {
	Create(ctx context.Context, quotation *models.Quotation) error
	// GetByBookingID returns the booking's quotation, or nil when absent.
	GetByBookingID(ctx context.Context, bookingID string) (*models.Quotation, error)
	// TransitionStatus moves the quotation to the target status only if its
	// current status is one of from. contractURL is stored when non-empty.
	TransitionStatus(ctx context.Context, bookingID string, from []string, to, contractURL string) (bool, error)
}
