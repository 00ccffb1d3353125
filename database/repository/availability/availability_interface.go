package availabilityRepo

import (
	"context"

	"caterbook/models"
)

// AvailabilityRepository defines data access for the per-caterer, per-date
// availability ledger. One record per (caterer, date); absence means the
// date is available by default.
type AvailabilityRepository interface {
	// Upsert writes the caterer-owned fields for (caterer, date), last
	// write wins. A booking claim on the record is left untouched.
	Upsert(ctx context.Context, entry *models.Availability) error
	// Get returns the record for (caterer, date), or nil when absent.
	Get(ctx context.Context, catererID, date string) (*models.Availability, error)
	// ListBlocked returns all blocked dates for a caterer.
	ListBlocked(ctx context.Context, catererID string) ([]models.Availability, error)
}
