package verificationRepo

import (
	"context"

	"caterbook/models"
)

// VerificationRepository defines data access for the authoritative per-user
// identity verification record and the append-only attempt audit trail.
type VerificationRepository interface {
	// GetByUserID returns the user's record, or nil when the user has never
	// started verification.
	GetByUserID(ctx context.Context, userID string) (*models.IdentityVerification, error)
	Upsert(ctx context.Context, record *models.IdentityVerification) error

	// AppendAttempt adds one audit entry. Terminal attempts are insert-only;
	// a processing attempt is settled later via FinalizeAttempt.
	AppendAttempt(ctx context.Context, attempt *models.VerificationAttempt) error
	// FinalizeAttempt settles the newest processing attempt for (user,
	// booking, step) with its terminal status, returning false when none
	// exists.
	FinalizeAttempt(ctx context.Context, userID, bookingID, step, status string, details map[string]any) (bool, error)
	ListAttemptsByBooking(ctx context.Context, bookingID string) ([]models.VerificationAttempt, error)
	ListAttemptsByUser(ctx context.Context, userID string) ([]models.VerificationAttempt, error)
}
