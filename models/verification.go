package models

import "time"

// Identity verification gate states. Steps advance strictly in order:
// not_started -> document_uploaded -> liveness_checked -> matched.
// failed is terminal for the step that failed; retrying the same step is
// allowed and starts from the last successful state.
const (
	VerificationStateNotStarted       = "not_started"
	VerificationStateDocumentUploaded = "document_uploaded"
	VerificationStateLivenessChecked  = "liveness_checked"
	VerificationStateMatched          = "matched"
	VerificationStateFailed           = "failed"
)

// Verification steps appended to the audit trail.
const (
	VerificationStepUpload   = "upload"
	VerificationStepOCR      = "ocr"
	VerificationStepLiveness = "liveness"
	VerificationStepMatch    = "match"
)

// Verification attempt outcomes.
const (
	AttemptStatusProcessing = "processing"
	AttemptStatusVerified   = "verified"
	AttemptStatusFailed     = "failed"
)

// IdentityVerification is the authoritative per-user verification record.
// A user verified once stays verified for future bookings; bookings carry
// only the append-only attempt trail, never their own flags.
type IdentityVerification struct {
	UserID          string            `bson:"user_id" json:"user_id"` // One record per user
	State           string            `bson:"state" json:"state"`     // See VerificationState* constants
	DocumentURL     string            `bson:"document_url,omitempty" json:"document_url,omitempty"` // Storage reference, not the image itself
	SelfieURL       string            `bson:"selfie_url,omitempty" json:"selfie_url,omitempty"`
	ExtractedFields map[string]string `bson:"extracted_fields,omitempty" json:"extracted_fields,omitempty"` // OCR output from the document
	LivenessToken   string            `bson:"liveness_token,omitempty" json:"liveness_token,omitempty"`
	MatchScore      float64           `bson:"match_score,omitempty" json:"match_score,omitempty"`
	FailureReason   string            `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"` // Oracle's reason, surfaced verbatim
	VerifiedAt      *time.Time        `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updated_at"`
}

// Verified reports whether the user has passed the full gate.
func (v *IdentityVerification) Verified() bool {
	return v != nil && v.State == VerificationStateMatched
}

// VerificationAttempt is one append-only audit log entry per verification
// step. Entries are never mutated after reaching a terminal status; the
// out-of-band match first appends a processing entry and then finalizes it.
type VerificationAttempt struct {
	ID        string         `bson:"id" json:"id"`                 // Unique attempt identifier (UUID)
	UserID    string         `bson:"user_id" json:"user_id"`       // User the attempt belongs to
	BookingID string         `bson:"booking_id" json:"booking_id"` // Booking that triggered the attempt
	Step      string         `bson:"step" json:"step"`             // upload | ocr | liveness | match
	Status    string         `bson:"status" json:"status"`         // processing | verified | failed
	Details   map[string]any `bson:"details,omitempty" json:"details,omitempty"` // Opaque payload (scores, tokens, reasons)
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
