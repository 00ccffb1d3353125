package models

import "time"

// FraudFlag is an operator-created annotation on a booking. Flags are
// append-only; a flagged booking keeps its status but the accept and
// payment-confirm guards refuse to advance it until review.
type FraudFlag struct {
	ID          string    `bson:"id" json:"id"`                 // Unique flag identifier (UUID)
	BookingID   string    `bson:"booking_id" json:"booking_id"` // Booking under review
	FlagType    string    `bson:"flag_type" json:"flag_type"`   // e.g. "document_mismatch", "velocity"
	Description string    `bson:"description" json:"description"`
	FlaggedBy   string    `bson:"flagged_by" json:"flagged_by"` // Admin user id
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
