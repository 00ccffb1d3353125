package models

import "time"

// BookingHistory is an append-only journal entry recorded for every
// customer- or caterer-visible status transition. It is distinct from the
// booking's mutable current status and backs the customer-facing timeline.
type BookingHistory struct {
	ID        string    `bson:"id" json:"id"`                 // Unique entry identifier (UUID)
	BookingID string    `bson:"booking_id" json:"booking_id"` // Booking this entry belongs to
	Status    string    `bson:"status" json:"status"`         // The status being transitioned TO
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
