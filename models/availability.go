package models

import "time"

// DefaultBlockReason is used when a caterer blocks a date without giving one.
const DefaultBlockReason = "Fully Booked"

// Availability is one record per (caterer, date) marking the date blocked or
// explicitly open. Absence of a record for a date means available by default.
type Availability struct {
	CatererID string    `bson:"caterer_id" json:"caterer_id"` // Caterer whose calendar this entry belongs to
	Date      string    `bson:"date" json:"date"`             // Date in "2006-01-02" format
	Available bool      `bson:"available" json:"available"`   // false means the date is blocked
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	BookingID string    `bson:"booking_id,omitempty" json:"booking_id,omitempty"` // Set when a confirmed booking holds the date
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
