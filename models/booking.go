package models

import "time"

// Booking lifecycle statuses. Terminal: cancelled, expired, completed.
const (
	BookingStatusDraft     = "draft"
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusExpired   = "expired"
	BookingStatusCompleted = "completed"
)

// Payment statuses tracked alongside the booking status.
const (
	PaymentStatusPending     = "pending"
	PaymentStatusDepositPaid = "deposit_paid"
	PaymentStatusPaid        = "paid"
)

// Booking represents one reservation request against a caterer.
type Booking struct {
	ID              string            `bson:"id" json:"id"`                                               // Unique booking identifier (UUID)
	CustomerID      string            `bson:"customer_id" json:"customer_id"`                             // Customer who made the booking
	CatererID       string            `bson:"caterer_id" json:"caterer_id"`                               // Caterer being booked
	PackageID       string            `bson:"package_id,omitempty" json:"package_id,omitempty"`           // Selected package, optional for custom inquiries
	EventName       string            `bson:"event_name,omitempty" json:"event_name,omitempty"`           // e.g. "Garcia Family Wedding"
	EventType       string            `bson:"event_type,omitempty" json:"event_type,omitempty"`           // Wedding, Birthday, Corporate, etc.
	EventDate       string            `bson:"event_date" json:"event_date"`                               // Event date in "2006-01-02" format
	EventTime       string            `bson:"event_time,omitempty" json:"event_time,omitempty"`           // Event time in "15:04" format
	VenueAddress    string            `bson:"venue_address,omitempty" json:"venue_address,omitempty"`     // Where the event takes place
	GuestCount      int               `bson:"guest_count" json:"guest_count"`                             // Number of guests
	MenuItems       []BookingMenuItem `bson:"menu_items,omitempty" json:"menu_items,omitempty"`           // Line items snapshotted at booking time
	TotalAmount     string            `bson:"total_amount" json:"total_amount"`                           // Decimal string, computed by the quotation engine
	ReservationFee  string            `bson:"reservation_fee,omitempty" json:"reservation_fee,omitempty"` // Decimal string, downpayment due to hold the date
	Status          string            `bson:"status" json:"status"`                                       // See BookingStatus* constants
	PaymentStatus   string            `bson:"payment_status" json:"payment_status"`                       // See PaymentStatus* constants
	PaymentMethod   string            `bson:"payment_method,omitempty" json:"payment_method,omitempty"`   // GCash, Credit Card, etc.
	SpecialRequests string            `bson:"special_requests,omitempty" json:"special_requests,omitempty"`
	ExpiresAt       *time.Time        `bson:"expires_at,omitempty" json:"expires_at,omitempty"` // Unpaid-reservation deadline, set on quotation
	Flagged         bool              `bson:"flagged,omitempty" json:"flagged,omitempty"`       // Set by an operator for fraud review; blocks accept/confirm
	CreatedAt       time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updated_at"`
}

// BookingMenuItem is a line item owned by its booking. The price is a value
// snapshot taken at booking time and is immune to later menu price changes.
type BookingMenuItem struct {
	MenuItemID string `bson:"menu_item_id" json:"menu_item_id"` // Catalog menu item reference
	Name       string `bson:"name" json:"name"`                 // Snapshot of the item name
	Category   string `bson:"category,omitempty" json:"category,omitempty"`
	IsAddon    bool   `bson:"is_addon" json:"is_addon"`     // Add-ons are priced as individual line totals
	UnitPrice  string `bson:"unit_price" json:"unit_price"` // Decimal string, price at time of booking
	Quantity   int    `bson:"quantity" json:"quantity"`
}

// IsTerminal reports whether the booking can no longer transition.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusExpired, BookingStatusCompleted:
		return true
	}
	return false
}
