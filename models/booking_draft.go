package models

import "time"

// Wizard phases. Each phase only accepts the fields valid at that step and
// the draft is validated at the phase boundary before it advances.
const (
	DraftPhaseCaterer = "caterer" // caterer/package chosen
	DraftPhaseDate    = "date"    // event date, guests captured
	DraftPhaseDetails = "details" // event name, type, venue captured
	DraftPhaseReview  = "review"  // priced, ready to commit
)

// BookingDraft is the typed wizard aggregate held in the session store
// between steps. Only the engine mutates it, one phase at a time.
type BookingDraft struct {
	DraftID         string    `json:"draft_id"`
	CustomerID      string    `json:"customer_id"`
	Phase           string    `json:"phase"`
	CatererID       string    `json:"caterer_id"`
	PackageID       string    `json:"package_id,omitempty"`
	AddonItemIDs    []string  `json:"addon_item_ids,omitempty"` // Selected add-on menu items
	EventDate       string    `json:"event_date,omitempty"`
	EventTime       string    `json:"event_time,omitempty"`
	GuestCount      int       `json:"guest_count,omitempty"`
	EventName       string    `json:"event_name,omitempty"`
	EventType       string    `json:"event_type,omitempty"`
	VenueAddress    string    `json:"venue_address,omitempty"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	TotalAmount     string    `json:"total_amount,omitempty"` // Decimal string, computed at review
	CreatedAt       time.Time `json:"created_at"`
}
