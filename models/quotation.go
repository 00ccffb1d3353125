package models

import "time"

// Quotation statuses.
const (
	QuotationStatusDraft  = "draft"
	QuotationStatusSent   = "sent"
	QuotationStatusSigned = "signed"
)

// Downpayment percent bounds enforced by the quotation engine.
const (
	MinDownpaymentPercent     = 30
	MaxDownpaymentPercent     = 50
	DefaultDownpaymentPercent = 30
)

// Quotation is the derived pricing artifact of a booking, one per booking.
// It is created lazily on first request and never overwritten afterwards.
type Quotation struct {
	ID                 string          `bson:"id" json:"id"`                     // Unique quotation identifier (UUID)
	BookingID          string          `bson:"booking_id" json:"booking_id"`     // Owning booking (1:1)
	PackageDetails     PackageSnapshot `bson:"package_details" json:"package_details"`
	Addons             []QuotationLine `bson:"addons,omitempty" json:"addons,omitempty"` // Add-on line snapshots summed into the total
	TotalAmount        string          `bson:"total_amount" json:"total_amount"`         // Decimal string
	DownpaymentPercent int             `bson:"downpayment_percent" json:"downpayment_percent"` // Always within [30, 50]
	ReservationFee     string          `bson:"reservation_fee" json:"reservation_fee"`         // total * percent / 100, decimal string
	ContractURL        string          `bson:"contract_url,omitempty" json:"contract_url,omitempty"` // Signed-contract reference
	Status             string          `bson:"status" json:"status"`                                 // draft -> sent -> signed
	CreatedAt          time.Time       `bson:"created_at" json:"created_at"`
}

// PackageSnapshot captures package details at quotation time.
type PackageSnapshot struct {
	PackageID   string `bson:"package_id" json:"package_id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	UnitPrice   string `bson:"unit_price" json:"unit_price"` // Decimal string, per-guest or flat
	PriceUnit   string `bson:"price_unit" json:"price_unit"` // "per_guest" or "flat"
	GuestCount  int    `bson:"guest_count" json:"guest_count"`
}

// QuotationLine is one add-on line total within a quotation.
type QuotationLine struct {
	Name      string `bson:"name" json:"name"`
	UnitPrice string `bson:"unit_price" json:"unit_price"` // Decimal string
	Quantity  int    `bson:"quantity" json:"quantity"`
	LineTotal string `bson:"line_total" json:"line_total"` // unit_price * quantity, decimal string
}
