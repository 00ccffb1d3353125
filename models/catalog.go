package models

import "time"

// Package pricing units.
const (
	PriceUnitPerGuest = "per_guest"
	PriceUnitFlat     = "flat"
)

// CatererProfile is the business counterparty to a booking. Profile CRUD is
// owned elsewhere; the engine reads it for ownership and catalog checks.
type CatererProfile struct {
	ID           string    `bson:"id" json:"id"`                 // Unique caterer identifier
	OwnerUserID  string    `bson:"owner_user_id" json:"owner_user_id"` // User account operating this profile
	BusinessName string    `bson:"business_name" json:"business_name"`
	City         string    `bson:"city,omitempty" json:"city,omitempty"`
	CuisineTypes []string  `bson:"cuisine_types,omitempty" json:"cuisine_types,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// CateringPackage is a caterer-defined combination of price, guest-count
// bounds and a menu, bookable by customers.
type CateringPackage struct {
	ID          string            `bson:"id" json:"id"`               // Unique package identifier
	CatererID   string            `bson:"caterer_id" json:"caterer_id"`
	Name        string            `bson:"name" json:"name"`
	Description string            `bson:"description,omitempty" json:"description,omitempty"`
	Price       string            `bson:"price" json:"price"`           // Decimal string
	PriceUnit   string            `bson:"price_unit" json:"price_unit"` // per_guest or flat
	MinGuests   int               `bson:"min_guests" json:"min_guests"`
	MaxGuests   int               `bson:"max_guests,omitempty" json:"max_guests,omitempty"` // 0 means no upper bound
	MenuItems   []PackageMenuItem `bson:"menu_items,omitempty" json:"menu_items,omitempty"`
	IsActive    bool              `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
}

// PackageMenuItem is a menu entry within a package. Add-ons are optional
// extras billed per line on top of the package price.
type PackageMenuItem struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Category string `bson:"category,omitempty" json:"category,omitempty"`
	Price    string `bson:"price" json:"price"` // Decimal string
	IsAddon  bool   `bson:"is_addon" json:"is_addon"`
}

// FindMenuItem returns the menu item with the given id, or nil.
func (p *CateringPackage) FindMenuItem(id string) *PackageMenuItem {
	for i := range p.MenuItems {
		if p.MenuItems[i].ID == id {
			return &p.MenuItems[i]
		}
	}
	return nil
}
