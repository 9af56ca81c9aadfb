package model

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLocation is where an item is stored in the house.
type InventoryLocation string

// Storage locations.
const (
	LocationPantry  InventoryLocation = "pantry"
	LocationFridge  InventoryLocation = "fridge"
	LocationFreezer InventoryLocation = "freezer"
)

// Valid reports whether l is a known storage location.
func (l InventoryLocation) Valid() bool {
	switch l {
	case LocationPantry, LocationFridge, LocationFreezer:
		return true
	}
	return false
}

// InventoryItem is something currently in the house, as opposed to a
// ListItem, which is something to buy.
type InventoryItem struct {
	PurchasedDate     time.Time
	ExpirationDate    *time.Time // nil when unknown
	ID                uuid.UUID
	ReceiptID         uuid.UUID // zero unless added from a receipt
	Name              string
	Category          string
	Unit              string
	AddedBy           string
	Location          InventoryLocation
	Quantity          float64
	LowStockThreshold float64
}

// NewInventoryItem creates a pantry item with a fresh id and defaults.
func NewInventoryItem(name string) InventoryItem {
	return InventoryItem{
		ID:                uuid.New(),
		Name:              name,
		Category:          CategoryOther,
		Location:          LocationPantry,
		Quantity:          1,
		LowStockThreshold: 1,
		PurchasedDate:     time.Now(),
	}
}

// IsExpired reports whether the item's expiration date has passed.
func (i InventoryItem) IsExpired(now time.Time) bool {
	return i.ExpirationDate != nil && i.ExpirationDate.Before(now)
}

// IsLowStock reports whether the quantity is at or below the threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// DaysUntilExpiration returns whole days until expiry; ok is false when no
// expiration date is set.
func (i InventoryItem) DaysUntilExpiration(now time.Time) (days int, ok bool) {
	if i.ExpirationDate == nil {
		return 0, false
	}
	return int(i.ExpirationDate.Sub(now).Hours() / 24), true
}
