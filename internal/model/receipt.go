package model

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LineItem is one purchased line on a receipt, as printed.
type LineItem struct {
	ItemName         string
	Quantity         float64
	UnitPrice        float64
	TotalPrice       float64
	RegularUnitPrice float64 // pre-sale shelf price when the receipt shows one; 0 if unknown
	DiscountAmount   float64 // explicit line-level discount
	CouponAmount     float64 // explicit line-level coupon
	Sale             bool
	MatchedItemID    uuid.UUID // zero when the line matched nothing on the list
}

// OnSale reports whether the line should be recorded as a sale price.
func (li LineItem) OnSale() bool {
	if li.Sale || li.DiscountAmount > 0 || li.CouponAmount > 0 {
		return true
	}
	return li.RegularUnitPrice > li.UnitPrice
}

// ExplicitSavings returns the line's own discount value: explicit discount and
// coupon amounts when present, otherwise the regular-price delta times quantity.
func (li LineItem) ExplicitSavings() float64 {
	explicit := max(li.DiscountAmount, 0) + max(li.CouponAmount, 0)
	if explicit > 0 {
		return explicit
	}
	if li.RegularUnitPrice > li.UnitPrice {
		return (li.RegularUnitPrice - li.UnitPrice) * li.Quantity
	}
	return 0
}

// Receipt is an immutable record of one store visit. Corrections require a
// new receipt; persisted receipts are never mutated.
type Receipt struct {
	CreatedAt       time.Time
	TransactionDate time.Time // calendar date, midnight UTC
	ID              uuid.UUID
	StoreName       string
	StoreLocation   string
	TransactionTime string // "15:04" when known
	PurchasedBy     string
	PaymentMethod   string
	LineItems       []LineItem
	Subtotal        float64
	Tax             float64
	DiscountTotal   float64 // receipt-level discount
	CouponTotal     float64 // receipt-level coupons
	Total           float64
}

// GenerateHash creates a stable hash for duplicate receipt detection. Line
// items are sorted before hashing so the hash does not depend on print order,
// and each line's name, quantity, and price contribute so two different
// same-day receipts with a coinciding total never collide.
func (r *Receipt) GenerateHash() string {
	lines := make([]string, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		lines = append(lines, fmt.Sprintf("%s|%.3f|%.2f",
			strings.ToLower(strings.TrimSpace(li.ItemName)), li.Quantity, li.TotalPrice))
	}
	sort.Strings(lines)

	data := fmt.Sprintf("%s:%s:%.2f:%s",
		r.StoreName,
		r.TransactionDate.Format("2006-01-02"),
		r.Total,
		strings.Join(lines, ";"))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ReceiptLevelSavings returns the combined receipt-level discount and coupon
// value to prorate across line items.
func (r *Receipt) ReceiptLevelSavings() float64 {
	return max(r.DiscountTotal, 0) + max(r.CouponTotal, 0)
}

// ReconciliationResult reports the outcome of matching one receipt against
// the open shopping list.
type ReconciliationResult struct {
	ReceiptID   uuid.UUID
	Matched     []string // list item names marked bought
	StillNeeded []string // open list items the receipt did not cover
	NewlyBought []string // receipt lines that matched nothing on the list
	TotalSpent  float64
	LineItems   int
}
