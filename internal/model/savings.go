package model

import (
	"time"

	"github.com/google/uuid"
)

// SavingsSource records where a savings amount came from.
type SavingsSource string

// Savings sources.
const (
	SavingsLineItem SavingsSource = "line_item_discount"
	SavingsReceipt  SavingsSource = "receipt_discount"
	SavingsManual   SavingsSource = "manual"
)

// SavingsRecord is one append-only realized-savings entry. Amount is always
// non-negative.
type SavingsRecord struct {
	Date      time.Time
	ID        uuid.UUID
	ReceiptID uuid.UUID
	ItemName  string
	Store     string
	Category  string
	Source    SavingsSource
	Amount    float64
}

// SavingsContributor is one name's aggregate within a savings summary.
type SavingsContributor struct {
	Name    string
	Total   float64
	Records int
}

// SavingsSummary aggregates savings records over a period.
type SavingsSummary struct {
	Start        time.Time
	End          time.Time
	Period       string
	ByItem       []SavingsContributor
	ByStore      []SavingsContributor
	ByCategory   []SavingsContributor
	BySource     []SavingsContributor
	Total        float64
	Records      int
	ReceiptCount int
}

// CategorySpend is one category's share of a spending summary.
type CategorySpend struct {
	Category string
	Total    float64
	Percent  float64
	Items    int
}

// SpendingSummary aggregates receipt spending over a period.
type SpendingSummary struct {
	Start        time.Time
	End          time.Time
	Period       string
	Categories   []CategorySpend
	Total        float64
	ReceiptCount int
	ItemCount    int
}
