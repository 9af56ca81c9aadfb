package model

import (
	"time"

	"github.com/google/uuid"
)

// WasteReason classifies why food was thrown out.
type WasteReason string

// Waste reasons.
const (
	WasteSpoiled   WasteReason = "spoiled"
	WasteNeverUsed WasteReason = "never_used"
	WasteOverripe  WasteReason = "overripe"
	WasteOther     WasteReason = "other"
)

// Valid reports whether r is a known waste reason.
func (r WasteReason) Valid() bool {
	switch r {
	case WasteSpoiled, WasteNeverUsed, WasteOverripe, WasteOther:
		return true
	}
	return false
}

// WasteRecord is one logged food-waste event.
type WasteRecord struct {
	LoggedDate    time.Time
	ID            uuid.UUID
	ItemName      string
	Unit          string
	LoggedBy      string
	Reason        WasteReason
	Quantity      float64
	EstimatedCost float64 // 0 when unknown
}

// WasteReasonCount is one slice of the by-reason breakdown.
type WasteReasonCount struct {
	Reason WasteReason
	Count  int
}

// WasteItemCount ranks an item by how often it was wasted.
type WasteItemCount struct {
	ItemName string
	Count    int
	Cost     float64
}

// WasteSummary aggregates waste records over a reporting period.
type WasteSummary struct {
	Start      time.Time
	End        time.Time
	Period     string
	ByReason   []WasteReasonCount
	MostWasted []WasteItemCount
	Insights   []string
	Items      int
	TotalCost  float64
}
