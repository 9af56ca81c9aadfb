package model

import (
	"time"

	"github.com/google/uuid"
)

// Confidence is a qualitative label for sample-size sufficiency.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FrequencyConfidence maps a purchase count to a confidence label.
func FrequencyConfidence(purchases int) Confidence {
	switch {
	case purchases >= 5:
		return ConfidenceHigh
	case purchases >= 3:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// PricePoint is a single append-only price observation. History is a log;
// points are never mutated or deleted.
type PricePoint struct {
	Date      time.Time // calendar date, midnight UTC
	ItemName  string    // canonical item key
	Store     string
	Unit      string
	ReceiptID uuid.UUID
	Price     float64
	Sale      bool
}

// PurchaseRecord is one purchase event for frequency tracking.
type PurchaseRecord struct {
	Date     time.Time
	ItemName string // canonical item key
	Store    string
	Quantity float64
}

// PriceHistorySummary aggregates price observations for an item, optionally
// scoped to one store.
type PriceHistorySummary struct {
	ItemName string
	Store    string // empty when aggregated across stores
	Current  float64
	Average  float64
	Min      float64
	Max      float64
	Points   []PricePoint
}

// FrequencySummary describes how often an item is purchased. AverageDays and
// NextExpected are nil until at least two purchases exist.
type FrequencySummary struct {
	NextExpected   *time.Time
	AverageDays    *float64
	LastPurchased  time.Time
	ItemName       string
	Confidence     Confidence
	TotalPurchases int
}
