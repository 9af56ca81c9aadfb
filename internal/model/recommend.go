package model

import (
	"time"

	"github.com/google/uuid"
)

// OutOfStockRecord notes that an item was unavailable at a store.
type OutOfStockRecord struct {
	Date         time.Time
	ID           uuid.UUID
	ItemName     string
	Store        string
	Substitution string // what was bought instead, if anything
	ReportedBy   string
}

// StoreScore is one store's ranking inputs for an item recommendation.
type StoreScore struct {
	LastObserved time.Time
	Store        string
	LatestPrice  float64
	Samples      int
	RecencyDays  int
}

// Substitution is a historically consistent replacement for an item.
type Substitution struct {
	ItemName   string
	Stores     []string
	Count      int
	Confidence Confidence
}

// Recommendation names the best store for an item with supporting scores.
type Recommendation struct {
	ItemName     string
	BestStore    string
	StoreScores  []StoreScore // ranked best first
	Substitution *Substitution
	Confidence   Confidence
}

// SuggestionType categorizes a shopping suggestion.
type SuggestionType string

// Suggestion types.
const (
	SuggestRestock    SuggestionType = "restock"
	SuggestPriceAlert SuggestionType = "price_alert"
	SuggestOutOfStock SuggestionType = "out_of_stock_pattern"
	SuggestSeasonal   SuggestionType = "seasonal_optimization"
)

// Suggestion is one prioritized shopping hint.
type Suggestion struct {
	Type     SuggestionType
	ItemName string
	Message  string
	Priority Priority
}
