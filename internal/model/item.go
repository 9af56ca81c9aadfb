// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Priority indicates how urgently an item is needed.
type Priority string

// Priority levels.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the numeric weight used for route ordering.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 1
}

// Valid reports whether p is a known priority level.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ItemStatus tracks where a list item is in its lifecycle.
type ItemStatus string

// Item status constants.
const (
	StatusToBuy       ItemStatus = "to_buy"
	StatusBought      ItemStatus = "bought"
	StatusStillNeeded ItemStatus = "still_needed"
)

// Valid reports whether s is a known item status.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusToBuy, StatusBought, StatusStillNeeded:
		return true
	}
	return false
}

// Open reports whether the item is still waiting to be purchased.
func (s ItemStatus) Open() bool {
	return s == StatusToBuy || s == StatusStillNeeded
}

// ListItem is a single entry on the household shopping list.
type ListItem struct {
	AddedAt        time.Time
	UpdatedAt      time.Time
	ID             uuid.UUID
	Name           string
	Unit           string
	Category       string
	Store          string // preferred store, may be empty
	AddedBy        string
	Notes          string
	Priority       Priority
	Status         ItemStatus
	Quantity       float64
	EstimatedPrice float64 // actual price once bought
}

// NewListItem creates a list item with a fresh id and to_buy status.
func NewListItem(name string) ListItem {
	now := time.Now()
	return ListItem{
		ID:        uuid.New(),
		Name:      name,
		Quantity:  1,
		Category:  CategoryOther,
		Priority:  PriorityMedium,
		Status:    StatusToBuy,
		AddedAt:   now,
		UpdatedAt: now,
	}
}

// CategoryOther is the fallback product category.
const CategoryOther = "Other"
