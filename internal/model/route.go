package model

import "github.com/google/uuid"

// AssignmentSource records how a route item got its store.
type AssignmentSource string

// Assignment sources, in precedence order.
const (
	AssignedByPreference AssignmentSource = "explicit_preference"
	AssignedByHistory    AssignmentSource = "history"
	Unassigned           AssignmentSource = "unassigned"
)

// RouteAssignment binds one open list item to a store.
type RouteAssignment struct {
	ItemID         uuid.UUID
	ItemName       string
	Store          string // empty when unassigned
	Source         AssignmentSource
	Priority       Priority
	Quantity       float64
	EstimatedPrice float64 // 0 when no history
}

// RouteStop is a single store visit grouping its assigned items.
type RouteStop struct {
	Store          string
	Items          []RouteAssignment
	PriorityWeight int
	EstimatedTotal float64
}

// ShoppingRoute orders store stops deterministically and tracks items that
// could not be assigned anywhere.
type ShoppingRoute struct {
	Stops           []RouteStop
	UnassignedItems []RouteAssignment
	TotalItems      int
	EstimatedTotal  float64
}
