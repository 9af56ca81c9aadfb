// Package inventory manages what is currently in the house: pantry, fridge,
// and freezer stock, with expiration and low-stock tracking.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/service"
)

// Manager performs inventory operations against storage.
type Manager struct {
	storage service.Storage
}

// NewManager creates an inventory manager.
func NewManager(storage service.Storage) *Manager {
	return &Manager{storage: storage}
}

// AddOptions carries the optional fields for Add.
type AddOptions struct {
	Quantity          float64
	Unit              string
	Category          string
	Location          model.InventoryLocation
	ExpirationDate    *time.Time
	LowStockThreshold float64
	PurchasedDate     time.Time
	ReceiptID         uuid.UUID
	AddedBy           string
}

// Add puts a new item into the inventory.
func (m *Manager) Add(ctx context.Context, name string, opts AddOptions) (*model.InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.Validationf("item name is required")
	}
	if opts.Location != "" && !opts.Location.Valid() {
		return nil, common.Validationf("unknown location %q", opts.Location)
	}

	items, err := m.storage.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	item := model.NewInventoryItem(name)
	if opts.Quantity > 0 {
		item.Quantity = opts.Quantity
	}
	if opts.Unit != "" {
		item.Unit = opts.Unit
	}
	if opts.Category != "" {
		item.Category = opts.Category
	}
	if opts.Location != "" {
		item.Location = opts.Location
	}
	if opts.LowStockThreshold > 0 {
		item.LowStockThreshold = opts.LowStockThreshold
	}
	if !opts.PurchasedDate.IsZero() {
		item.PurchasedDate = opts.PurchasedDate
	}
	item.ExpirationDate = opts.ExpirationDate
	item.ReceiptID = opts.ReceiptID
	item.AddedBy = opts.AddedBy

	items = append(items, item)
	if err := m.storage.SaveInventory(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to save inventory: %w", err)
	}

	slog.Info("added inventory item", "name", item.Name, "location", item.Location)
	return &item, nil
}

// Remove deletes an item from the inventory and returns it.
func (m *Manager) Remove(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	items, err := m.storage.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}
		removed := items[i]
		items = append(items[:i], items[i+1:]...)
		if err := m.storage.SaveInventory(ctx, items); err != nil {
			return nil, fmt.Errorf("failed to save inventory: %w", err)
		}
		return &removed, nil
	}
	return nil, fmt.Errorf("%w: inventory item %s", common.ErrNotFound, id)
}

// Use consumes some quantity of an item. Quantity floors at zero; the item
// stays on hand so low-stock reporting can see it.
func (m *Manager) Use(ctx context.Context, id uuid.UUID, quantity float64) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, common.Validationf("quantity to use must be positive")
	}

	items, err := m.storage.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Quantity = max(items[i].Quantity-quantity, 0)
		if err := m.storage.SaveInventory(ctx, items); err != nil {
			return nil, fmt.Errorf("failed to save inventory: %w", err)
		}
		return &items[i], nil
	}
	return nil, fmt.Errorf("%w: inventory item %s", common.ErrNotFound, id)
}

// UpdateOptions carries the editable fields for Update. Nil means unchanged.
type UpdateOptions struct {
	Name              *string
	Quantity          *float64
	Unit              *string
	Category          *string
	Location          *model.InventoryLocation
	ExpirationDate    *time.Time
	LowStockThreshold *float64
}

// Update edits an inventory item in place.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, opts UpdateOptions) (*model.InventoryItem, error) {
	if opts.Location != nil && !opts.Location.Valid() {
		return nil, common.Validationf("unknown location %q", *opts.Location)
	}

	items, err := m.storage.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}
		item := &items[i]
		if opts.Name != nil {
			item.Name = *opts.Name
		}
		if opts.Quantity != nil {
			item.Quantity = *opts.Quantity
		}
		if opts.Unit != nil {
			item.Unit = *opts.Unit
		}
		if opts.Category != nil {
			item.Category = *opts.Category
		}
		if opts.Location != nil {
			item.Location = *opts.Location
		}
		if opts.ExpirationDate != nil {
			item.ExpirationDate = opts.ExpirationDate
		}
		if opts.LowStockThreshold != nil {
			item.LowStockThreshold = *opts.LowStockThreshold
		}
		if err := m.storage.SaveInventory(ctx, items); err != nil {
			return nil, fmt.Errorf("failed to save inventory: %w", err)
		}
		return item, nil
	}
	return nil, fmt.Errorf("%w: inventory item %s", common.ErrNotFound, id)
}

// Filter narrows Items results. Empty fields match everything.
type Filter struct {
	Location model.InventoryLocation
	Category string
}

// Items returns inventory entries matching the filter, in stored order.
func (m *Manager) Items(ctx context.Context, filter Filter) ([]model.InventoryItem, error) {
	items, err := m.storage.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	var filtered []model.InventoryItem
	for _, item := range items {
		if filter.Location != "" && item.Location != filter.Location {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(item.Category, filter.Category) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

// ExpiringSoon returns items expiring within the given number of days
// (already-expired included), soonest first.
func (m *Manager) ExpiringSoon(ctx context.Context, days int, now time.Time) ([]model.InventoryItem, error) {
	items, err := m.storage.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	cutoff := now.AddDate(0, 0, days)
	var expiring []model.InventoryItem
	for _, item := range items {
		if item.ExpirationDate != nil && !item.ExpirationDate.After(cutoff) {
			expiring = append(expiring, item)
		}
	}
	sort.Slice(expiring, func(i, j int) bool {
		return expiring[i].ExpirationDate.Before(*expiring[j].ExpirationDate)
	})
	return expiring, nil
}

// LowStock returns items at or below their low-stock threshold.
func (m *Manager) LowStock(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := m.storage.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	var low []model.InventoryItem
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// AddFromReceipt stocks the inventory with every line item on a processed
// receipt, carrying the purchase date and receipt reference.
func (m *Manager) AddFromReceipt(ctx context.Context, receipt *model.Receipt) ([]model.InventoryItem, error) {
	if receipt == nil {
		return nil, common.Validationf("receipt is required")
	}

	items, err := m.storage.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	var added []model.InventoryItem
	for _, line := range receipt.LineItems {
		item := model.NewInventoryItem(line.ItemName)
		if line.Quantity > 0 {
			item.Quantity = line.Quantity
		}
		item.PurchasedDate = receipt.TransactionDate
		item.ReceiptID = receipt.ID
		added = append(added, item)
	}

	items = append(items, added...)
	if err := m.storage.SaveInventory(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to save inventory: %w", err)
	}

	slog.Info("stocked inventory from receipt",
		"store", receipt.StoreName, "items", len(added))
	return added, nil
}
