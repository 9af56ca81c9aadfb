// Package list manages the household shopping list: adding, updating,
// marking items bought, and clearing completed entries.
package list

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/service"
)

// Manager performs shopping-list operations against storage.
type Manager struct {
	storage service.Storage
}

// NewManager creates a list manager backed by the given storage.
func NewManager(storage service.Storage) *Manager {
	return &Manager{storage: storage}
}

// AddOptions carries the optional fields for a new list item.
type AddOptions struct {
	Quantity       float64
	Unit           string
	Category       string
	Store          string
	Priority       model.Priority
	AddedBy        string
	Notes          string
	EstimatedPrice float64
	AllowDuplicate bool
}

// Add appends a new item to the list. Adding a name that already exists as
// an open item is rejected with ErrDuplicateItem unless explicitly allowed.
func (m *Manager) Add(ctx context.Context, name string, opts AddOptions) (*model.ListItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.Validationf("item name is required")
	}

	items, err := m.storage.LoadList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	if !opts.AllowDuplicate {
		for _, existing := range items {
			// Only to_buy items block a re-add; a still_needed item is a
			// leftover from a past trip and re-adding it is intentional.
			if strings.EqualFold(existing.Name, name) && existing.Status == model.StatusToBuy {
				return nil, fmt.Errorf("%w: %q is already on the list", common.ErrDuplicateItem, existing.Name)
			}
		}
	}

	item := model.NewListItem(name)
	if opts.Quantity > 0 {
		item.Quantity = opts.Quantity
	}
	if opts.Unit != "" {
		item.Unit = opts.Unit
	}
	if opts.Category != "" {
		item.Category = opts.Category
	}
	if opts.Store != "" {
		item.Store = opts.Store
	}
	if opts.Priority != "" {
		if !opts.Priority.Valid() {
			return nil, common.Validationf("unknown priority %q", opts.Priority)
		}
		item.Priority = opts.Priority
	}
	item.AddedBy = opts.AddedBy
	item.Notes = opts.Notes
	item.EstimatedPrice = opts.EstimatedPrice

	items = append(items, item)
	if err := m.storage.SaveList(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}

	slog.Info("added list item", "name", item.Name, "quantity", item.Quantity, "store", item.Store)
	return &item, nil
}

// UpdateOptions carries the mutable fields for an item update. Nil pointers
// leave the corresponding field unchanged.
type UpdateOptions struct {
	Name           *string
	Quantity       *float64
	Unit           *string
	Category       *string
	Store          *string
	Priority       *model.Priority
	Notes          *string
	Status         *model.ItemStatus
	EstimatedPrice *float64
}

// Update modifies an existing item in place.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, opts UpdateOptions) (*model.ListItem, error) {
	items, err := m.storage.LoadList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}

		item := &items[i]
		if opts.Name != nil {
			if strings.TrimSpace(*opts.Name) == "" {
				return nil, common.Validationf("item name cannot be empty")
			}
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
		if opts.Store != nil {
			item.Store = *opts.Store
		}
		if opts.Priority != nil {
			if !opts.Priority.Valid() {
				return nil, common.Validationf("unknown priority %q", *opts.Priority)
			}
			item.Priority = *opts.Priority
		}
		if opts.Notes != nil {
			item.Notes = *opts.Notes
		}
		if opts.Status != nil {
			if !opts.Status.Valid() {
				return nil, common.Validationf("unknown status %q", *opts.Status)
			}
			item.Status = *opts.Status
		}
		if opts.EstimatedPrice != nil {
			item.EstimatedPrice = *opts.EstimatedPrice
		}
		item.UpdatedAt = time.Now()

		if err := m.storage.SaveList(ctx, items); err != nil {
			return nil, fmt.Errorf("failed to save list: %w", err)
		}
		return item, nil
	}

	return nil, fmt.Errorf("%w: item %s", common.ErrNotFound, id)
}

// MarkBought transitions an item to bought, recording the actual quantity
// and price when provided (zero means unknown).
func (m *Manager) MarkBought(ctx context.Context, id uuid.UUID, quantity, price float64) (*model.ListItem, error) {
	items, err := m.storage.LoadList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}

		items[i].Status = model.StatusBought
		if quantity > 0 {
			items[i].Quantity = quantity
		}
		if price > 0 {
			items[i].EstimatedPrice = price
		}
		items[i].UpdatedAt = time.Now()

		if err := m.storage.SaveList(ctx, items); err != nil {
			return nil, fmt.Errorf("failed to save list: %w", err)
		}
		return &items[i], nil
	}

	return nil, fmt.Errorf("%w: item %s", common.ErrNotFound, id)
}

// Remove deletes an item from the list.
func (m *Manager) Remove(ctx context.Context, id uuid.UUID) (*model.ListItem, error) {
	items, err := m.storage.LoadList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}

		removed := items[i]
		items = append(items[:i], items[i+1:]...)
		if err := m.storage.SaveList(ctx, items); err != nil {
			return nil, fmt.Errorf("failed to save list: %w", err)
		}

		slog.Info("removed list item", "name", removed.Name)
		return &removed, nil
	}

	return nil, fmt.Errorf("%w: item %s", common.ErrNotFound, id)
}

// ClearBought removes all bought items and returns how many were cleared.
func (m *Manager) ClearBought(ctx context.Context) (int, error) {
	items, err := m.storage.LoadList(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load list: %w", err)
	}

	remaining := items[:0]
	for _, item := range items {
		if item.Status != model.StatusBought {
			remaining = append(remaining, item)
		}
	}

	cleared := len(items) - len(remaining)
	if cleared == 0 {
		return 0, nil
	}

	if err := m.storage.SaveList(ctx, remaining); err != nil {
		return 0, fmt.Errorf("failed to save list: %w", err)
	}
	return cleared, nil
}

// Filter selects list items by store, category, or status. Empty values
// match everything.
type Filter struct {
	Store    string
	Category string
	Status   model.ItemStatus
}

// Items returns list items matching the filter, in stored order.
func (m *Manager) Items(ctx context.Context, filter Filter) ([]model.ListItem, error) {
	items, err := m.storage.LoadList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	var out []model.ListItem
	for _, item := range items {
		if filter.Store != "" && !strings.EqualFold(item.Store, filter.Store) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(item.Category, filter.Category) {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// OpenItems returns items still waiting to be purchased, in stored order.
func (m *Manager) OpenItems(ctx context.Context) ([]model.ListItem, error) {
	items, err := m.storage.LoadList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	var open []model.ListItem
	for _, item := range items {
		if item.Status.Open() {
			open = append(open, item)
		}
	}
	return open, nil
}
