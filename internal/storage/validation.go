package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidItem      = errors.New("invalid list item")
	ErrInvalidReceipt   = errors.New("invalid receipt")
	ErrInvalidRecord    = errors.New("invalid record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateListItems validates the full list before a replace-on-save.
func validateListItems(items []model.ListItem) error {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if err := validateListItem(&item); err != nil {
			return fmt.Errorf("item at index %d: %w", i, err)
		}
		id := item.ID.String()
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidItem, id)
		}
		seen[id] = true
	}
	return nil
}

// validateListItem validates a single list item.
func validateListItem(item *model.ListItem) error {
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if item.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidItem)
	}
	if !item.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidItem, item.Priority)
	}
	if !item.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidItem, item.Status)
	}
	return nil
}

// validateReceipt validates a receipt before persistence.
func validateReceipt(receipt *model.Receipt) error {
	if receipt == nil {
		return fmt.Errorf("%w: receipt", ErrNilParameter)
	}
	if receipt.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidReceipt)
	}
	if strings.TrimSpace(receipt.StoreName) == "" {
		return fmt.Errorf("%w: missing store name", ErrInvalidReceipt)
	}
	if receipt.TransactionDate.IsZero() {
		return fmt.Errorf("%w: missing transaction date", ErrInvalidReceipt)
	}
	if len(receipt.LineItems) == 0 {
		return fmt.Errorf("%w: no line items", ErrInvalidReceipt)
	}
	for i, li := range receipt.LineItems {
		if strings.TrimSpace(li.ItemName) == "" {
			return fmt.Errorf("%w: line item %d missing name", ErrInvalidReceipt, i)
		}
	}
	return nil
}

// validateInventoryItems validates the full inventory before a replace-on-save.
func validateInventoryItems(items []model.InventoryItem) error {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.ID == uuid.Nil {
			return fmt.Errorf("%w: inventory item at index %d missing id", ErrInvalidItem, i)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: inventory item at index %d missing name", ErrInvalidItem, i)
		}
		if !item.Location.Valid() {
			return fmt.Errorf("%w: location %q", ErrInvalidItem, item.Location)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: negative quantity for %s", ErrInvalidItem, item.Name)
		}
		id := item.ID.String()
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidItem, id)
		}
		seen[id] = true
	}
	return nil
}

// validateWaste validates a waste log entry.
func validateWaste(record *model.WasteRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(record.ItemName) == "" {
		return fmt.Errorf("%w: missing item name", ErrInvalidRecord)
	}
	if !record.Reason.Valid() {
		return fmt.Errorf("%w: reason %q", ErrInvalidRecord, record.Reason)
	}
	if record.EstimatedCost < 0 {
		return fmt.Errorf("%w: negative cost", ErrInvalidRecord)
	}
	return nil
}

// validateOutOfStock validates an out-of-stock report.
func validateOutOfStock(record *model.OutOfStockRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(record.ItemName) == "" {
		return fmt.Errorf("%w: missing item name", ErrInvalidRecord)
	}
	if strings.TrimSpace(record.Store) == "" {
		return fmt.Errorf("%w: missing store", ErrInvalidRecord)
	}
	return nil
}
