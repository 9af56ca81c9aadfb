// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/model"
)

// Storage defines the contract for the persistence layer. The core treats
// every save as durable once the call returns. Receipts, price points,
// purchases, out-of-stock reports, and savings records are append-only; the
// shopping list is replaced wholesale on save.
type Storage interface {
	// Shopping list operations.
	LoadList(ctx context.Context) ([]model.ListItem, error)
	SaveList(ctx context.Context, items []model.ListItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*model.ListItem, error)

	// Receipt operations (append-only).
	SaveReceipt(ctx context.Context, receipt *model.Receipt) error
	GetReceipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	ListReceipts(ctx context.Context, start, end time.Time) ([]model.Receipt, error)

	// Price history operations (append-only). An empty itemKey loads all items.
	AppendPricePoints(ctx context.Context, points []model.PricePoint) error
	GetPricePoints(ctx context.Context, itemKey string) ([]model.PricePoint, error)

	// Purchase/frequency operations (append-only).
	AppendPurchases(ctx context.Context, purchases []model.PurchaseRecord) error
	GetPurchases(ctx context.Context, itemKey string) ([]model.PurchaseRecord, error)

	// Out-of-stock operations (append-only).
	AppendOutOfStock(ctx context.Context, record *model.OutOfStockRecord) error
	GetOutOfStock(ctx context.Context, itemKey string) ([]model.OutOfStockRecord, error)

	// Savings operations (append-only).
	AppendSavings(ctx context.Context, records []model.SavingsRecord) error
	GetSavings(ctx context.Context, start, end time.Time) ([]model.SavingsRecord, error)

	// Inventory operations; the inventory is replaced wholesale like the list.
	LoadInventory(ctx context.Context) ([]model.InventoryItem, error)
	SaveInventory(ctx context.Context, items []model.InventoryItem) error

	// Waste log operations (append-only).
	AppendWaste(ctx context.Context, record *model.WasteRecord) error
	GetWaste(ctx context.Context, itemKey string) ([]model.WasteRecord, error)

	// Database management.
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction. All Storage methods are
// available inside it; writes become visible only on Commit.
type Transaction interface {
	Commit() error
	Rollback() error
	Storage
}
