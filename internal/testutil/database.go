// Package testutil provides shared test helpers: in-memory databases with
// migrations applied and list/receipt fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/service"
	"github.com/hearthward/grocer/internal/storage"
)

// TestDB wraps an in-memory storage instance for one test.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database. Cleanup is registered
// automatically.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedList replaces the stored shopping list, failing the test on error.
func (db *TestDB) SeedList(items []model.ListItem) {
	db.t.Helper()
	if err := db.Storage.SaveList(context.Background(), items); err != nil {
		db.t.Fatalf("failed to seed list: %v", err)
	}
}

// Item builds an open list item with sensible defaults for tests.
func Item(name string, mutate ...func(*model.ListItem)) model.ListItem {
	item := model.NewListItem(name)
	for _, fn := range mutate {
		fn(&item)
	}
	return item
}

// Receipt builds a receipt for the given store and day with the provided
// line items. Totals are derived from the lines.
func Receipt(store string, date time.Time, lines ...model.LineItem) *model.Receipt {
	r := &model.Receipt{
		ID:              uuid.New(),
		StoreName:       store,
		TransactionDate: date,
		CreatedAt:       date,
		LineItems:       lines,
	}
	for _, line := range lines {
		r.Subtotal += line.TotalPrice
	}
	r.Total = r.Subtotal
	return r
}

// Line builds a receipt line item. Unit price is derived when quantity is
// non-zero.
func Line(name string, quantity, totalPrice float64) model.LineItem {
	line := model.LineItem{
		ItemName:   name,
		Quantity:   quantity,
		TotalPrice: totalPrice,
	}
	if quantity > 0 {
		line.UnitPrice = totalPrice / quantity
	}
	return line
}

// Day returns midnight UTC for year/month/day, matching how reconciliation
// stores transaction dates.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
