package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/testutil"
)

func TestAddAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(db.Storage)

	_, err := mgr.Add(ctx, "Flour", AddOptions{Quantity: 2, Unit: "lb"})
	require.NoError(t, err)
	_, err = mgr.Add(ctx, "Butter", AddOptions{Location: model.LocationFridge})
	require.NoError(t, err)

	all, err := mgr.Items(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Flour", all[0].Name)
	assert.Equal(t, model.LocationPantry, all[0].Location)

	fridge, err := mgr.Items(ctx, Filter{Location: model.LocationFridge})
	require.NoError(t, err)
	require.Len(t, fridge, 1)
	assert.Equal(t, "Butter", fridge[0].Name)
}

func TestAddRejectsBadInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(db.Storage)

	_, err := mgr.Add(ctx, "  ", AddOptions{})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = mgr.Add(ctx, "Flour", AddOptions{Location: "garage"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUseFloorsAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(db.Storage)

	item, err := mgr.Add(ctx, "Eggs", AddOptions{Quantity: 6})
	require.NoError(t, err)

	updated, err := mgr.Use(ctx, item.ID, 2)
	require.NoError(t, err)
	assert.InDelta(t, 4, updated.Quantity, 1e-9)

	updated, err = mgr.Use(ctx, item.ID, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0, updated.Quantity, 1e-9)

	_, err = mgr.Use(ctx, item.ID, 0)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = mgr.Use(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(db.Storage)

	item, err := mgr.Add(ctx, "Chicken", AddOptions{Location: model.LocationFridge})
	require.NoError(t, err)

	freezer := model.LocationFreezer
	threshold := 2.0
	updated, err := mgr.Update(ctx, item.ID, UpdateOptions{
		Location:          &freezer,
		LowStockThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.Equal(t, model.LocationFreezer, updated.Location)
	assert.InDelta(t, 2.0, updated.LowStockThreshold, 1e-9)

	// Untouched fields survive.
	assert.Equal(t, "Chicken", updated.Name)
}

func TestRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(db.Storage)

	item, err := mgr.Add(ctx, "Flour", AddOptions{})
	require.NoError(t, err)

	removed, err := mgr.Remove(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flour", removed.Name)

	all, err := mgr.Items(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = mgr.Remove(ctx, item.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExpiringSoon(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(db.Storage)

	now := testutil.Day(2026, time.June, 10)
	tomorrow := testutil.Day(2026, time.June, 11)
	nextWeek := testutil.Day(2026, time.June, 17)
	yesterday := testutil.Day(2026, time.June, 9)

	_, err := mgr.Add(ctx, "Yogurt", AddOptions{ExpirationDate: &tomorrow, Location: model.LocationFridge})
	require.NoError(t, err)
	_, err = mgr.Add(ctx, "Cheese", AddOptions{ExpirationDate: &nextWeek, Location: model.LocationFridge})
	require.NoError(t, err)
	_, err = mgr.Add(ctx, "Spinach", AddOptions{ExpirationDate: &yesterday, Location: model.LocationFridge})
	require.NoError(t, err)
	_, err = mgr.Add(ctx, "Rice", AddOptions{})
	require.NoError(t, err)

	expiring, err := mgr.ExpiringSoon(ctx, 3, now)
	require.NoError(t, err)
	require.Len(t, expiring, 2)

	// Soonest first; items without an expiration date are skipped.
	assert.Equal(t, "Spinach", expiring[0].Name)
	assert.Equal(t, "Yogurt", expiring[1].Name)
	assert.True(t, expiring[0].IsExpired(now))
}

func TestLowStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(db.Storage)

	_, err := mgr.Add(ctx, "Olive Oil", AddOptions{Quantity: 0.5, LowStockThreshold: 1})
	require.NoError(t, err)
	_, err = mgr.Add(ctx, "Pasta", AddOptions{Quantity: 5, LowStockThreshold: 1})
	require.NoError(t, err)

	low, err := mgr.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Olive Oil", low[0].Name)
}

func TestAddFromReceipt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(db.Storage)

	receipt := testutil.Receipt("Costco", testutil.Day(2026, time.March, 7),
		testutil.Line("Rice", 2, 12.99),
		testutil.Line("Soy Sauce", 1, 2.50),
	)

	added, err := mgr.AddFromReceipt(ctx, receipt)
	require.NoError(t, err)
	require.Len(t, added, 2)

	all, err := mgr.Items(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Rice", all[0].Name)
	assert.InDelta(t, 2, all[0].Quantity, 1e-9)
	assert.Equal(t, receipt.ID, all[0].ReceiptID)
	assert.Equal(t, receipt.TransactionDate, all[0].PurchasedDate.UTC())
}
