package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
)

func setupDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestSaveAndLoadListPreservesOrder(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	items := []model.ListItem{
		model.NewListItem("Milk"),
		model.NewListItem("Eggs"),
		model.NewListItem("Bread"),
	}
	require.NoError(t, s.SaveList(ctx, items))

	loaded, err := s.LoadList(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "Milk", loaded[0].Name)
	assert.Equal(t, "Eggs", loaded[1].Name)
	assert.Equal(t, "Bread", loaded[2].Name)
	assert.Equal(t, items[0].ID, loaded[0].ID)
}

func TestSaveListReplacesWholesale(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveList(ctx, []model.ListItem{model.NewListItem("Milk")}))
	require.NoError(t, s.SaveList(ctx, []model.ListItem{model.NewListItem("Eggs")}))

	loaded, err := s.LoadList(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Eggs", loaded[0].Name)
}

func TestSaveListRoundTripsAllFields(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	item := model.NewListItem("Coffee")
	item.Quantity = 2
	item.Unit = "bag"
	item.Category = "Pantry"
	item.Store = "Trader Joe's"
	item.Priority = model.PriorityHigh
	item.AddedBy = "sam"
	item.Notes = "dark roast"
	item.EstimatedPrice = 11.99
	require.NoError(t, s.SaveList(ctx, []model.ListItem{item}))

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, item.Unit, got.Unit)
	assert.Equal(t, item.Category, got.Category)
	assert.Equal(t, item.Store, got.Store)
	assert.Equal(t, item.Priority, got.Priority)
	assert.Equal(t, item.AddedBy, got.AddedBy)
	assert.Equal(t, item.Notes, got.Notes)
	assert.InDelta(t, item.EstimatedPrice, got.EstimatedPrice, 1e-9)
}

func TestGetItemNotFound(t *testing.T) {
	s := setupDB(t)

	_, err := s.GetItem(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveListRejectsInvalidItem(t *testing.T) {
	s := setupDB(t)

	bad := model.NewListItem("Milk")
	bad.Priority = "urgent"
	err := s.SaveList(context.Background(), []model.ListItem{bad})
	require.Error(t, err)
}

func testReceipt(store string, date time.Time) *model.Receipt {
	return &model.Receipt{
		ID:              uuid.New(),
		StoreName:       store,
		TransactionDate: date,
		CreatedAt:       date,
		Subtotal:        5.49,
		Total:           5.49,
		LineItems: []model.LineItem{
			{ItemName: "Milk", Quantity: 1, UnitPrice: 3.50, TotalPrice: 3.50},
			{ItemName: "Bananas", Quantity: 1, UnitPrice: 1.99, TotalPrice: 1.99, Sale: true},
		},
	}
}

func TestSaveAndGetReceipt(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	receipt := testReceipt("Safeway", day(2026, time.March, 5))
	receipt.LineItems[0].MatchedItemID = uuid.New()
	require.NoError(t, s.SaveReceipt(ctx, receipt))

	got, err := s.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Safeway", got.StoreName)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "Milk", got.LineItems[0].ItemName)
	assert.Equal(t, receipt.LineItems[0].MatchedItemID, got.LineItems[0].MatchedItemID)
	assert.True(t, got.LineItems[1].Sale)
}

func TestSaveReceiptDuplicateHashRejected(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReceipt(ctx, testReceipt("Safeway", day(2026, time.March, 5))))
	err := s.SaveReceipt(ctx, testReceipt("Safeway", day(2026, time.March, 5)))
	require.Error(t, err)
}

func TestListReceiptsDateRange(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReceipt(ctx, testReceipt("Safeway", day(2026, time.March, 5))))
	require.NoError(t, s.SaveReceipt(ctx, testReceipt("Costco", day(2026, time.April, 2))))

	receipts, err := s.ListReceipts(ctx, day(2026, time.March, 1), day(2026, time.March, 31))
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "Safeway", receipts[0].StoreName)
	assert.Len(t, receipts[0].LineItems, 2)
}

func TestPricePointsAppendAndQuery(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	points := []model.PricePoint{
		{ItemName: "milk", Store: "Safeway", Date: day(2026, time.January, 3), Price: 3.00},
		{ItemName: "milk", Store: "Costco", Date: day(2026, time.January, 10), Price: 2.50, Sale: true},
		{ItemName: "eggs", Store: "Safeway", Date: day(2026, time.January, 3), Price: 4.25},
	}
	require.NoError(t, s.AppendPricePoints(ctx, points))

	milk, err := s.GetPricePoints(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, milk, 2)
	assert.Equal(t, day(2026, time.January, 3), milk[0].Date)
	assert.True(t, milk[1].Sale)

	all, err := s.GetPricePoints(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPurchasesAppendAndQuery(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	require.NoError(t, s.AppendPurchases(ctx, []model.PurchaseRecord{
		{ItemName: "milk", Store: "Safeway", Date: day(2026, time.January, 3), Quantity: 1},
		{ItemName: "milk", Store: "Safeway", Date: day(2026, time.January, 10), Quantity: 2},
	}))

	purchases, err := s.GetPurchases(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.InDelta(t, 2, purchases[1].Quantity, 1e-9)
}

func TestOutOfStockKeyedByCanonicalName(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	record := &model.OutOfStockRecord{
		ItemName:     "Organic Oat Milk",
		Store:        "Safeway",
		Substitution: "Soy Milk",
		ReportedBy:   "sam",
	}
	require.NoError(t, s.AppendOutOfStock(ctx, record))
	assert.NotEqual(t, uuid.Nil, record.ID)

	got, err := s.GetOutOfStock(ctx, "oat milk")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Organic Oat Milk", got[0].ItemName)
	assert.Equal(t, "Soy Milk", got[0].Substitution)
}

func TestSavingsRejectsNegativeAmount(t *testing.T) {
	s := setupDB(t)

	err := s.AppendSavings(context.Background(), []model.SavingsRecord{
		{ID: uuid.New(), ItemName: "Milk", Date: day(2026, time.March, 5), Amount: -1, Source: model.SavingsManual},
	})
	require.Error(t, err)
}

func TestTransactionCommitAndRollback(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveList(ctx, []model.ListItem{model.NewListItem("Milk")}))
	require.NoError(t, tx.Commit())

	items, err := s.LoadList(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	tx, err = s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveList(ctx, nil))
	require.NoError(t, tx.Rollback())

	items, err = s.LoadList(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1, "rolled back delete must not be visible")
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := setupDB(t)
	require.NoError(t, s.Migrate(context.Background()))
}
