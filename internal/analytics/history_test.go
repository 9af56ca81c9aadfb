package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/testutil"
)

func seedPrices(t *testing.T, db *testutil.TestDB, points ...model.PricePoint) {
	t.Helper()
	require.NoError(t, db.Storage.AppendPricePoints(context.Background(), points))
}

func seedPurchases(t *testing.T, db *testutil.TestDB, purchases ...model.PurchaseRecord) {
	t.Helper()
	require.NoError(t, db.Storage.AppendPurchases(context.Background(), purchases))
}

func point(item, store string, date time.Time, price float64) model.PricePoint {
	return model.PricePoint{ItemName: item, Store: store, Date: date, Price: price}
}

func purchase(item, store string, date time.Time) model.PurchaseRecord {
	return model.PurchaseRecord{ItemName: item, Store: store, Date: date, Quantity: 1}
}

func TestPriceHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})
	ctx := context.Background()

	seedPrices(t, db,
		point("milk", "Safeway", testutil.Day(2026, time.January, 3), 3.00),
		point("milk", "Costco", testutil.Day(2026, time.January, 10), 2.50),
		point("milk", "Safeway", testutil.Day(2026, time.January, 17), 3.50),
	)

	summary, err := a.PriceHistory(ctx, "Organic Milk", "")
	require.NoError(t, err)
	assert.Equal(t, "milk", summary.ItemName)
	assert.InDelta(t, 3.50, summary.Current, 1e-9)
	assert.InDelta(t, 3.00, summary.Average, 1e-9)
	assert.InDelta(t, 2.50, summary.Min, 1e-9)
	assert.InDelta(t, 3.50, summary.Max, 1e-9)
	assert.Len(t, summary.Points, 3)
}

func TestPriceHistoryStoreScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPrices(t, db,
		point("milk", "Safeway", testutil.Day(2026, time.January, 3), 3.00),
		point("milk", "Costco", testutil.Day(2026, time.January, 10), 2.50),
	)

	summary, err := a.PriceHistory(context.Background(), "milk", "Costco")
	require.NoError(t, err)
	assert.Len(t, summary.Points, 1)
	assert.InDelta(t, 2.50, summary.Current, 1e-9)
}

func TestPriceHistoryUnknownItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	_, err := a.PriceHistory(context.Background(), "unobtainium", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestComparePricesCheapestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPrices(t, db,
		point("milk", "Safeway", testutil.Day(2026, time.January, 3), 3.00),
		point("milk", "Costco", testutil.Day(2026, time.January, 5), 2.50),
		point("milk", "Safeway", testutil.Day(2026, time.January, 10), 3.25),
	)

	prices, err := a.ComparePrices(context.Background(), "milk")
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "Costco", prices[0].Store)
	assert.InDelta(t, 2.50, prices[0].Price, 1e-9)
	assert.InDelta(t, 3.25, prices[1].Price, 1e-9)
}

func TestFrequency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPurchases(t, db,
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 1)),
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 6)),
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 11)),
	)

	summary, err := a.Frequency(context.Background(), "milk")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalPurchases)
	assert.Equal(t, model.ConfidenceMedium, summary.Confidence)
	require.NotNil(t, summary.AverageDays)
	assert.InDelta(t, 5, *summary.AverageDays, 1e-9)
	require.NotNil(t, summary.NextExpected)
	assert.Equal(t, testutil.Day(2026, time.January, 16), *summary.NextExpected)
}

func TestFrequencySinglePurchase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPurchases(t, db, purchase("milk", "Safeway", testutil.Day(2026, time.January, 1)))

	summary, err := a.Frequency(context.Background(), "milk")
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceLow, summary.Confidence)
	assert.Nil(t, summary.AverageDays)
	assert.Nil(t, summary.NextExpected)
}
