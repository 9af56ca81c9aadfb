package engine

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

func TestReconcileMatchesAndUpdatesList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	db.SeedList([]model.ListItem{
		testutil.Item("Bananas"),
		testutil.Item("Eggs"),
		testutil.Item("Milk"),
	})

	receipt := testutil.Receipt("Safeway", testutil.Day(2026, time.March, 5),
		testutil.Line("BANANAS ORGANIC", 1, 1.99),
		testutil.Line("Eggs Large 12ct", 1, 4.50),
		testutil.Line("Dark Chocolate", 1, 3.25),
	)

	eng := New(db.Storage)
	result, err := eng.Reconcile(ctx, receipt)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Bananas", "Eggs"}, result.Matched)
	assert.Equal(t, []string{"Milk"}, result.StillNeeded)
	assert.Equal(t, []string{"Dark Chocolate"}, result.NewlyBought)
	assert.Equal(t, len(receipt.LineItems), len(result.Matched)+len(result.NewlyBought))

	items, err := db.Storage.LoadList(ctx)
	require.NoError(t, err)
	byName := make(map[string]model.ListItem)
	for _, item := range items {
		byName[item.Name] = item
	}
	assert.Equal(t, model.StatusBought, byName["Bananas"].Status)
	assert.Equal(t, model.StatusBought, byName["Eggs"].Status)
	assert.Equal(t, model.StatusToBuy, byName["Milk"].Status)
	assert.InDelta(t, 4.50, byName["Eggs"].EstimatedPrice, 1e-9)
}

func TestReconcileDuplicateLineDoesNotRematch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	db.SeedList([]model.ListItem{testutil.Item("Bananas")})

	receipt := testutil.Receipt("Safeway", testutil.Day(2026, time.March, 5),
		testutil.Line("Bananas", 1, 1.99),
		testutil.Line("BANANAS", 1, 2.10),
	)

	result, err := New(db.Storage).Reconcile(ctx, receipt)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bananas"}, result.Matched)
	assert.Equal(t, []string{"BANANAS"}, result.NewlyBought)
}

func TestReconcileRecordsHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	db.SeedList([]model.ListItem{testutil.Item("Milk")})

	receipt := testutil.Receipt("Safeway", testutil.Day(2026, time.March, 5),
		testutil.Line("Organic Milk", 2, 7.00),
	)

	_, err := New(db.Storage).Reconcile(ctx, receipt)
	require.NoError(t, err)

	points, err := db.Storage.GetPricePoints(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "Safeway", points[0].Store)
	assert.InDelta(t, 3.50, points[0].Price, 1e-9)

	purchases, err := db.Storage.GetPurchases(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.InDelta(t, 2, purchases[0].Quantity, 1e-9)
}

func TestReconcileRejectsDuplicateReceipt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	db.SeedList([]model.ListItem{testutil.Item("Milk")})

	build := func() *model.Receipt {
		return testutil.Receipt("Safeway", testutil.Day(2026, time.March, 5),
			testutil.Line("Milk", 1, 3.50))
	}

	eng := New(db.Storage)
	_, err := eng.Reconcile(ctx, build())
	require.NoError(t, err)

	_, err = eng.Reconcile(ctx, build())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateItem)
}

func TestReconcileAcceptsDistinctSameDayReceipts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	day := testutil.Day(2026, time.March, 5)
	milk := testutil.Receipt("Safeway", day, testutil.Line("Milk", 1, 5.49))
	juice := testutil.Receipt("Safeway", day, testutil.Line("Orange Juice", 1, 5.49))

	// Same store, day, total, and line count must not trip duplicate
	// detection when the contents differ.
	eng := New(db.Storage)
	_, err := eng.Reconcile(ctx, milk)
	require.NoError(t, err)

	_, err = eng.Reconcile(ctx, juice)
	require.NoError(t, err)

	receipts, err := db.Storage.ListReceipts(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, receipts, 2)
}

func TestReconcileRequiresTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	receipt := testutil.Receipt("Safeway", testutil.Day(2026, time.March, 5),
		testutil.Line("Milk", 1, 3.50))
	receipt.Subtotal = 0
	receipt.Total = 0

	_, err := New(db.Storage).Reconcile(ctx, receipt)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	receipts, err := db.Storage.ListReceipts(ctx, testutil.Day(2026, time.March, 1), testutil.Day(2026, time.April, 1))
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestReconcileValidationFailureWritesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	receipt := testutil.Receipt("", testutil.Day(2026, time.March, 5),
		testutil.Line("Milk", 1, 3.50))

	_, err := New(db.Storage).Reconcile(ctx, receipt)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	receipts, err := db.Storage.ListReceipts(ctx, testutil.Day(2026, time.March, 1), testutil.Day(2026, time.April, 1))
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestReconcileRecordsSavings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	db.SeedList([]model.ListItem{testutil.Item("Milk")})

	receipt := testutil.Receipt("Safeway", testutil.Day(2026, time.March, 5),
		model.LineItem{ItemName: "Milk", Quantity: 1, UnitPrice: 3.00, TotalPrice: 3.00, RegularUnitPrice: 3.60},
	)

	_, err := New(db.Storage).Reconcile(ctx, receipt)
	require.NoError(t, err)

	records, err := db.Storage.GetSavings(ctx, testutil.Day(2026, time.March, 1), testutil.Day(2026, time.April, 1))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.SavingsLineItem, records[0].Source)
	assert.InDelta(t, 0.60, records[0].Amount, 1e-9)
}

func TestReconcileSavingsUseCanonicalNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	first := testutil.Receipt("Safeway", testutil.Day(2026, time.March, 5),
		model.LineItem{ItemName: "Organic Milk", Quantity: 1, UnitPrice: 3.00, TotalPrice: 3.00, RegularUnitPrice: 3.60},
	)
	second := testutil.Receipt("Safeway", testutil.Day(2026, time.March, 12),
		model.LineItem{ItemName: "MILK 128OZ", Quantity: 1, UnitPrice: 3.10, TotalPrice: 3.10, RegularUnitPrice: 3.60},
	)

	eng := New(db.Storage)
	_, err := eng.Reconcile(ctx, first)
	require.NoError(t, err)
	_, err = eng.Reconcile(ctx, second)
	require.NoError(t, err)

	records, err := db.Storage.GetSavings(ctx, testutil.Day(2026, time.March, 1), testutil.Day(2026, time.April, 1))
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Printed name variants collapse to one canonical display name so
	// savings summaries aggregate instead of fragmenting.
	for _, r := range records {
		assert.Equal(t, "Milk", r.ItemName)
	}
}

func TestProrateSavings(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		totals []float64
		want   []float64
	}{
		{
			name:   "even proportional split",
			amount: 3.00,
			totals: []float64{6.00, 4.00},
			want:   []float64{1.80, 1.20},
		},
		{
			name:   "remainder lands on last line",
			amount: 1.00,
			totals: []float64{1.00, 1.00, 1.00},
			want:   []float64{0.33, 0.33, 0.34},
		},
		{
			name:   "single line takes everything",
			amount: 2.50,
			totals: []float64{9.99},
			want:   []float64{2.50},
		},
		{
			name:   "zero amount",
			amount: 0,
			totals: []float64{5.00},
			want:   []float64{0},
		},
		{
			name:   "zero line totals fall through to last",
			amount: 1.00,
			totals: []float64{0, 0},
			want:   []float64{0, 1.00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]model.LineItem, len(tt.totals))
			for i, total := range tt.totals {
				lines[i] = model.LineItem{ItemName: "x", TotalPrice: total}
			}

			shares := ProrateSavings(tt.amount, lines)
			require.Len(t, shares, len(tt.want))

			var sum float64
			for i, share := range shares {
				assert.InDelta(t, tt.want[i], share, 1e-9, "share %d", i)
				sum += share
			}
			if tt.amount > 0 {
				assert.InDelta(t, tt.amount, sum, 1e-9, "shares must sum to the amount")
			}
		})
	}
}

func TestReconcileReceiptLevelSavingsProrated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	db.SeedList([]model.ListItem{testutil.Item("Steak"), testutil.Item("Rice")})

	receipt := testutil.Receipt("Costco", testutil.Day(2026, time.March, 7),
		testutil.Line("Steak", 1, 6.00),
		testutil.Line("Rice", 1, 4.00),
	)
	receipt.DiscountTotal = 3.00
	receipt.Total = 7.00

	_, err := New(db.Storage).Reconcile(ctx, receipt)
	require.NoError(t, err)

	records, err := db.Storage.GetSavings(ctx, testutil.Day(2026, time.March, 1), testutil.Day(2026, time.April, 1))
	require.NoError(t, err)
	require.Len(t, records, 2)

	amounts := map[string]float64{}
	for _, r := range records {
		require.Equal(t, model.SavingsReceipt, r.Source)
		amounts[r.ItemName] = r.Amount
	}
	assert.InDelta(t, 1.80, amounts["Steak"], 1e-9)
	assert.InDelta(t, 1.20, amounts["Rice"], 1e-9)
}
