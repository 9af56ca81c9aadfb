package analytics

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

func TestPeriodRange(t *testing.T) {
	// A Wednesday.
	now := time.Date(2026, time.March, 11, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		period    string
		wantStart time.Time
	}{
		{name: "weekly starts Monday", period: PeriodWeekly, wantStart: testutil.Day(2026, time.March, 9)},
		{name: "monthly starts on the 1st", period: PeriodMonthly, wantStart: testutil.Day(2026, time.March, 1)},
		{name: "yearly starts January 1st", period: PeriodYearly, wantStart: testutil.Day(2026, time.January, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := PeriodRange(tt.period, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, now, end)
		})
	}

	_, _, err := PeriodRange("fortnightly", now)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPeriodRangeOnMonday(t *testing.T) {
	monday := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
	start, _, err := PeriodRange(PeriodWeekly, monday)
	require.NoError(t, err)
	assert.Equal(t, testutil.Day(2026, time.March, 9), start)
}

func TestSavingsSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})
	ctx := context.Background()
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

	receiptA := uuid.New()
	receiptB := uuid.New()
	require.NoError(t, db.Storage.AppendSavings(ctx, []model.SavingsRecord{
		{ID: uuid.New(), ReceiptID: receiptA, ItemName: "Milk", Store: "Safeway", Category: "Dairy", Source: model.SavingsLineItem, Date: testutil.Day(2026, time.March, 5), Amount: 1.50},
		{ID: uuid.New(), ReceiptID: receiptA, ItemName: "Eggs", Store: "Safeway", Category: "Dairy", Source: model.SavingsReceipt, Date: testutil.Day(2026, time.March, 5), Amount: 0.50},
		{ID: uuid.New(), ReceiptID: receiptB, ItemName: "Milk", Store: "Costco", Category: "Dairy", Source: model.SavingsLineItem, Date: testutil.Day(2026, time.March, 12), Amount: 2.00},
		// Outside the month; must be excluded.
		{ID: uuid.New(), ReceiptID: uuid.New(), ItemName: "Bread", Store: "Safeway", Category: "Bakery", Source: model.SavingsLineItem, Date: testutil.Day(2026, time.February, 20), Amount: 9.99},
	}))

	summary, err := a.SavingsSummary(ctx, PeriodMonthly, now)
	require.NoError(t, err)

	assert.InDelta(t, 4.00, summary.Total, 1e-9)
	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, 2, summary.ReceiptCount)

	require.NotEmpty(t, summary.ByItem)
	assert.Equal(t, "Milk", summary.ByItem[0].Name)
	assert.InDelta(t, 3.50, summary.ByItem[0].Total, 1e-9)
	assert.Equal(t, 2, summary.ByItem[0].Records)

	require.Len(t, summary.BySource, 2)
	assert.Equal(t, string(model.SavingsLineItem), summary.BySource[0].Name)
}

func TestSavingsSummaryEmptyPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	summary, err := a.SavingsSummary(context.Background(), PeriodWeekly, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Records)
	assert.Empty(t, summary.ByItem)
}

func TestSpendingSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})
	ctx := context.Background()
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

	receipt := testutil.Receipt("Safeway", testutil.Day(2026, time.March, 5),
		testutil.Line("Milk", 1, 3.50),
		testutil.Line("Bananas", 1, 1.50),
		testutil.Line("Mystery Widget", 1, 5.00),
	)
	require.NoError(t, db.Storage.SaveReceipt(ctx, receipt))

	summary, err := a.SpendingSummary(ctx, PeriodMonthly, now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ReceiptCount)
	assert.Equal(t, 3, summary.ItemCount)
	assert.InDelta(t, 10.00, summary.Total, 1e-9)

	byCategory := map[string]model.CategorySpend{}
	for _, c := range summary.Categories {
		byCategory[c.Category] = c
	}
	assert.InDelta(t, 3.50, byCategory["Dairy"].Total, 1e-9)
	assert.InDelta(t, 1.50, byCategory["Produce"].Total, 1e-9)
	assert.InDelta(t, 5.00, byCategory[model.CategoryOther].Total, 1e-9)
	assert.InDelta(t, 50.0, byCategory[model.CategoryOther].Percent, 1e-9)
}
