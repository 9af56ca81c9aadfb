package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/testutil"
)

func seedOutOfStock(t *testing.T, db *testutil.TestDB, records ...model.OutOfStockRecord) {
	t.Helper()
	for i := range records {
		require.NoError(t, db.Storage.AppendOutOfStock(context.Background(), &records[i]))
	}
}

func TestRecommendPrefersCheapestStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})
	now := testutil.Day(2026, time.February, 1)

	seedPrices(t, db,
		point("milk", "Safeway", testutil.Day(2026, time.January, 5), 3.50),
		point("milk", "Safeway", testutil.Day(2026, time.January, 20), 3.50),
		point("milk", "Costco", testutil.Day(2026, time.January, 10), 2.75),
		point("milk", "Costco", testutil.Day(2026, time.January, 25), 2.75),
		point("milk", "Costco", testutil.Day(2026, time.January, 28), 2.75),
	)

	rec, err := a.Recommend(context.Background(), "milk", now)
	require.NoError(t, err)
	assert.Equal(t, "Costco", rec.BestStore)
	require.Len(t, rec.StoreScores, 2)
	assert.Equal(t, "Costco", rec.StoreScores[0].Store)
	assert.Equal(t, 3, rec.StoreScores[0].Samples)
	assert.Equal(t, model.ConfidenceHigh, rec.Confidence)
	assert.Nil(t, rec.Substitution)
}

func TestRecommendTieBrokenBySamplesThenName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})
	now := testutil.Day(2026, time.February, 1)

	seedPrices(t, db,
		point("milk", "Safeway", testutil.Day(2026, time.January, 10), 3.00),
		point("milk", "Albertsons", testutil.Day(2026, time.January, 10), 3.00),
	)

	rec, err := a.Recommend(context.Background(), "milk", now)
	require.NoError(t, err)
	// Same price, same sample count, same recency: name breaks the tie.
	assert.Equal(t, "Albertsons", rec.BestStore)
}

func TestRecommendSurfacesConsistentSubstitution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})
	now := testutil.Day(2026, time.February, 1)

	seedPrices(t, db,
		point("oat milk", "Safeway", testutil.Day(2026, time.January, 5), 4.50),
	)
	seedOutOfStock(t, db,
		model.OutOfStockRecord{ID: uuid.New(), ItemName: "Oat Milk", Store: "Safeway", Date: testutil.Day(2026, time.January, 6), Substitution: "Soy Milk"},
		model.OutOfStockRecord{ID: uuid.New(), ItemName: "Oat Milk", Store: "Costco", Date: testutil.Day(2026, time.January, 13), Substitution: "soy milk"},
	)

	rec, err := a.Recommend(context.Background(), "oat milk", now)
	require.NoError(t, err)
	require.NotNil(t, rec.Substitution)
	assert.Equal(t, "soy milk", rec.Substitution.ItemName)
	assert.Equal(t, 2, rec.Substitution.Count)
	assert.Equal(t, []string{"Costco", "Safeway"}, rec.Substitution.Stores)
}

func TestRecommendSingleReportNoSubstitution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPrices(t, db,
		point("oat milk", "Safeway", testutil.Day(2026, time.January, 5), 4.50),
	)
	seedOutOfStock(t, db,
		model.OutOfStockRecord{ID: uuid.New(), ItemName: "Oat Milk", Store: "Safeway", Date: testutil.Day(2026, time.January, 6), Substitution: "Soy Milk"},
	)

	rec, err := a.Recommend(context.Background(), "oat milk", testutil.Day(2026, time.February, 1))
	require.NoError(t, err)
	assert.Nil(t, rec.Substitution)
}

func TestSuggestionsRestock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	// Bought every 5 days, last seen 12 days ago: overdue past 1.5x.
	seedPurchases(t, db,
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 1)),
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 6)),
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 11)),
	)

	suggestions, err := a.Suggestions(context.Background(), testutil.Day(2026, time.January, 23))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.SuggestRestock, suggestions[0].Type)
	assert.Equal(t, "milk", suggestions[0].ItemName)
	assert.Equal(t, model.PriorityHigh, suggestions[0].Priority)
}

func TestSuggestionsRestockMediumWhenMildlyOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPurchases(t, db,
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 1)),
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 11)),
	)

	// 12 days since last purchase against a 10 day average.
	suggestions, err := a.Suggestions(context.Background(), testutil.Day(2026, time.January, 23))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.PriorityMedium, suggestions[0].Priority)
}

func TestSuggestionsPriceAlert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	// 20% over the trailing average, but under the seasonal premium
	// threshold against the month baseline that includes the spike.
	seedPrices(t, db,
		point("butter", "Safeway", testutil.Day(2026, time.January, 1), 4.00),
		point("butter", "Safeway", testutil.Day(2026, time.January, 8), 4.00),
		point("butter", "Safeway", testutil.Day(2026, time.January, 15), 4.80),
	)

	suggestions, err := a.Suggestions(context.Background(), testutil.Day(2026, time.January, 16))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.SuggestPriceAlert, suggestions[0].Type)
	assert.Equal(t, "butter", suggestions[0].ItemName)
}

func TestSuggestionsPriceAlertNeedsThreePoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPrices(t, db,
		point("butter", "Safeway", testutil.Day(2025, time.December, 20), 4.00),
		point("butter", "Safeway", testutil.Day(2026, time.January, 15), 6.00),
	)

	suggestions, err := a.Suggestions(context.Background(), testutil.Day(2026, time.January, 16))
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestionsOutOfStockPattern(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedOutOfStock(t, db,
		model.OutOfStockRecord{ID: uuid.New(), ItemName: "Oat Milk", Store: "Safeway", Date: testutil.Day(2026, time.January, 6)},
		model.OutOfStockRecord{ID: uuid.New(), ItemName: "Oat Milk", Store: "Safeway", Date: testutil.Day(2026, time.January, 13)},
	)

	suggestions, err := a.Suggestions(context.Background(), testutil.Day(2026, time.January, 20))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.SuggestOutOfStock, suggestions[0].Type)
}

func TestSuggestionsSeasonalPremium(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	// The latest price sits close to the all-time trailing average, so no
	// price alert, but well above the cheap June month baseline.
	seedPrices(t, db,
		point("strawberries", "Safeway", testutil.Day(2024, time.June, 5), 2.00),
		point("strawberries", "Safeway", testutil.Day(2024, time.December, 5), 3.00),
		point("strawberries", "Safeway", testutil.Day(2025, time.June, 5), 2.00),
		point("strawberries", "Safeway", testutil.Day(2025, time.December, 5), 3.00),
		point("strawberries", "Safeway", testutil.Day(2026, time.June, 1), 2.60),
	)

	suggestions, err := a.Suggestions(context.Background(), testutil.Day(2026, time.June, 10))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.SuggestSeasonal, suggestions[0].Type)
	assert.Equal(t, "strawberries", suggestions[0].ItemName)
}

func TestSuggestionsSortedByPriorityThenName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	// Two overdue items, one badly overdue.
	seedPurchases(t, db,
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 1)),
		purchase("milk", "Safeway", testutil.Day(2026, time.January, 6)),
		purchase("apples", "Safeway", testutil.Day(2026, time.January, 10)),
		purchase("apples", "Safeway", testutil.Day(2026, time.January, 20)),
	)

	suggestions, err := a.Suggestions(context.Background(), testutil.Day(2026, time.February, 1))
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "milk", suggestions[0].ItemName)
	assert.Equal(t, model.PriorityHigh, suggestions[0].Priority)
	assert.Equal(t, "apples", suggestions[1].ItemName)
}
