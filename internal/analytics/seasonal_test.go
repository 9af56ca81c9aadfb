package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/testutil"
)

func TestSeasonalPattern(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPrices(t, db,
		point("strawberries", "Safeway", testutil.Day(2025, time.June, 5), 2.50),
		point("strawberries", "Safeway", testutil.Day(2025, time.June, 20), 3.00),
		point("strawberries", "Safeway", testutil.Day(2025, time.December, 10), 6.00),
	)

	pattern, err := a.SeasonalPattern(context.Background(), "strawberries")
	require.NoError(t, err)
	require.Len(t, pattern.Months, 2)

	june, ok := pattern.MonthBaseline(6)
	require.True(t, ok)
	assert.Equal(t, 2, june.Count)
	assert.InDelta(t, 2.75, june.AveragePrice, 1e-9)
	assert.True(t, june.Trusted)

	// One December sample is below the monthly minimum.
	december, ok := pattern.MonthBaseline(12)
	require.True(t, ok)
	assert.False(t, december.Trusted)
}

func TestSeasonalPatternAggregatesAcrossYears(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPrices(t, db,
		point("strawberries", "Safeway", testutil.Day(2024, time.June, 5), 2.00),
		point("strawberries", "Safeway", testutil.Day(2025, time.June, 5), 3.00),
	)

	pattern, err := a.SeasonalPattern(context.Background(), "strawberries")
	require.NoError(t, err)
	june, ok := pattern.MonthBaseline(6)
	require.True(t, ok)
	assert.Equal(t, 2, june.Count)
	assert.InDelta(t, 2.50, june.AveragePrice, 1e-9)
	assert.True(t, june.Trusted)
}

func TestCurrentPremium(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPrices(t, db,
		point("strawberries", "Safeway", testutil.Day(2025, time.June, 5), 2.00),
		point("strawberries", "Safeway", testutil.Day(2025, time.June, 20), 2.00),
		point("strawberries", "Safeway", testutil.Day(2026, time.June, 1), 3.00),
	)

	premium, err := a.CurrentPremium(context.Background(), "strawberries", testutil.Day(2026, time.June, 15))
	require.NoError(t, err)
	// Baseline includes the current observation: (2+2+3)/3.
	assert.InDelta(t, 7.0/3.0, premium.BaselinePrice, 1e-9)
	assert.InDelta(t, 3.00, premium.CurrentPrice, 1e-9)
	assert.InDelta(t, (3.00-7.0/3.0)/(7.0/3.0)*100, premium.PremiumPercent, 1e-9)
	assert.True(t, premium.Trusted)
}

func TestCurrentPremiumNoBaselineMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	seedPrices(t, db,
		point("strawberries", "Safeway", testutil.Day(2025, time.June, 5), 2.00),
	)

	premium, err := a.CurrentPremium(context.Background(), "strawberries", testutil.Day(2026, time.December, 1))
	require.NoError(t, err)
	assert.Zero(t, premium.BaselinePrice)
	assert.Zero(t, premium.PremiumPercent)
	assert.False(t, premium.Trusted)
}

func TestSeasonalConfidenceGrowsWithSamples(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(db.Storage, Config{})

	var points []model.PricePoint
	for day := 1; day <= 6; day++ {
		points = append(points, point("apples", "Safeway", testutil.Day(2026, time.January, day), 1.50))
	}
	seedPrices(t, db, points...)

	pattern, err := a.SeasonalPattern(context.Background(), "apples")
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceHigh, pattern.Confidence)
}
