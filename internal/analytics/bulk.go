package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/match"
	"github.com/hearthward/grocer/internal/model"
)

// unitFamily groups convertible units around a base unit.
type unitFamily struct {
	base string
	// factor converts one unit to the family base.
	factors map[string]float64
}

var unitFamilies = []unitFamily{
	{
		base: "count",
		factors: map[string]float64{
			"count": 1, "ct": 1, "each": 1, "ea": 1, "item": 1, "items": 1,
			"piece": 1, "pieces": 1, "pc": 1, "unit": 1, "units": 1,
			"dozen": 12,
		},
	},
	{
		base: "g",
		factors: map[string]float64{
			"g": 1, "gram": 1, "grams": 1,
			"kg": 1000, "kilogram": 1000, "kilograms": 1000,
			"oz": 28.3495, "ounce": 28.3495, "ounces": 28.3495,
			"lb": 453.592, "lbs": 453.592, "pound": 453.592, "pounds": 453.592,
		},
	},
	{
		base: "ml",
		factors: map[string]float64{
			"ml": 1, "milliliter": 1, "milliliters": 1,
			"l": 1000, "liter": 1000, "liters": 1000,
			"fl oz": 29.5735, "floz": 29.5735, "fluid ounce": 29.5735,
		},
	},
}

// normalizeUnit resolves a unit string to its family base and conversion
// factor. The bool is false for unrecognized units.
func normalizeUnit(unit string) (string, float64, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "count"
	}
	for _, family := range unitFamilies {
		if factor, ok := family.factors[u]; ok {
			return family.base, factor, true
		}
	}
	return "", 0, false
}

// CompareBulk weighs a bulk pack against a standard single purchase. Unit
// problems come back as typed statuses rather than errors so callers can
// report them without aborting. Monthly consumption is estimated from the
// item's purchase history over the lookback window.
func (a *Analyzer) CompareBulk(ctx context.Context, itemName string, single, bulk model.PackOffer, lookbackDays int, now time.Time) (*model.BulkAnalysis, error) {
	key := match.Canonical(itemName)
	if key == "" {
		return nil, common.Validationf("item name is required")
	}

	analysis := &model.BulkAnalysis{
		ItemName: key,
		Single:   single,
		Bulk:     bulk,
		Status:   model.BulkOK,
	}

	if single.Quantity <= 0 || bulk.Quantity <= 0 || single.PackPrice <= 0 || bulk.PackPrice <= 0 {
		analysis.Status = model.BulkInvalidQuantity
		return analysis, nil
	}

	singleBase, singleFactor, ok := normalizeUnit(single.Unit)
	if !ok {
		analysis.Status = model.BulkUnknownUnit
		return analysis, nil
	}
	bulkBase, bulkFactor, ok := normalizeUnit(bulk.Unit)
	if !ok {
		analysis.Status = model.BulkUnknownUnit
		return analysis, nil
	}
	if singleBase != bulkBase {
		analysis.Status = model.BulkUnitMismatch
		return analysis, nil
	}

	analysis.Single = offerInBase(single, singleBase, singleFactor)
	analysis.Bulk = offerInBase(bulk, bulkBase, bulkFactor)

	if analysis.Single.UnitPrice > 0 {
		analysis.SavingsPercent = (analysis.Single.UnitPrice - analysis.Bulk.UnitPrice) /
			analysis.Single.UnitPrice * 100
	}

	consumption, err := a.monthlyConsumption(ctx, key, singleFactor, lookbackDays, now)
	if err != nil {
		return nil, err
	}
	analysis.MonthlyConsumption = consumption
	if consumption > 0 {
		perUnit := analysis.Single.UnitPrice - analysis.Bulk.UnitPrice
		analysis.ProjectedMonthlySavings = round2(perUnit * consumption)
	}

	analysis.RecommendBulk = analysis.SavingsPercent > 0
	return analysis, nil
}

// offerInBase fills an offer's normalized quantity and per-base-unit price.
func offerInBase(offer model.PackOffer, base string, factor float64) model.PackOffer {
	offer.NormalizedUnit = base
	offer.NormalizedQty = offer.Quantity * factor
	price := decimal.NewFromFloat(offer.PackPrice).
		Div(decimal.NewFromFloat(offer.NormalizedQty))
	offer.UnitPrice, _ = price.Round(4).Float64()
	return offer
}

// monthlyConsumption estimates normalized units consumed per month from
// purchases inside the lookback window. Fewer than two purchases yields 0.
func (a *Analyzer) monthlyConsumption(ctx context.Context, itemKey string, factor float64, lookbackDays int, now time.Time) (float64, error) {
	if lookbackDays <= 0 {
		lookbackDays = 90
	}

	purchases, err := a.storage.GetPurchases(ctx, itemKey)
	if err != nil {
		return 0, fmt.Errorf("failed to load purchases: %w", err)
	}

	cutoff := now.AddDate(0, 0, -lookbackDays)
	var total float64
	var count int
	for _, p := range purchases {
		if p.Date.Before(cutoff) {
			continue
		}
		qty := p.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += qty * factor
		count++
	}
	if count < 2 {
		return 0, nil
	}
	return total / float64(lookbackDays) * 30, nil
}

func round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
