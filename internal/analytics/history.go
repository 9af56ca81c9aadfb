package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/match"
	"github.com/hearthward/grocer/internal/model"
)

// PriceHistory summarizes the price log for an item, optionally scoped to
// one store. History is keyed by the canonical item name, so "Organic Milk"
// and "milk 1 gal" share a log.
func (a *Analyzer) PriceHistory(ctx context.Context, itemName, store string) (*model.PriceHistorySummary, error) {
	key := match.Canonical(itemName)
	if key == "" {
		return nil, common.Validationf("item name is required")
	}

	points, err := a.storage.GetPricePoints(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	if store != "" {
		filtered := points[:0]
		for _, p := range points {
			if p.Store == store {
				filtered = append(filtered, p)
			}
		}
		points = filtered
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no price history for %q", common.ErrNotFound, itemName)
	}

	summary := &model.PriceHistorySummary{
		ItemName: key,
		Store:    store,
		Current:  points[len(points)-1].Price,
		Min:      math.Inf(1),
		Points:   points,
	}
	var sum float64
	for _, p := range points {
		sum += p.Price
		summary.Min = math.Min(summary.Min, p.Price)
		summary.Max = math.Max(summary.Max, p.Price)
	}
	summary.Average = sum / float64(len(points))
	return summary, nil
}

// StorePrice is one store's latest observed price for an item.
type StorePrice struct {
	LastObserved time.Time
	Store        string
	Price        float64
	Sale         bool
}

// ComparePrices returns the latest price per store for an item, cheapest
// first. Ties are broken by store name.
func (a *Analyzer) ComparePrices(ctx context.Context, itemName string) ([]StorePrice, error) {
	key := match.Canonical(itemName)
	if key == "" {
		return nil, common.Validationf("item name is required")
	}

	points, err := a.storage.GetPricePoints(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no price history for %q", common.ErrNotFound, itemName)
	}

	latest := make(map[string]StorePrice)
	for _, p := range points {
		// Points are in date order; the last write per store wins.
		latest[p.Store] = StorePrice{
			Store:        p.Store,
			Price:        p.Price,
			Sale:         p.Sale,
			LastObserved: p.Date,
		}
	}

	prices := make([]StorePrice, 0, len(latest))
	for _, sp := range latest {
		prices = append(prices, sp)
	}
	sort.Slice(prices, func(i, j int) bool {
		if prices[i].Price != prices[j].Price {
			return prices[i].Price < prices[j].Price
		}
		return prices[i].Store < prices[j].Store
	})
	return prices, nil
}

// Frequency summarizes how often an item is purchased. AverageDays is the
// mean gap between consecutive purchase dates; it needs at least two
// purchases, and NextExpected is the last purchase plus that average.
func (a *Analyzer) Frequency(ctx context.Context, itemName string) (*model.FrequencySummary, error) {
	key := match.Canonical(itemName)
	if key == "" {
		return nil, common.Validationf("item name is required")
	}

	purchases, err := a.storage.GetPurchases(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	if len(purchases) == 0 {
		return nil, fmt.Errorf("%w: no purchase history for %q", common.ErrNotFound, itemName)
	}

	summary := &model.FrequencySummary{
		ItemName:       key,
		LastPurchased:  purchases[len(purchases)-1].Date,
		TotalPurchases: len(purchases),
		Confidence:     model.FrequencyConfidence(len(purchases)),
	}

	if len(purchases) >= 2 {
		span := purchases[len(purchases)-1].Date.Sub(purchases[0].Date)
		avg := span.Hours() / 24 / float64(len(purchases)-1)
		summary.AverageDays = &avg

		next := summary.LastPurchased.AddDate(0, 0, int(math.Round(avg)))
		summary.NextExpected = &next
	}
	return summary, nil
}
