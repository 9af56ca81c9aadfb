package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/match"
	"github.com/hearthward/grocer/internal/model"
)

// SeasonalPattern builds the per-calendar-month purchase and price profile
// for an item from its price log. Months with fewer samples than the
// configured minimum are marked untrusted.
func (a *Analyzer) SeasonalPattern(ctx context.Context, itemName string) (*model.SeasonalPattern, error) {
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

	type acc struct {
		count int
		sum   float64
	}
	byMonth := make(map[int]*acc)
	for _, p := range points {
		m := int(p.Date.Month())
		if byMonth[m] == nil {
			byMonth[m] = &acc{}
		}
		byMonth[m].count++
		byMonth[m].sum += p.Price
	}

	pattern := &model.SeasonalPattern{
		ItemName:   key,
		SampleSize: len(points),
		Confidence: model.FrequencyConfidence(len(points)),
	}
	for m := 1; m <= 12; m++ {
		stat, ok := byMonth[m]
		if !ok {
			continue
		}
		pattern.Months = append(pattern.Months, model.MonthStat{
			Month:        m,
			Count:        stat.count,
			AveragePrice: stat.sum / float64(stat.count),
			Trusted:      stat.count >= a.cfg.MinMonthlySamples,
		})
	}
	sort.Slice(pattern.Months, func(i, j int) bool {
		return pattern.Months[i].Month < pattern.Months[j].Month
	})
	return pattern, nil
}

// CurrentPremium compares the latest observed price against the current
// calendar month's historical baseline. The premium is only trustworthy
// when the baseline month met the sample threshold.
func (a *Analyzer) CurrentPremium(ctx context.Context, itemName string, now time.Time) (*model.SeasonalPremium, error) {
	pattern, err := a.SeasonalPattern(ctx, itemName)
	if err != nil {
		return nil, err
	}

	points, err := a.storage.GetPricePoints(ctx, pattern.ItemName)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	current := points[len(points)-1].Price

	month := int(now.Month())
	premium := &model.SeasonalPremium{
		ItemName:     pattern.ItemName,
		Month:        month,
		CurrentPrice: current,
	}

	baseline, ok := pattern.MonthBaseline(month)
	if !ok || baseline.AveragePrice <= 0 {
		return premium, nil
	}
	premium.BaselinePrice = baseline.AveragePrice
	premium.PremiumPercent = (current - baseline.AveragePrice) / baseline.AveragePrice * 100
	premium.Trusted = baseline.Trusted
	return premium, nil
}
