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

// Recommend picks the best store to buy an item, ranked on the latest
// observed price with observation count and recency as tie-breakers. A
// consistent substitution pattern from out-of-stock reports is attached
// when one exists.
func (a *Analyzer) Recommend(ctx context.Context, itemName string, now time.Time) (*model.Recommendation, error) {
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

	scores := scoreStores(points, now)
	rec := &model.Recommendation{
		ItemName:    key,
		BestStore:   scores[0].Store,
		StoreScores: scores,
		Confidence:  recommendConfidence(scores),
	}

	oos, err := a.storage.GetOutOfStock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load out-of-stock reports: %w", err)
	}
	rec.Substitution = substitutionFrom(oos)
	return rec, nil
}

func scoreStores(points []model.PricePoint, now time.Time) []model.StoreScore {
	byStore := make(map[string]*model.StoreScore)
	for _, p := range points {
		score := byStore[p.Store]
		if score == nil {
			score = &model.StoreScore{Store: p.Store}
			byStore[p.Store] = score
		}
		score.Samples++
		// Points arrive in date order; keep the newest observation.
		if !p.Date.Before(score.LastObserved) {
			score.LastObserved = p.Date
			score.LatestPrice = p.Price
		}
	}

	scores := make([]model.StoreScore, 0, len(byStore))
	for _, s := range byStore {
		s.RecencyDays = int(now.Sub(s.LastObserved).Hours() / 24)
		scores = append(scores, *s)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].LatestPrice != scores[j].LatestPrice {
			return scores[i].LatestPrice < scores[j].LatestPrice
		}
		if scores[i].Samples != scores[j].Samples {
			return scores[i].Samples > scores[j].Samples
		}
		if scores[i].RecencyDays != scores[j].RecencyDays {
			return scores[i].RecencyDays < scores[j].RecencyDays
		}
		return scores[i].Store < scores[j].Store
	})
	return scores
}

// recommendConfidence grades a recommendation on store coverage and sample
// depth. A single store can never be better than medium.
func recommendConfidence(scores []model.StoreScore) model.Confidence {
	total := 0
	for _, s := range scores {
		total += s.Samples
	}
	if len(scores) >= 2 && total >= 5 {
		return model.ConfidenceHigh
	}
	if total >= 3 {
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}

// substitutionFrom surfaces the most common substitution across out-of-stock
// reports, provided it was used at least twice.
func substitutionFrom(records []model.OutOfStockRecord) *model.Substitution {
	type tally struct {
		count  int
		stores map[string]struct{}
	}
	counts := make(map[string]*tally)
	for _, r := range records {
		if r.Substitution == "" {
			continue
		}
		key := match.Canonical(r.Substitution)
		t := counts[key]
		if t == nil {
			t = &tally{stores: make(map[string]struct{})}
			counts[key] = t
		}
		t.count++
		t.stores[r.Store] = struct{}{}
	}

	var best string
	for name, t := range counts {
		if best == "" || t.count > counts[best].count ||
			(t.count == counts[best].count && name < best) {
			best = name
		}
	}
	if best == "" || counts[best].count < 2 {
		return nil
	}

	t := counts[best]
	stores := make([]string, 0, len(t.stores))
	for s := range t.stores {
		stores = append(stores, s)
	}
	sort.Strings(stores)
	return &model.Substitution{
		ItemName:   best,
		Count:      t.count,
		Stores:     stores,
		Confidence: model.FrequencyConfidence(t.count),
	}
}

// Suggestions scans history for actionable hints: items due for restock,
// prices running above their trailing average, repeat out-of-stock trouble,
// and seasonal premiums worth waiting out. Results are sorted by priority
// then item name.
func (a *Analyzer) Suggestions(ctx context.Context, now time.Time) ([]model.Suggestion, error) {
	var suggestions []model.Suggestion

	restock, err := a.restockSuggestions(ctx, now)
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, restock...)

	alerts, err := a.priceAlertSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, alerts...)

	oos, err := a.outOfStockSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, oos...)

	seasonal, err := a.seasonalSuggestions(ctx, now)
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, seasonal...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Priority.Weight() != suggestions[j].Priority.Weight() {
			return suggestions[i].Priority.Weight() > suggestions[j].Priority.Weight()
		}
		return suggestions[i].ItemName < suggestions[j].ItemName
	})
	return suggestions, nil
}

func (a *Analyzer) restockSuggestions(ctx context.Context, now time.Time) ([]model.Suggestion, error) {
	purchases, err := a.storage.GetPurchases(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	byItem := make(map[string][]model.PurchaseRecord)
	var order []string
	for _, p := range purchases {
		if _, ok := byItem[p.ItemName]; !ok {
			order = append(order, p.ItemName)
		}
		byItem[p.ItemName] = append(byItem[p.ItemName], p)
	}

	var suggestions []model.Suggestion
	for _, item := range order {
		records := byItem[item]
		if len(records) < 2 {
			continue
		}
		span := records[len(records)-1].Date.Sub(records[0].Date)
		avg := span.Hours() / 24 / float64(len(records)-1)
		if avg <= 0 {
			continue
		}

		since := now.Sub(records[len(records)-1].Date).Hours() / 24
		if since <= avg {
			continue
		}

		priority := model.PriorityMedium
		if since > avg*a.cfg.RestockUrgentRatio {
			priority = model.PriorityHigh
		}
		suggestions = append(suggestions, model.Suggestion{
			Type:     model.SuggestRestock,
			ItemName: item,
			Priority: priority,
			Message: fmt.Sprintf("usually bought every %.0f days, last purchased %.0f days ago",
				avg, since),
		})
	}
	return suggestions, nil
}

func (a *Analyzer) priceAlertSuggestions(ctx context.Context) ([]model.Suggestion, error) {
	points, err := a.storage.GetPricePoints(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	byItem := make(map[string][]model.PricePoint)
	var order []string
	for _, p := range points {
		if _, ok := byItem[p.ItemName]; !ok {
			order = append(order, p.ItemName)
		}
		byItem[p.ItemName] = append(byItem[p.ItemName], p)
	}

	var suggestions []model.Suggestion
	for _, item := range order {
		history := byItem[item]
		if len(history) < 3 {
			continue
		}

		latest := history[len(history)-1].Price
		var sum float64
		for _, p := range history[:len(history)-1] {
			sum += p.Price
		}
		trailing := sum / float64(len(history)-1)
		if trailing <= 0 {
			continue
		}

		premium := (latest - trailing) / trailing * 100
		if premium < a.cfg.PriceAlertPct {
			continue
		}
		suggestions = append(suggestions, model.Suggestion{
			Type:     model.SuggestPriceAlert,
			ItemName: item,
			Priority: model.PriorityMedium,
			Message: fmt.Sprintf("latest price $%.2f is %.0f%% above the $%.2f trailing average",
				latest, premium, trailing),
		})
	}
	return suggestions, nil
}

func (a *Analyzer) outOfStockSuggestions(ctx context.Context) ([]model.Suggestion, error) {
	records, err := a.storage.GetOutOfStock(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load out-of-stock reports: %w", err)
	}

	type key struct{ item, store string }
	counts := make(map[key]int)
	names := make(map[key]string)
	var order []key
	for _, r := range records {
		k := key{match.Canonical(r.ItemName), r.Store}
		if counts[k] == 0 {
			order = append(order, k)
			names[k] = r.ItemName
		}
		counts[k]++
	}

	var suggestions []model.Suggestion
	for _, k := range order {
		if counts[k] < 2 {
			continue
		}
		suggestions = append(suggestions, model.Suggestion{
			Type:     model.SuggestOutOfStock,
			ItemName: k.item,
			Priority: model.PriorityMedium,
			Message: fmt.Sprintf("%s has been out of stock at %s %d times; try another store",
				names[k], k.store, counts[k]),
		})
	}
	return suggestions, nil
}

func (a *Analyzer) seasonalSuggestions(ctx context.Context, now time.Time) ([]model.Suggestion, error) {
	points, err := a.storage.GetPricePoints(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	seen := make(map[string]struct{})
	var order []string
	for _, p := range points {
		if _, ok := seen[p.ItemName]; ok {
			continue
		}
		seen[p.ItemName] = struct{}{}
		order = append(order, p.ItemName)
	}

	var suggestions []model.Suggestion
	for _, item := range order {
		premium, err := a.CurrentPremium(ctx, item, now)
		if err != nil {
			return nil, err
		}
		if !premium.Trusted || premium.PremiumPercent < a.cfg.PremiumThresholdPct {
			continue
		}
		suggestions = append(suggestions, model.Suggestion{
			Type:     model.SuggestSeasonal,
			ItemName: item,
			Priority: model.PriorityMedium,
			Message: fmt.Sprintf("currently %.0f%% above the %s average of $%.2f; consider waiting",
				premium.PremiumPercent, time.Month(premium.Month), premium.BaselinePrice),
		})
	}
	return suggestions, nil
}
