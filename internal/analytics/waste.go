package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
)

// LogWaste records one food-waste event.
func (a *Analyzer) LogWaste(ctx context.Context, record model.WasteRecord) (*model.WasteRecord, error) {
	if record.ItemName == "" {
		return nil, common.Validationf("item name is required")
	}
	if record.Reason == "" {
		record.Reason = model.WasteOther
	}
	if !record.Reason.Valid() {
		return nil, common.Validationf("unknown waste reason %q", record.Reason)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.LoggedDate.IsZero() {
		record.LoggedDate = time.Now()
	}
	if record.Quantity <= 0 {
		record.Quantity = 1
	}

	if err := a.storage.AppendWaste(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to log waste: %w", err)
	}
	return &record, nil
}

// WasteSummary aggregates waste over a reporting period: totals, a by-reason
// breakdown, the most wasted items, and reduction hints drawn from the full
// log.
func (a *Analyzer) WasteSummary(ctx context.Context, period string, now time.Time) (*model.WasteSummary, error) {
	start, end, err := PeriodRange(period, now)
	if err != nil {
		return nil, err
	}

	records, err := a.storage.GetWaste(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load waste log: %w", err)
	}

	summary := &model.WasteSummary{Period: period, Start: start, End: end}

	byReason := make(map[model.WasteReason]int)
	type itemTally struct {
		count int
		cost  float64
	}
	byItem := make(map[string]*itemTally)
	for _, r := range records {
		if r.LoggedDate.Before(start) || r.LoggedDate.After(end) {
			continue
		}
		summary.Items++
		summary.TotalCost += r.EstimatedCost
		byReason[r.Reason]++

		t := byItem[r.ItemName]
		if t == nil {
			t = &itemTally{}
			byItem[r.ItemName] = t
		}
		t.count++
		t.cost += r.EstimatedCost
	}

	for reason, count := range byReason {
		summary.ByReason = append(summary.ByReason, model.WasteReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(summary.ByReason, func(i, j int) bool {
		if summary.ByReason[i].Count != summary.ByReason[j].Count {
			return summary.ByReason[i].Count > summary.ByReason[j].Count
		}
		return summary.ByReason[i].Reason < summary.ByReason[j].Reason
	})

	for name, t := range byItem {
		summary.MostWasted = append(summary.MostWasted, model.WasteItemCount{
			ItemName: name,
			Count:    t.count,
			Cost:     t.cost,
		})
	}
	sort.Slice(summary.MostWasted, func(i, j int) bool {
		if summary.MostWasted[i].Count != summary.MostWasted[j].Count {
			return summary.MostWasted[i].Count > summary.MostWasted[j].Count
		}
		return summary.MostWasted[i].ItemName < summary.MostWasted[j].ItemName
	})
	if len(summary.MostWasted) > 5 {
		summary.MostWasted = summary.MostWasted[:5]
	}

	summary.Insights = wasteInsights(records)
	return summary, nil
}

// wasteInsights scans the full waste log for repeat offenders and spoilage
// trends.
func wasteInsights(records []model.WasteRecord) []string {
	type itemTally struct {
		count int
		cost  float64
	}
	byItem := make(map[string]*itemTally)
	var order []string
	spoiled := 0
	for _, r := range records {
		t := byItem[r.ItemName]
		if t == nil {
			t = &itemTally{}
			byItem[r.ItemName] = t
			order = append(order, r.ItemName)
		}
		t.count++
		t.cost += r.EstimatedCost
		if r.Reason == model.WasteSpoiled {
			spoiled++
		}
	}

	var insights []string
	for _, name := range order {
		t := byItem[name]
		switch {
		case t.count >= 3 && t.cost > 0:
			insights = append(insights, fmt.Sprintf(
				"%s wasted %d times ($%.2f total); consider buying less", name, t.count, t.cost))
		case t.count >= 3:
			insights = append(insights, fmt.Sprintf(
				"%s wasted %d times; consider buying less", name, t.count))
		case t.count == 2:
			insights = append(insights, fmt.Sprintf(
				"%s wasted twice; buy smaller quantities?", name))
		}
	}

	if spoiled >= 3 {
		insights = append(insights, fmt.Sprintf(
			"%d items spoiled; check fridge temperature or buy fewer perishables", spoiled))
	}
	return insights
}
