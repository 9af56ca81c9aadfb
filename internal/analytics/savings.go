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

// Reporting periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// PeriodRange resolves a period name to [start, end) around the given time.
// Weekly starts on Monday, monthly on the 1st, yearly on January 1st.
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	end := now
	switch period {
	case PeriodWeekly:
		day := now
		for day.Weekday() != time.Monday {
			day = day.AddDate(0, 0, -1)
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
		return start, end, nil
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, end, nil
	case PeriodYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start, end, nil
	}
	return time.Time{}, time.Time{}, common.Validationf("unknown period %q (weekly, monthly, yearly)", period)
}

// SavingsSummary totals realized savings over a period with top contributors
// by item, store, category, and source.
func (a *Analyzer) SavingsSummary(ctx context.Context, period string, now time.Time) (*model.SavingsSummary, error) {
	start, end, err := PeriodRange(period, now)
	if err != nil {
		return nil, err
	}

	records, err := a.storage.GetSavings(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings records: %w", err)
	}

	summary := &model.SavingsSummary{
		Period:  period,
		Start:   start,
		End:     end,
		Records: len(records),
	}

	receipts := make(map[uuid.UUID]struct{})
	byItem := make(map[string]*model.SavingsContributor)
	byStore := make(map[string]*model.SavingsContributor)
	byCategory := make(map[string]*model.SavingsContributor)
	bySource := make(map[string]*model.SavingsContributor)

	add := func(m map[string]*model.SavingsContributor, name string, amount float64) {
		if name == "" {
			name = "(unattributed)"
		}
		c := m[name]
		if c == nil {
			c = &model.SavingsContributor{Name: name}
			m[name] = c
		}
		c.Total += amount
		c.Records++
	}

	for _, r := range records {
		summary.Total += r.Amount
		if r.ReceiptID != uuid.Nil {
			receipts[r.ReceiptID] = struct{}{}
		}
		add(byItem, r.ItemName, r.Amount)
		add(byStore, r.Store, r.Amount)
		add(byCategory, r.Category, r.Amount)
		add(bySource, string(r.Source), r.Amount)
	}
	summary.ReceiptCount = len(receipts)
	summary.ByItem = rankContributors(byItem)
	summary.ByStore = rankContributors(byStore)
	summary.ByCategory = rankContributors(byCategory)
	summary.BySource = rankContributors(bySource)
	return summary, nil
}

// rankContributors orders contributors by total desc, record count desc,
// name asc so summaries are deterministic.
func rankContributors(m map[string]*model.SavingsContributor) []model.SavingsContributor {
	out := make([]model.SavingsContributor, 0, len(m))
	for _, c := range m {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if out[i].Records != out[j].Records {
			return out[i].Records > out[j].Records
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SpendingSummary totals receipt spending over a period with a category
// breakdown. Categories come from list assignments when the line matched an
// item, otherwise from keyword guessing.
func (a *Analyzer) SpendingSummary(ctx context.Context, period string, now time.Time) (*model.SpendingSummary, error) {
	start, end, err := PeriodRange(period, now)
	if err != nil {
		return nil, err
	}

	receipts, err := a.storage.ListReceipts(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}

	summary := &model.SpendingSummary{
		Period:       period,
		Start:        start,
		End:          end,
		ReceiptCount: len(receipts),
	}

	type acc struct {
		total float64
		items int
	}
	byCategory := make(map[string]*acc)
	var lineTotal float64
	for i := range receipts {
		summary.Total += receipts[i].Total
		for _, line := range receipts[i].LineItems {
			summary.ItemCount++
			lineTotal += line.TotalPrice
			category := GuessCategory(line.ItemName)
			if byCategory[category] == nil {
				byCategory[category] = &acc{}
			}
			byCategory[category].total += line.TotalPrice
			byCategory[category].items++
		}
	}

	for category, stat := range byCategory {
		spend := model.CategorySpend{
			Category: category,
			Total:    stat.total,
			Items:    stat.items,
		}
		if lineTotal > 0 {
			spend.Percent = stat.total / lineTotal * 100
		}
		summary.Categories = append(summary.Categories, spend)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		if summary.Categories[i].Total != summary.Categories[j].Total {
			return summary.Categories[i].Total > summary.Categories[j].Total
		}
		return summary.Categories[i].Category < summary.Categories[j].Category
	})
	return summary, nil
}
