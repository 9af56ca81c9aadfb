package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hearthward/grocer/internal/match"
	"github.com/hearthward/grocer/internal/model"
)

// PlanRoute assigns open list items to stores and orders the stops. An
// item's explicit store always wins; otherwise price history recommends a
// store when its confidence reaches medium, and items with neither are
// reported unassigned. History is loaded once for the whole plan.
func (a *Analyzer) PlanRoute(ctx context.Context, openItems []model.ListItem, now time.Time) (*model.ShoppingRoute, error) {
	points, err := a.storage.GetPricePoints(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	byItem := make(map[string][]model.PricePoint)
	for _, p := range points {
		byItem[p.ItemName] = append(byItem[p.ItemName], p)
	}

	route := &model.ShoppingRoute{TotalItems: len(openItems)}
	stops := make(map[string]*model.RouteStop)
	var stopOrder []string

	for _, item := range openItems {
		key := match.Canonical(item.Name)
		assignment := model.RouteAssignment{
			ItemID:   item.ID,
			ItemName: item.Name,
			Priority: item.Priority,
			Quantity: item.Quantity,
		}

		var scores []model.StoreScore
		if history := byItem[key]; len(history) > 0 {
			scores = scoreStores(history, now)
		}

		switch {
		case item.Store != "":
			assignment.Store = item.Store
			assignment.Source = model.AssignedByPreference
		case len(scores) > 0 && recommendConfidence(scores) != model.ConfidenceLow:
			assignment.Store = scores[0].Store
			assignment.Source = model.AssignedByHistory
		default:
			assignment.Source = model.Unassigned
			route.UnassignedItems = append(route.UnassignedItems, assignment)
			continue
		}

		if item.EstimatedPrice > 0 {
			assignment.EstimatedPrice = item.EstimatedPrice
		} else {
			for _, s := range scores {
				if s.Store == assignment.Store {
					assignment.EstimatedPrice = s.LatestPrice
					break
				}
			}
		}

		stop := stops[assignment.Store]
		if stop == nil {
			stop = &model.RouteStop{Store: assignment.Store}
			stops[assignment.Store] = stop
			stopOrder = append(stopOrder, assignment.Store)
		}
		stop.Items = append(stop.Items, assignment)
		stop.PriorityWeight += assignment.Priority.Weight()
		stop.EstimatedTotal += assignment.EstimatedPrice * max(assignment.Quantity, 1)
	}

	for _, store := range stopOrder {
		stop := stops[store]
		sort.SliceStable(stop.Items, func(i, j int) bool {
			if stop.Items[i].Priority.Weight() != stop.Items[j].Priority.Weight() {
				return stop.Items[i].Priority.Weight() > stop.Items[j].Priority.Weight()
			}
			return stop.Items[i].ItemName < stop.Items[j].ItemName
		})
		route.Stops = append(route.Stops, *stop)
		route.EstimatedTotal += stop.EstimatedTotal
	}

	sort.SliceStable(route.Stops, func(i, j int) bool {
		if route.Stops[i].PriorityWeight != route.Stops[j].PriorityWeight {
			return route.Stops[i].PriorityWeight > route.Stops[j].PriorityWeight
		}
		if len(route.Stops[i].Items) != len(route.Stops[j].Items) {
			return len(route.Stops[i].Items) > len(route.Stops[j].Items)
		}
		return route.Stops[i].Store < route.Stops[j].Store
	})
	return route, nil
}
