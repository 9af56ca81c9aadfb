package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearthward/grocer/internal/analytics"
	"github.com/hearthward/grocer/internal/model"
)

func recommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <item>",
		Short: "Recommend the best store for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := analytics.New(store, analyzerConfig()).Recommend(ctx, args[0], nowFunc())
			if err != nil {
				return err
			}

			fmt.Printf("Best store for %q: %s %s\n", rec.ItemName, rec.BestStore, confidenceBadge(rec.Confidence))
			for _, s := range rec.StoreScores {
				fmt.Printf("  %-20s $%.2f  %d observation(s), last %s\n",
					s.Store, s.LatestPrice, s.Samples, s.LastObserved.Format("2006-01-02"))
			}
			if rec.Substitution != nil {
				fmt.Printf("When out of stock, %q has worked %d time(s)\n",
					rec.Substitution.ItemName, rec.Substitution.Count)
			}
			return nil
		},
	}
}

func routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route",
		Short: "Plan a shopping route for the open list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			items, err := store.LoadList(ctx)
			if err != nil {
				return err
			}
			var open []model.ListItem
			for _, item := range items {
				if item.Status.Open() {
					open = append(open, item)
				}
			}
			if len(open) == 0 {
				fmt.Println("Nothing open on the list.")
				return nil
			}

			route, err := analytics.New(store, analyzerConfig()).PlanRoute(ctx, open, nowFunc())
			if err != nil {
				return err
			}

			for i, stop := range route.Stops {
				fmt.Printf("%d. %s (%d item(s), ~$%.2f)\n",
					i+1, stop.Store, len(stop.Items), stop.EstimatedTotal)
				for _, item := range stop.Items {
					source := ""
					if item.Source == model.AssignedByHistory {
						source = "  [from history]"
					}
					fmt.Printf("   - %s%s\n", item.ItemName, source)
				}
			}
			if len(route.UnassignedItems) > 0 {
				fmt.Println("No store known for:")
				for _, item := range route.UnassignedItems {
					fmt.Printf("   - %s\n", item.ItemName)
				}
			}
			if route.EstimatedTotal > 0 {
				fmt.Printf("Estimated total: $%.2f\n", route.EstimatedTotal)
			}
			return nil
		},
	}
}

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Show shopping suggestions from purchase history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			suggestions, err := analytics.New(store, analyzerConfig()).Suggestions(ctx, nowFunc())
			if err != nil {
				return err
			}
			if len(suggestions) == 0 {
				fmt.Println("Nothing to suggest right now.")
				return nil
			}

			for _, s := range suggestions {
				tag := "·"
				if s.Priority == model.PriorityHigh {
					tag = "!"
				}
				fmt.Printf("%s [%s] %s: %s\n", tag, s.Type, s.ItemName, s.Message)
			}
			return nil
		},
	}
}
