package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearthward/grocer/internal/analytics"
)

func pricesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices <item>",
		Short: "Show price history for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			storeName, _ := cmd.Flags().GetString("store")
			compare, _ := cmd.Flags().GetBool("compare")

			analyzer := analytics.New(store, analyzerConfig())

			if compare {
				prices, err := analyzer.ComparePrices(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Latest prices for %q:\n", args[0])
				for i, p := range prices {
					marker := "  "
					if i == 0 {
						marker = "★ "
					}
					sale := ""
					if p.Sale {
						sale = " (sale)"
					}
					fmt.Printf("%s%-20s $%.2f%s  last seen %s\n",
						marker, p.Store, p.Price, sale, p.LastObserved.Format("2006-01-02"))
				}
				if len(prices) > 1 {
					spread := prices[len(prices)-1].Price - prices[0].Price
					fmt.Printf("Spread: $%.2f\n", spread)
				}
				return nil
			}

			summary, err := analyzer.PriceHistory(ctx, args[0], storeName)
			if err != nil {
				return err
			}

			scope := "all stores"
			if summary.Store != "" {
				scope = summary.Store
			}
			fmt.Printf("Price history for %q (%s, %d points)\n",
				summary.ItemName, scope, len(summary.Points))
			fmt.Printf("  current: $%.2f\n", summary.Current)
			fmt.Printf("  average: $%.2f\n", summary.Average)
			fmt.Printf("  min:     $%.2f\n", summary.Min)
			fmt.Printf("  max:     $%.2f\n", summary.Max)
			return nil
		},
	}

	cmd.Flags().String("store", "", "limit history to one store")
	cmd.Flags().Bool("compare", false, "compare latest prices across stores")
	return cmd
}

func frequencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frequency <item>",
		Short: "Show how often an item is purchased",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := analytics.New(store, analyzerConfig()).Frequency(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Purchase frequency for %q %s\n", summary.ItemName, confidenceBadge(summary.Confidence))
			fmt.Printf("  purchases:      %d\n", summary.TotalPurchases)
			fmt.Printf("  last purchased: %s\n", summary.LastPurchased.Format("2006-01-02"))
			if summary.AverageDays != nil {
				fmt.Printf("  average gap:    %.1f days\n", *summary.AverageDays)
			}
			if summary.NextExpected != nil {
				fmt.Printf("  next expected:  %s\n", summary.NextExpected.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func seasonalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seasonal <item>",
		Short: "Show seasonal price patterns for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			analyzer := analytics.New(store, analyzerConfig())
			pattern, err := analyzer.SeasonalPattern(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Seasonal profile for %q (%d samples) %s\n",
				pattern.ItemName, pattern.SampleSize, confidenceBadge(pattern.Confidence))
			for _, m := range pattern.Months {
				trust := ""
				if !m.Trusted {
					trust = "  (few samples)"
				}
				fmt.Printf("  %-10s %2d purchase(s)  avg $%.2f%s\n",
					monthName(m.Month), m.Count, m.AveragePrice, trust)
			}

			premium, err := analyzer.CurrentPremium(ctx, args[0], nowFunc())
			if err != nil {
				return err
			}
			if premium.BaselinePrice > 0 {
				fmt.Printf("Current: $%.2f vs %s baseline $%.2f (%+.0f%%)\n",
					premium.CurrentPrice, monthName(premium.Month),
					premium.BaselinePrice, premium.PremiumPercent)
			}
			return nil
		},
	}
}
