package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearthward/grocer/internal/analytics"
	"github.com/hearthward/grocer/internal/model"
)

func bulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk <item>",
		Short: "Compare a bulk pack against a single purchase",
		Long: `Compares the per-unit price of a bulk pack against a standard purchase,
converting between compatible units (weight, volume, count). With enough
purchase history, projects the monthly savings at your consumption rate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			singleQty, _ := cmd.Flags().GetFloat64("single-qty")
			singleUnit, _ := cmd.Flags().GetString("single-unit")
			singlePrice, _ := cmd.Flags().GetFloat64("single-price")
			bulkQty, _ := cmd.Flags().GetFloat64("bulk-qty")
			bulkUnit, _ := cmd.Flags().GetString("bulk-unit")
			bulkPrice, _ := cmd.Flags().GetFloat64("bulk-price")
			lookback, _ := cmd.Flags().GetInt("lookback")

			analysis, err := analytics.New(store, analyzerConfig()).CompareBulk(ctx, args[0],
				model.PackOffer{Quantity: singleQty, Unit: singleUnit, PackPrice: singlePrice},
				model.PackOffer{Quantity: bulkQty, Unit: bulkUnit, PackPrice: bulkPrice},
				lookback, nowFunc())
			if err != nil {
				return err
			}

			switch analysis.Status {
			case model.BulkUnitMismatch:
				fmt.Printf("Cannot compare: %q and %q are different kinds of units.\n", singleUnit, bulkUnit)
				return nil
			case model.BulkUnknownUnit:
				fmt.Println("Cannot compare: unrecognized unit.")
				return nil
			case model.BulkInvalidQuantity:
				fmt.Println("Cannot compare: quantities and prices must be positive.")
				return nil
			}

			fmt.Printf("Bulk comparison for %q (per %s):\n", analysis.ItemName, analysis.Single.NormalizedUnit)
			fmt.Printf("  single: $%.4f\n", analysis.Single.UnitPrice)
			fmt.Printf("  bulk:   $%.4f\n", analysis.Bulk.UnitPrice)
			fmt.Printf("  savings: %.1f%%\n", analysis.SavingsPercent)
			if analysis.MonthlyConsumption > 0 {
				fmt.Printf("  projected monthly savings: $%.2f (≈%.0f %s/month)\n",
					analysis.ProjectedMonthlySavings, analysis.MonthlyConsumption, analysis.Single.NormalizedUnit)
			}
			if analysis.RecommendBulk {
				fmt.Println("Verdict: buy the bulk pack.")
			} else {
				fmt.Println("Verdict: the single purchase is the better deal.")
			}
			return nil
		},
	}

	cmd.Flags().Float64("single-qty", 1, "single purchase quantity")
	cmd.Flags().String("single-unit", "", "single purchase unit")
	cmd.Flags().Float64("single-price", 0, "single purchase price")
	cmd.Flags().Float64("bulk-qty", 0, "bulk pack quantity")
	cmd.Flags().String("bulk-unit", "", "bulk pack unit")
	cmd.Flags().Float64("bulk-price", 0, "bulk pack price")
	cmd.Flags().Int("lookback", 90, "days of purchase history for consumption rate")
	_ = cmd.MarkFlagRequired("single-price")
	_ = cmd.MarkFlagRequired("bulk-qty")
	_ = cmd.MarkFlagRequired("bulk-price")
	return cmd
}
