package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearthward/grocer/internal/analytics"
	"github.com/hearthward/grocer/internal/model"
)

func wasteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waste",
		Short: "Track and analyze food waste",
	}
	cmd.AddCommand(wasteLogCmd())
	cmd.AddCommand(wasteListCmd())
	cmd.AddCommand(wasteSummaryCmd())
	return cmd
}

func wasteLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <item>",
		Short: "Log a wasted item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			quantity, _ := cmd.Flags().GetFloat64("quantity")
			unit, _ := cmd.Flags().GetString("unit")
			reason, _ := cmd.Flags().GetString("reason")
			cost, _ := cmd.Flags().GetFloat64("cost")
			loggedBy, _ := cmd.Flags().GetString("by")

			record, err := analytics.New(store, analyzerConfig()).LogWaste(ctx, model.WasteRecord{
				ItemName:      args[0],
				Quantity:      quantity,
				Unit:          unit,
				Reason:        model.WasteReason(reason),
				EstimatedCost: cost,
				LoggedBy:      loggedBy,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Logged waste: %s (%s)\n", record.ItemName, record.Reason)
			return nil
		},
	}

	cmd.Flags().Float64("quantity", 1, "amount wasted")
	cmd.Flags().String("unit", "", "unit of measure")
	cmd.Flags().String("reason", string(model.WasteOther), "reason (spoiled, never_used, overripe, other)")
	cmd.Flags().Float64("cost", 0, "estimated cost")
	cmd.Flags().String("by", "", "who is logging")
	return cmd
}

func wasteListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List waste records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			item, _ := cmd.Flags().GetString("item")

			records, err := store.GetWaste(ctx, canonicalKey(item))
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No waste logged. Keep it up.")
				return nil
			}

			for _, r := range records {
				line := fmt.Sprintf("  %s  %-24s ×%g (%s)",
					r.LoggedDate.Format("2006-01-02"), r.ItemName, r.Quantity, r.Reason)
				if r.EstimatedCost > 0 {
					line += fmt.Sprintf("  ~$%.2f", r.EstimatedCost)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().String("item", "", "filter by item name")
	return cmd
}

func wasteSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize waste for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			period, _ := cmd.Flags().GetString("period")

			summary, err := analytics.New(store, analyzerConfig()).WasteSummary(ctx, period, nowFunc())
			if err != nil {
				return err
			}

			fmt.Printf("Waste %s (%s – %s): %d item(s), $%.2f\n",
				summary.Period,
				summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02"),
				summary.Items, summary.TotalCost)

			for _, rc := range summary.ByReason {
				fmt.Printf("  %-12s %d\n", rc.Reason, rc.Count)
			}
			if len(summary.MostWasted) > 0 {
				fmt.Println("Most wasted:")
				for _, item := range summary.MostWasted {
					fmt.Printf("  %-24s %d time(s)\n", item.ItemName, item.Count)
				}
			}
			for _, insight := range summary.Insights {
				fmt.Printf("  · %s\n", insight)
			}
			return nil
		},
	}

	cmd.Flags().String("period", analytics.PeriodMonthly, "period (weekly, monthly, yearly)")
	return cmd
}
