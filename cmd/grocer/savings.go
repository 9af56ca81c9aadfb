package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hearthward/grocer/internal/analytics"
	"github.com/hearthward/grocer/internal/model"
)

func savingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Summarize realized savings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			period, _ := cmd.Flags().GetString("period")
			summary, err := analytics.New(store, analyzerConfig()).SavingsSummary(ctx, period, nowFunc())
			if err != nil {
				return err
			}

			fmt.Printf("Savings %s (%s – %s): $%.2f across %d record(s), %d receipt(s)\n",
				summary.Period,
				summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02"),
				summary.Total, summary.Records, summary.ReceiptCount)

			printContributors("By item", summary.ByItem)
			printContributors("By store", summary.ByStore)
			printContributors("By category", summary.ByCategory)
			printContributors("By source", summary.BySource)
			return nil
		},
	}

	cmd.Flags().String("period", analytics.PeriodMonthly, "period (weekly, monthly, yearly)")
	return cmd
}

func spendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Summarize spending by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			period, _ := cmd.Flags().GetString("period")
			summary, err := analytics.New(store, analyzerConfig()).SpendingSummary(ctx, period, nowFunc())
			if err != nil {
				return err
			}

			fmt.Printf("Spending %s (%s – %s): $%.2f over %d receipt(s), %d item(s)\n",
				summary.Period,
				summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02"),
				summary.Total, summary.ReceiptCount, summary.ItemCount)
			for _, c := range summary.Categories {
				fmt.Printf("  %-16s $%8.2f  %5.1f%%  (%d item(s))\n",
					c.Category, c.Total, c.Percent, c.Items)
			}

			if budget := viper.GetFloat64("budget.monthly"); budget > 0 && period == analytics.PeriodMonthly {
				remaining := budget - summary.Total
				fmt.Printf("Budget: $%.2f of $%.2f spent, $%.2f remaining\n",
					summary.Total, budget, remaining)
			}
			return nil
		},
	}

	cmd.Flags().String("period", analytics.PeriodMonthly, "period (weekly, monthly, yearly)")
	return cmd
}

func printContributors(title string, contributors []model.SavingsContributor) {
	if len(contributors) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	limit := min(len(contributors), 5)
	for _, c := range contributors[:limit] {
		fmt.Printf("  %-24s $%.2f (%d record(s))\n", c.Name, c.Total, c.Records)
	}
}
