package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearthward/grocer/internal/model"
)

func oosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oos",
		Short: "Track out-of-stock reports",
	}
	cmd.AddCommand(oosReportCmd())
	cmd.AddCommand(oosShowCmd())
	return cmd
}

func oosReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <item> <store>",
		Short: "Report an item out of stock at a store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			substitution, _ := cmd.Flags().GetString("substitution")
			reporter, _ := cmd.Flags().GetString("by")

			record := &model.OutOfStockRecord{
				ItemName:     args[0],
				Store:        args[1],
				Substitution: substitution,
				ReportedBy:   reporter,
			}
			if err := store.AppendOutOfStock(ctx, record); err != nil {
				return err
			}

			fmt.Printf("Recorded: %q out of stock at %s\n", args[0], args[1])
			if substitution != "" {
				fmt.Printf("  substituted with %q\n", substitution)
			}
			return nil
		},
	}

	cmd.Flags().String("substitution", "", "what was bought instead")
	cmd.Flags().String("by", "", "who hit the empty shelf")
	return cmd
}

func oosShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <item>",
		Short: "Show out-of-stock history for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.GetOutOfStock(ctx, canonicalKey(args[0]))
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Printf("No out-of-stock reports for %q.\n", args[0])
				return nil
			}

			for _, r := range records {
				line := fmt.Sprintf("%s  %s at %s", r.Date.Format("2006-01-02"), r.ItemName, r.Store)
				if r.Substitution != "" {
					line += fmt.Sprintf(" (substituted %q)", r.Substitution)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
