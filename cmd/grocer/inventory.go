package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/inventory"
	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/service"
)

func inventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Track what is in the house",
	}
	cmd.AddCommand(inventoryAddCmd())
	cmd.AddCommand(inventoryListCmd())
	cmd.AddCommand(inventoryUseCmd())
	cmd.AddCommand(inventoryRemoveCmd())
	cmd.AddCommand(inventoryExpiringCmd())
	cmd.AddCommand(inventoryLowStockCmd())
	return cmd
}

func inventoryAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item to the inventory",
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
			category, _ := cmd.Flags().GetString("category")
			location, _ := cmd.Flags().GetString("location")
			expires, _ := cmd.Flags().GetString("expires")
			threshold, _ := cmd.Flags().GetFloat64("threshold")
			addedBy, _ := cmd.Flags().GetString("by")

			var expiration *time.Time
			if expires != "" {
				parsed, err := time.ParseInLocation("2006-01-02", expires, time.UTC)
				if err != nil {
					return common.Validationf("bad expiration date %q (want YYYY-MM-DD)", expires)
				}
				expiration = &parsed
			}

			item, err := inventory.NewManager(store).Add(ctx, args[0], inventory.AddOptions{
				Quantity:          quantity,
				Unit:              unit,
				Category:          category,
				Location:          model.InventoryLocation(location),
				ExpirationDate:    expiration,
				LowStockThreshold: threshold,
				AddedBy:           addedBy,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Stocked %q in the %s (id %s)\n", item.Name, item.Location, item.ID.String()[:8])
			return nil
		},
	}

	cmd.Flags().Float64("quantity", 0, "quantity on hand")
	cmd.Flags().String("unit", "", "unit of measure (lb, oz, ct, ...)")
	cmd.Flags().String("category", "", "product category")
	cmd.Flags().String("location", "", "storage location (pantry, fridge, freezer)")
	cmd.Flags().String("expires", "", "expiration date (YYYY-MM-DD)")
	cmd.Flags().Float64("threshold", 0, "low-stock alert threshold")
	cmd.Flags().String("by", "", "who is adding")
	return cmd
}

func inventoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			location, _ := cmd.Flags().GetString("location")
			category, _ := cmd.Flags().GetString("category")

			items, err := inventory.NewManager(store).Items(ctx, inventory.Filter{
				Location: model.InventoryLocation(location),
				Category: category,
			})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("Inventory is empty.")
				return nil
			}

			for _, item := range items {
				printInventoryItem(item, nowFunc())
			}
			fmt.Printf("%d item(s)\n", len(items))
			return nil
		},
	}

	cmd.Flags().String("location", "", "filter by location (pantry, fridge, freezer)")
	cmd.Flags().String("category", "", "filter by category")
	return cmd
}

func inventoryUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <item>",
		Short: "Consume inventory (reduce quantity)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			quantity, _ := cmd.Flags().GetFloat64("quantity")

			item, err := resolveInventoryItem(ctx, store, args[0])
			if err != nil {
				return err
			}

			updated, err := inventory.NewManager(store).Use(ctx, item.ID, quantity)
			if err != nil {
				return err
			}

			fmt.Printf("Used %g of %q (%g remaining)\n", quantity, updated.Name, updated.Quantity)
			return nil
		},
	}

	cmd.Flags().Float64("quantity", 1, "amount to use")
	return cmd
}

func inventoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item>",
		Short: "Remove an item from the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			item, err := resolveInventoryItem(ctx, store, args[0])
			if err != nil {
				return err
			}

			removed, err := inventory.NewManager(store).Remove(ctx, item.ID)
			if err != nil {
				return err
			}

			fmt.Printf("Removed %q from the inventory\n", removed.Name)
			return nil
		},
	}
}

func inventoryExpiringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "Show items expiring soon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			days, _ := cmd.Flags().GetInt("days")
			now := nowFunc()

			items, err := inventory.NewManager(store).ExpiringSoon(ctx, days, now)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Printf("Nothing expires within %d day(s).\n", days)
				return nil
			}

			for _, item := range items {
				days, _ := item.DaysUntilExpiration(now)
				tag := fmt.Sprintf("in %d day(s)", days)
				if item.IsExpired(now) {
					tag = "EXPIRED"
				}
				fmt.Printf("  %-24s %-8s %s\n", item.Name, item.Location, tag)
			}
			return nil
		},
	}

	cmd.Flags().Int("days", 3, "days to look ahead")
	return cmd
}

func inventoryLowStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "low-stock",
		Short: "Show items running low",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			items, err := inventory.NewManager(store).LowStock(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("Nothing is running low.")
				return nil
			}

			for _, item := range items {
				fmt.Printf("  %-24s %g left (threshold %g)\n",
					item.Name, item.Quantity, item.LowStockThreshold)
			}
			return nil
		},
	}
}

func printInventoryItem(item model.InventoryItem, now time.Time) {
	line := fmt.Sprintf("  %-24s %-8s ×%g", item.Name, item.Location, item.Quantity)
	if item.Unit != "" {
		line += " " + item.Unit
	}
	if item.IsLowStock() {
		line += "  (low)"
	}
	if item.IsExpired(now) {
		line += "  (expired)"
	} else if days, ok := item.DaysUntilExpiration(now); ok && days <= 3 {
		line += fmt.Sprintf("  (expires in %d day(s))", days)
	}
	fmt.Println(line)
}

// resolveInventoryItem finds an inventory item by id prefix or name.
func resolveInventoryItem(ctx context.Context, store service.Storage, ref string) (*model.InventoryItem, error) {
	items, err := store.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	if id, err := uuid.Parse(ref); err == nil {
		for i := range items {
			if items[i].ID == id {
				return &items[i], nil
			}
		}
	}
	for i := range items {
		if strings.EqualFold(items[i].Name, ref) {
			return &items[i], nil
		}
	}
	for i := range items {
		if strings.HasPrefix(items[i].ID.String(), strings.ToLower(ref)) {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no inventory item matches %q", common.ErrNotFound, ref)
}
