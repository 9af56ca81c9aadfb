package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hearthward/grocer/internal/list"
	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/tui"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage the shopping list",
	}

	cmd.AddCommand(listAddCmd())
	cmd.AddCommand(listShowCmd())
	cmd.AddCommand(listUpdateCmd())
	cmd.AddCommand(listBoughtCmd())
	cmd.AddCommand(listRemoveCmd())
	cmd.AddCommand(listClearCmd())
	cmd.AddCommand(listBrowseCmd())
	return cmd
}

func listAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item to the list",
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
			storeName, _ := cmd.Flags().GetString("store")
			priority, _ := cmd.Flags().GetString("priority")
			addedBy, _ := cmd.Flags().GetString("by")
			notes, _ := cmd.Flags().GetString("notes")
			price, _ := cmd.Flags().GetFloat64("price")
			force, _ := cmd.Flags().GetBool("force")

			if storeName == "" {
				storeName = viper.GetString("defaults.store")
			}
			if category == "" {
				category = viper.GetString("defaults.category")
			}

			item, err := list.NewManager(store).Add(ctx, args[0], list.AddOptions{
				Quantity:       quantity,
				Unit:           unit,
				Category:       category,
				Store:          storeName,
				Priority:       model.Priority(priority),
				AddedBy:        addedBy,
				Notes:          notes,
				EstimatedPrice: price,
				AllowDuplicate: force,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Added %q (id %s)\n", item.Name, shortID(item))
			return nil
		},
	}

	cmd.Flags().Float64("quantity", 0, "how many to buy")
	cmd.Flags().String("unit", "", "unit of measure (lb, oz, ct, ...)")
	cmd.Flags().String("category", "", "spending category")
	cmd.Flags().String("store", "", "preferred store")
	cmd.Flags().String("priority", "", "priority (high, medium, low)")
	cmd.Flags().String("by", "", "who added the item")
	cmd.Flags().String("notes", "", "free-form notes")
	cmd.Flags().Float64("price", 0, "estimated price")
	cmd.Flags().Bool("force", false, "add even if the item is already on the list")
	return cmd
}

func listShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the shopping list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			storeName, _ := cmd.Flags().GetString("store")
			category, _ := cmd.Flags().GetString("category")
			status, _ := cmd.Flags().GetString("status")
			groupBy, _ := cmd.Flags().GetString("group")

			items, err := list.NewManager(store).Items(ctx, list.Filter{
				Store:    storeName,
				Category: category,
				Status:   model.ItemStatus(status),
			})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("The list is empty.")
				return nil
			}

			switch groupBy {
			case "store":
				printGroups(list.GroupByStore(items))
			case "category":
				printGroups(list.GroupByCategory(items))
			default:
				for _, item := range items {
					printItem(item)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("store", "", "only items for this store")
	cmd.Flags().String("category", "", "only items in this category")
	cmd.Flags().String("status", "", "only items with this status (to_buy, bought, still_needed)")
	cmd.Flags().String("group", "", "group output (store, category)")
	return cmd
}

func listUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <item>",
		Short: "Update a list item by name or id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			item, err := resolveItem(ctx, store, args[0])
			if err != nil {
				return err
			}

			var opts list.UpdateOptions
			if cmd.Flags().Changed("name") {
				v, _ := cmd.Flags().GetString("name")
				opts.Name = &v
			}
			if cmd.Flags().Changed("quantity") {
				v, _ := cmd.Flags().GetFloat64("quantity")
				opts.Quantity = &v
			}
			if cmd.Flags().Changed("unit") {
				v, _ := cmd.Flags().GetString("unit")
				opts.Unit = &v
			}
			if cmd.Flags().Changed("category") {
				v, _ := cmd.Flags().GetString("category")
				opts.Category = &v
			}
			if cmd.Flags().Changed("store") {
				v, _ := cmd.Flags().GetString("store")
				opts.Store = &v
			}
			if cmd.Flags().Changed("priority") {
				v, _ := cmd.Flags().GetString("priority")
				p := model.Priority(v)
				opts.Priority = &p
			}
			if cmd.Flags().Changed("notes") {
				v, _ := cmd.Flags().GetString("notes")
				opts.Notes = &v
			}
			if cmd.Flags().Changed("price") {
				v, _ := cmd.Flags().GetFloat64("price")
				opts.EstimatedPrice = &v
			}
			if cmd.Flags().Changed("status") {
				v, _ := cmd.Flags().GetString("status")
				s := model.ItemStatus(v)
				opts.Status = &s
			}

			updated, err := list.NewManager(store).Update(ctx, item.ID, opts)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %q\n", updated.Name)
			return nil
		},
	}

	cmd.Flags().String("name", "", "rename the item")
	cmd.Flags().Float64("quantity", 0, "how many to buy")
	cmd.Flags().String("unit", "", "unit of measure")
	cmd.Flags().String("category", "", "spending category")
	cmd.Flags().String("store", "", "preferred store")
	cmd.Flags().String("priority", "", "priority (high, medium, low)")
	cmd.Flags().String("notes", "", "free-form notes")
	cmd.Flags().Float64("price", 0, "estimated price")
	cmd.Flags().String("status", "", "status (to_buy, bought, still_needed)")
	return cmd
}

func listBoughtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bought <item>",
		Short: "Mark an item bought",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			item, err := resolveItem(ctx, store, args[0])
			if err != nil {
				return err
			}

			quantity, _ := cmd.Flags().GetFloat64("quantity")
			price, _ := cmd.Flags().GetFloat64("price")

			bought, err := list.NewManager(store).MarkBought(ctx, item.ID, quantity, price)
			if err != nil {
				return err
			}
			fmt.Printf("Bought %q\n", bought.Name)
			return nil
		},
	}

	cmd.Flags().Float64("quantity", 0, "actual quantity bought")
	cmd.Flags().Float64("price", 0, "actual price paid")
	return cmd
}

func listRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item>",
		Short: "Remove an item from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			item, err := resolveItem(ctx, store, args[0])
			if err != nil {
				return err
			}

			removed, err := list.NewManager(store).Remove(ctx, item.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %q\n", removed.Name)
			return nil
		},
	}
}

func listClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all bought items off the list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cleared, err := list.NewManager(store).ClearBought(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Cleared %d bought item(s)\n", cleared)
			return nil
		},
	}
}

func listBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the list interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return tui.Browse(ctx, store)
		},
	}
}

func printGroups(groups []list.Group) {
	for _, g := range groups {
		fmt.Printf("%s:\n", g.Key)
		for _, item := range g.Items {
			printItem(item)
		}
	}
}

func printItem(item model.ListItem) {
	marker := "[ ]"
	switch item.Status {
	case model.StatusBought:
		marker = "[x]"
	case model.StatusStillNeeded:
		marker = "[!]"
	}

	line := fmt.Sprintf("  %s %s", marker, item.Name)
	if item.Quantity > 1 {
		line += fmt.Sprintf(" ×%g", item.Quantity)
	}
	if item.Unit != "" {
		line += " " + item.Unit
	}
	if item.Priority == model.PriorityHigh {
		line += " (!)"
	}
	if item.Store != "" {
		line += " @" + item.Store
	}
	if item.EstimatedPrice > 0 {
		line += fmt.Sprintf(" ~$%.2f", item.EstimatedPrice)
	}
	fmt.Printf("%s  %s\n", line, shortID(&item))
}

func shortID(item *model.ListItem) string {
	return item.ID.String()[:8]
}
