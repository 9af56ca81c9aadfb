package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/engine"
	"github.com/hearthward/grocer/internal/inventory"
	"github.com/hearthward/grocer/internal/model"
)

// receiptInput is the on-disk JSON shape for a receipt.
type receiptInput struct {
	Store         string             `json:"store"`
	Location      string             `json:"location,omitempty"`
	Date          string             `json:"date"`
	Time          string             `json:"time,omitempty"`
	PurchasedBy   string             `json:"purchased_by,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Items         []receiptLineInput `json:"items"`
	Subtotal      float64            `json:"subtotal"`
	Tax           float64            `json:"tax,omitempty"`
	Discount      float64            `json:"discount,omitempty"`
	Coupons       float64            `json:"coupons,omitempty"`
	Total         float64            `json:"total"`
}

type receiptLineInput struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity,omitempty"`
	UnitPrice    float64 `json:"unit_price,omitempty"`
	TotalPrice   float64 `json:"total_price"`
	RegularPrice float64 `json:"regular_price,omitempty"`
	Discount     float64 `json:"discount,omitempty"`
	Coupon       float64 `json:"coupon,omitempty"`
	Sale         bool    `json:"sale,omitempty"`
}

func receiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Process store receipts",
	}
	cmd.AddCommand(receiptProcessCmd())
	return cmd
}

func receiptProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <file.json> [file.json...]",
		Short: "Reconcile receipt files against the shopping list",
		Long: `Reads one or more receipt JSON files, matches their line items against
the open shopping list, marks matches bought, and records price, purchase,
and savings history. Each receipt is applied atomically.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stock, _ := cmd.Flags().GetBool("stock")

			eng := engine.New(store)
			inv := inventory.NewManager(store)

			var bar *progressbar.ProgressBar
			if len(args) > 1 {
				bar = progressbar.Default(int64(len(args)), "processing receipts")
			}

			var failed int
			for _, path := range args {
				if err := processReceiptFile(cmd, eng, inv, path, stock); err != nil {
					if errors.Is(err, common.ErrDuplicateItem) {
						slog.Warn("skipping duplicate receipt", "file", path)
					} else {
						common.LogError(err, "failed to process receipt", common.Fields{"file": path})
						failed++
					}
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d receipt(s) failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().Bool("stock", false, "also add the receipt's items to the household inventory")
	return cmd
}

func processReceiptFile(cmd *cobra.Command, eng *engine.Engine, inv *inventory.Manager, path string, stock bool) error {
	receipt, err := readReceipt(path)
	if err != nil {
		return err
	}

	result, err := eng.Reconcile(cmd.Context(), receipt)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s  %s (%d line items, $%.2f)\n",
		receipt.StoreName, receipt.TransactionDate.Format("2006-01-02"),
		result.LineItems, result.TotalSpent)
	if len(result.Matched) > 0 {
		fmt.Printf("  bought:       %s\n", strings.Join(result.Matched, ", "))
	}
	if len(result.NewlyBought) > 0 {
		fmt.Printf("  newly bought: %s\n", strings.Join(result.NewlyBought, ", "))
	}
	if len(result.StillNeeded) > 0 {
		fmt.Printf("  still needed: %s\n", strings.Join(result.StillNeeded, ", "))
	}

	if stock {
		added, err := inv.AddFromReceipt(cmd.Context(), receipt)
		if err != nil {
			return fmt.Errorf("receipt processed but stocking the inventory failed: %w", err)
		}
		fmt.Printf("  stocked:      %d item(s)\n", len(added))
	}
	return nil
}

func readReceipt(path string) (*model.Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var input receiptInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid receipt JSON in %s: %w", path, err)
	}
	return input.toModel()
}

func (in receiptInput) toModel() (*model.Receipt, error) {
	date, err := time.ParseInLocation("2006-01-02", in.Date, time.UTC)
	if err != nil {
		return nil, common.Validationf("bad receipt date %q (want YYYY-MM-DD)", in.Date)
	}

	receipt := &model.Receipt{
		StoreName:       in.Store,
		StoreLocation:   in.Location,
		TransactionDate: date,
		TransactionTime: in.Time,
		PurchasedBy:     in.PurchasedBy,
		PaymentMethod:   in.PaymentMethod,
		Subtotal:        in.Subtotal,
		Tax:             in.Tax,
		DiscountTotal:   in.Discount,
		CouponTotal:     in.Coupons,
		Total:           in.Total,
	}
	for _, line := range in.Items {
		quantity := line.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		unitPrice := line.UnitPrice
		if unitPrice == 0 && quantity > 0 {
			unitPrice = line.TotalPrice / quantity
		}
		receipt.LineItems = append(receipt.LineItems, model.LineItem{
			ItemName:         line.Name,
			Quantity:         quantity,
			UnitPrice:        unitPrice,
			TotalPrice:       line.TotalPrice,
			RegularUnitPrice: line.RegularPrice,
			DiscountAmount:   line.Discount,
			CouponAmount:     line.Coupon,
			Sale:             line.Sale,
		})
	}
	return receipt, nil
}
