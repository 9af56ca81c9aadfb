// Package engine implements receipt reconciliation: matching receipt lines
// against the shopping list and recording history in a single transaction.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hearthward/grocer/internal/analytics"
	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/match"
	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/service"
)

// Engine reconciles receipts against the shopping list. It does no internal
// locking; callers serialize writes.
type Engine struct {
	storage service.Storage
}

// New creates a reconciliation engine.
func New(storage service.Storage) *Engine {
	return &Engine{storage: storage}
}

// Reconcile processes one receipt: it marks matched list items bought,
// appends price points, purchases, and savings records, and persists the
// receipt. Everything is validated up front and written in one transaction;
// a failure anywhere leaves the database untouched.
func (e *Engine) Reconcile(ctx context.Context, receipt *model.Receipt) (*model.ReconciliationResult, error) {
	if err := validateReceipt(receipt); err != nil {
		return nil, err
	}

	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now()
	}

	dup, err := e.isDuplicate(ctx, receipt)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("%w: receipt for %s on %s already processed",
			common.ErrDuplicateItem, receipt.StoreName, receipt.TransactionDate.Format("2006-01-02"))
	}

	tx, err := e.storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after Commit is a no-op.
		_ = tx.Rollback()
	}()

	result, err := e.apply(ctx, tx, receipt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reconciliation: %w", err)
	}

	slog.Info("processed receipt",
		"store", receipt.StoreName,
		"date", receipt.TransactionDate.Format("2006-01-02"),
		"lines", result.LineItems,
		"matched", len(result.Matched),
		"newly_bought", len(result.NewlyBought))
	return result, nil
}

func (e *Engine) apply(ctx context.Context, tx service.Transaction, receipt *model.Receipt) (*model.ReconciliationResult, error) {
	items, err := tx.LoadList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	matcher := match.NewMatcher(items)
	result := &model.ReconciliationResult{
		ReceiptID:  receipt.ID,
		TotalSpent: receipt.Total,
		LineItems:  len(receipt.LineItems),
	}

	byID := make(map[uuid.UUID]*model.ListItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	now := time.Now()
	for i := range receipt.LineItems {
		line := &receipt.LineItems[i]
		id, listName, ok := matcher.Match(line.ItemName)
		if !ok {
			result.NewlyBought = append(result.NewlyBought, line.ItemName)
			continue
		}

		line.MatchedItemID = id
		result.Matched = append(result.Matched, listName)

		item := byID[id]
		item.Status = model.StatusBought
		if line.Quantity > 0 {
			item.Quantity = line.Quantity
		}
		if line.UnitPrice > 0 {
			item.EstimatedPrice = line.UnitPrice
		}
		item.UpdatedAt = now
	}
	result.StillNeeded = matcher.Remaining()

	if err := tx.SaveReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}
	if err := tx.SaveList(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	if err := tx.AppendPricePoints(ctx, pricePoints(receipt)); err != nil {
		return nil, fmt.Errorf("failed to record price history: %w", err)
	}
	if err := tx.AppendPurchases(ctx, purchases(receipt)); err != nil {
		return nil, fmt.Errorf("failed to record purchases: %w", err)
	}
	if records := savingsRecords(receipt, byID); len(records) > 0 {
		if err := tx.AppendSavings(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to record savings: %w", err)
		}
	}

	return result, nil
}

// isDuplicate compares the receipt's hash against receipts already stored
// for the same calendar date.
func (e *Engine) isDuplicate(ctx context.Context, receipt *model.Receipt) (bool, error) {
	day := receipt.TransactionDate
	existing, err := e.storage.ListReceipts(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate receipt: %w", err)
	}

	hash := receipt.GenerateHash()
	for i := range existing {
		if existing[i].GenerateHash() == hash {
			return true, nil
		}
	}
	return false, nil
}

func pricePoints(receipt *model.Receipt) []model.PricePoint {
	points := make([]model.PricePoint, 0, len(receipt.LineItems))
	for _, line := range receipt.LineItems {
		key := match.Canonical(line.ItemName)
		if key == "" {
			continue
		}
		points = append(points, model.PricePoint{
			ItemName:  key,
			Store:     receipt.StoreName,
			Date:      receipt.TransactionDate,
			Price:     line.UnitPrice,
			Sale:      line.OnSale(),
			ReceiptID: receipt.ID,
		})
	}
	return points
}

func purchases(receipt *model.Receipt) []model.PurchaseRecord {
	records := make([]model.PurchaseRecord, 0, len(receipt.LineItems))
	for _, line := range receipt.LineItems {
		key := match.Canonical(line.ItemName)
		if key == "" {
			continue
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		records = append(records, model.PurchaseRecord{
			ItemName: key,
			Date:     receipt.TransactionDate,
			Store:    receipt.StoreName,
			Quantity: qty,
		})
	}
	return records
}

// savingsRecords collects line-level savings plus the prorated shares of any
// receipt-level discount. Item names are stored in canonical display form so
// summaries aggregate across printed name variants.
func savingsRecords(receipt *model.Receipt, byID map[uuid.UUID]*model.ListItem) []model.SavingsRecord {
	var records []model.SavingsRecord

	category := func(line model.LineItem) string {
		if line.MatchedItemID != uuid.Nil {
			if item, ok := byID[line.MatchedItemID]; ok && item.Category != "" {
				return item.Category
			}
		}
		return analytics.GuessCategory(line.ItemName)
	}

	for _, line := range receipt.LineItems {
		amount := line.ExplicitSavings()
		if amount <= 0 {
			continue
		}
		records = append(records, model.SavingsRecord{
			ID:        uuid.New(),
			ReceiptID: receipt.ID,
			ItemName:  match.DisplayName(line.ItemName),
			Store:     receipt.StoreName,
			Category:  category(line),
			Date:      receipt.TransactionDate,
			Amount:    amount,
			Source:    model.SavingsLineItem,
		})
	}

	shares := ProrateSavings(receipt.ReceiptLevelSavings(), receipt.LineItems)
	for i, share := range shares {
		if share <= 0 {
			continue
		}
		line := receipt.LineItems[i]
		records = append(records, model.SavingsRecord{
			ID:        uuid.New(),
			ReceiptID: receipt.ID,
			ItemName:  match.DisplayName(line.ItemName),
			Store:     receipt.StoreName,
			Category:  category(line),
			Date:      receipt.TransactionDate,
			Amount:    share,
			Source:    model.SavingsReceipt,
		})
	}

	return records
}

// ProrateSavings splits a receipt-level savings amount across line items in
// proportion to their totals, working in whole cents. Rounding remainder
// goes to the last line item so the shares always sum to the input amount.
func ProrateSavings(amount float64, lines []model.LineItem) []float64 {
	shares := make([]float64, len(lines))
	if amount <= 0 || len(lines) == 0 {
		return shares
	}

	cents := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0)

	grand := decimal.Zero
	lineCents := make([]decimal.Decimal, len(lines))
	for i, line := range lines {
		c := decimal.NewFromFloat(line.TotalPrice).Mul(decimal.NewFromInt(100)).Round(0)
		if c.IsNegative() {
			c = decimal.Zero
		}
		lineCents[i] = c
		grand = grand.Add(c)
	}

	hundred := decimal.NewFromInt(100)
	if grand.IsZero() {
		// Nothing to weight by; everything lands on the last line.
		shares[len(lines)-1], _ = cents.Div(hundred).Float64()
		return shares
	}

	allocated := decimal.Zero
	for i := 0; i < len(lines)-1; i++ {
		share := cents.Mul(lineCents[i]).Div(grand).Floor()
		allocated = allocated.Add(share)
		shares[i], _ = share.Div(hundred).Float64()
	}
	shares[len(lines)-1], _ = cents.Sub(allocated).Div(hundred).Float64()
	return shares
}

func validateReceipt(receipt *model.Receipt) error {
	if receipt == nil {
		return common.Validationf("receipt is required")
	}
	if receipt.StoreName == "" {
		return common.Validationf("receipt store name is required")
	}
	if receipt.TransactionDate.IsZero() {
		return common.Validationf("receipt transaction date is required")
	}
	if len(receipt.LineItems) == 0 {
		return common.Validationf("receipt has no line items")
	}
	if receipt.Total <= 0 {
		return common.Validationf("receipt total is required")
	}
	if receipt.Subtotal <= 0 {
		return common.Validationf("receipt subtotal is required")
	}
	for i, line := range receipt.LineItems {
		if line.ItemName == "" {
			return common.Validationf("line item %d has no name", i+1)
		}
		if line.TotalPrice < 0 || line.UnitPrice < 0 {
			return common.Validationf("line item %q has a negative price", line.ItemName)
		}
	}
	return nil
}
