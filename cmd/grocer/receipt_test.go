package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthward/grocer/internal/common"
)

func TestReceiptInputToModel(t *testing.T) {
	input := receiptInput{
		Store:    "Safeway",
		Date:     "2026-03-05",
		Subtotal: 5.49,
		Total:    5.49,
		Items: []receiptLineInput{
			{Name: "Milk", Quantity: 2, TotalPrice: 7.00},
			{Name: "Bananas", TotalPrice: 1.99, Sale: true},
		},
	}

	receipt, err := input.toModel()
	require.NoError(t, err)
	assert.Equal(t, "Safeway", receipt.StoreName)
	assert.Equal(t, 2026, receipt.TransactionDate.Year())
	require.Len(t, receipt.LineItems, 2)

	// Unit price derived from total when absent.
	assert.InDelta(t, 3.50, receipt.LineItems[0].UnitPrice, 1e-9)
	// Missing quantity defaults to one.
	assert.InDelta(t, 1, receipt.LineItems[1].Quantity, 1e-9)
	assert.True(t, receipt.LineItems[1].Sale)
}

func TestReceiptInputBadDate(t *testing.T) {
	input := receiptInput{Store: "Safeway", Date: "03/05/2026"}

	_, err := input.toModel()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestReadReceipt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "receipt.json")
	payload := `{
		"store": "Costco",
		"date": "2026-03-07",
		"total": 15.49,
		"discount": 2.00,
		"items": [
			{"name": "Rice 10lb", "total_price": 12.99},
			{"name": "Soy Sauce", "total_price": 2.50}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	receipt, err := readReceipt(path)
	require.NoError(t, err)
	assert.Equal(t, "Costco", receipt.StoreName)
	assert.InDelta(t, 2.00, receipt.DiscountTotal, 1e-9)
	assert.Len(t, receipt.LineItems, 2)
}

func TestReadReceiptMissingFile(t *testing.T) {
	_, err := readReceipt(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
