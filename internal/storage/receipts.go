package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
)

// SaveReceipt appends a receipt and its line items. Receipts are immutable;
// saving an already-stored receipt (same hash) is rejected as a duplicate.
func (s *SQLiteStorage) SaveReceipt(ctx context.Context, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveReceiptTx(ctx, tx, receipt); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveReceiptTx(ctx context.Context, q queryable, receipt *model.Receipt) error {
	insert := `
		INSERT INTO receipts (
			id, hash, store_name, store_location, transaction_date,
			transaction_time, purchased_by, payment_method, subtotal, tax,
			discount_total, coupon_total, total, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := receipt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := q.ExecContext(ctx, insert,
		receipt.ID.String(),
		receipt.GenerateHash(),
		receipt.StoreName,
		nullableString(receipt.StoreLocation),
		receipt.TransactionDate,
		nullableString(receipt.TransactionTime),
		nullableString(receipt.PurchasedBy),
		nullableString(receipt.PaymentMethod),
		receipt.Subtotal,
		receipt.Tax,
		receipt.DiscountTotal,
		receipt.CouponTotal,
		receipt.Total,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	lineInsert := `
		INSERT INTO receipt_line_items (
			receipt_id, position, item_name, quantity, unit_price, total_price,
			regular_unit_price, discount_amount, coupon_amount, sale, matched_item_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, li := range receipt.LineItems {
		var matchedID any
		if li.MatchedItemID != uuid.Nil {
			matchedID = li.MatchedItemID.String()
		}

		_, err := q.ExecContext(ctx, lineInsert,
			receipt.ID.String(),
			i,
			li.ItemName,
			li.Quantity,
			li.UnitPrice,
			li.TotalPrice,
			li.RegularUnitPrice,
			li.DiscountAmount,
			li.CouponAmount,
			li.Sale,
			matchedID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item %d: %w", i, err)
		}
	}

	return nil
}

// GetReceipt returns a receipt with its line items.
func (s *SQLiteStorage) GetReceipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getReceiptTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getReceiptTx(ctx context.Context, q queryable, id uuid.UUID) (*model.Receipt, error) {
	query := `
		SELECT id, store_name, store_location, transaction_date, transaction_time,
		       purchased_by, payment_method, subtotal, tax, discount_total,
		       coupon_total, total, created_at
		FROM receipts
		WHERE id = ?`

	receipt, err := scanReceipt(q.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: receipt %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	lineItems, err := s.loadLineItems(ctx, q, receipt.ID)
	if err != nil {
		return nil, err
	}
	receipt.LineItems = lineItems
	return &receipt, nil
}

// ListReceipts returns receipts whose transaction date falls in [start, end].
func (s *SQLiteStorage) ListReceipts(ctx context.Context, start, end time.Time) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, end, start)
	}
	return s.listReceiptsTx(ctx, s.db, start, end)
}

func (s *SQLiteStorage) listReceiptsTx(ctx context.Context, q queryable, start, end time.Time) ([]model.Receipt, error) {
	query := `
		SELECT id, store_name, store_location, transaction_date, transaction_time,
		       purchased_by, payment_method, subtotal, tax, discount_total,
		       coupon_total, total, created_at
		FROM receipts
		WHERE transaction_date >= ? AND transaction_date <= ?
		ORDER BY transaction_date, id`

	rows, err := q.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var receipts []model.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	for i := range receipts {
		lineItems, err := s.loadLineItems(ctx, q, receipts[i].ID)
		if err != nil {
			return nil, err
		}
		receipts[i].LineItems = lineItems
	}

	return receipts, nil
}

func (s *SQLiteStorage) loadLineItems(ctx context.Context, q queryable, receiptID uuid.UUID) ([]model.LineItem, error) {
	query := `
		SELECT item_name, quantity, unit_price, total_price, regular_unit_price,
		       discount_amount, coupon_amount, sale, matched_item_id
		FROM receipt_line_items
		WHERE receipt_id = ?
		ORDER BY position`

	rows, err := q.QueryContext(ctx, query, receiptID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lineItems []model.LineItem
	for rows.Next() {
		var (
			li        model.LineItem
			matchedID sql.NullString
		)
		err := rows.Scan(&li.ItemName, &li.Quantity, &li.UnitPrice, &li.TotalPrice,
			&li.RegularUnitPrice, &li.DiscountAmount, &li.CouponAmount, &li.Sale, &matchedID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		if matchedID.Valid {
			parsed, parseErr := uuid.Parse(matchedID.String)
			if parseErr != nil {
				return nil, fmt.Errorf("%w: bad matched item id %q", common.ErrDatabaseCorrupted, matchedID.String)
			}
			li.MatchedItemID = parsed
		}
		lineItems = append(lineItems, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line items: %w", err)
	}

	return lineItems, nil
}

func scanReceipt(row scanner) (model.Receipt, error) {
	var (
		receipt       model.Receipt
		id            string
		storeLocation sql.NullString
		txTime        sql.NullString
		purchasedBy   sql.NullString
		paymentMethod sql.NullString
	)

	err := row.Scan(&id, &receipt.StoreName, &storeLocation, &receipt.TransactionDate,
		&txTime, &purchasedBy, &paymentMethod, &receipt.Subtotal, &receipt.Tax,
		&receipt.DiscountTotal, &receipt.CouponTotal, &receipt.Total, &receipt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return receipt, err
		}
		return receipt, fmt.Errorf("failed to scan receipt: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return receipt, fmt.Errorf("%w: bad receipt id %q", common.ErrDatabaseCorrupted, id)
	}

	receipt.ID = parsed
	receipt.StoreLocation = storeLocation.String
	receipt.TransactionTime = txTime.String
	receipt.PurchasedBy = purchasedBy.String
	receipt.PaymentMethod = paymentMethod.String
	return receipt, nil
}
