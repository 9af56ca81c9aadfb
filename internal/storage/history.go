package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
)

// AppendPricePoints appends price observations to the history log.
func (s *SQLiteStorage) AppendPricePoints(ctx context.Context, points []model.PricePoint) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.appendPricePointsTx(ctx, tx, points); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) appendPricePointsTx(ctx context.Context, q queryable, points []model.PricePoint) error {
	insert := `
		INSERT INTO price_points (item_key, store, date, price, unit, sale, receipt_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, point := range points {
		if err := validateString(point.ItemName, "item name"); err != nil {
			return err
		}
		if err := validateString(point.Store, "store"); err != nil {
			return err
		}

		var receiptID any
		if point.ReceiptID != uuid.Nil {
			receiptID = point.ReceiptID.String()
		}

		_, err := q.ExecContext(ctx, insert,
			point.ItemName,
			point.Store,
			point.Date,
			point.Price,
			nullableString(point.Unit),
			point.Sale,
			receiptID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert price point for %s: %w", point.ItemName, err)
		}
	}

	return nil
}

// GetPricePoints returns price observations for an item key, oldest first.
// An empty key returns the full log.
func (s *SQLiteStorage) GetPricePoints(ctx context.Context, itemKey string) ([]model.PricePoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getPricePointsTx(ctx, s.db, itemKey)
}

func (s *SQLiteStorage) getPricePointsTx(ctx context.Context, q queryable, itemKey string) ([]model.PricePoint, error) {
	query := `
		SELECT item_key, store, date, price, unit, sale, receipt_id
		FROM price_points`
	args := []any{}
	if itemKey != "" {
		query += ` WHERE item_key = ?`
		args = append(args, itemKey)
	}
	query += ` ORDER BY date, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []model.PricePoint
	for rows.Next() {
		var (
			point     model.PricePoint
			unit      sql.NullString
			receiptID sql.NullString
		)
		err := rows.Scan(&point.ItemName, &point.Store, &point.Date, &point.Price,
			&unit, &point.Sale, &receiptID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		point.Unit = unit.String
		if receiptID.Valid {
			parsed, parseErr := uuid.Parse(receiptID.String)
			if parseErr != nil {
				return nil, fmt.Errorf("%w: bad receipt id %q", common.ErrDatabaseCorrupted, receiptID.String)
			}
			point.ReceiptID = parsed
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price points: %w", err)
	}

	return points, nil
}

// AppendPurchases appends purchase events to the frequency log.
func (s *SQLiteStorage) AppendPurchases(ctx context.Context, purchases []model.PurchaseRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.appendPurchasesTx(ctx, tx, purchases); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) appendPurchasesTx(ctx context.Context, q queryable, purchases []model.PurchaseRecord) error {
	insert := `INSERT INTO purchases (item_key, date, quantity, store) VALUES (?, ?, ?, ?)`

	for _, purchase := range purchases {
		if err := validateString(purchase.ItemName, "item name"); err != nil {
			return err
		}

		_, err := q.ExecContext(ctx, insert,
			purchase.ItemName,
			purchase.Date,
			purchase.Quantity,
			nullableString(purchase.Store),
		)
		if err != nil {
			return fmt.Errorf("failed to insert purchase for %s: %w", purchase.ItemName, err)
		}
	}

	return nil
}

// GetPurchases returns purchase events for an item key in date order. An
// empty key returns the full log.
func (s *SQLiteStorage) GetPurchases(ctx context.Context, itemKey string) ([]model.PurchaseRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getPurchasesTx(ctx, s.db, itemKey)
}

func (s *SQLiteStorage) getPurchasesTx(ctx context.Context, q queryable, itemKey string) ([]model.PurchaseRecord, error) {
	query := `SELECT item_key, date, quantity, store FROM purchases`
	args := []any{}
	if itemKey != "" {
		query += ` WHERE item_key = ?`
		args = append(args, itemKey)
	}
	query += ` ORDER BY date, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var purchases []model.PurchaseRecord
	for rows.Next() {
		var (
			purchase model.PurchaseRecord
			store    sql.NullString
		)
		if err := rows.Scan(&purchase.ItemName, &purchase.Date, &purchase.Quantity, &store); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchase.Store = store.String
		purchases = append(purchases, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}
