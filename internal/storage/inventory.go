package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
)

// LoadInventory returns the full household inventory in stored order.
func (s *SQLiteStorage) LoadInventory(ctx context.Context) ([]model.InventoryItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.loadInventoryTx(ctx, s.db)
}

func (s *SQLiteStorage) loadInventoryTx(ctx context.Context, q queryable) ([]model.InventoryItem, error) {
	query := `
		SELECT id, name, category, quantity, unit, location, expiration_date,
		       low_stock_threshold, purchased_date, receipt_id, added_by
		FROM inventory
		ORDER BY position`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.InventoryItem
	for rows.Next() {
		var (
			item       model.InventoryItem
			id         string
			unit       sql.NullString
			location   string
			expiration sql.NullTime
			receiptID  sql.NullString
			addedBy    sql.NullString
		)
		err := rows.Scan(&id, &item.Name, &item.Category, &item.Quantity, &unit,
			&location, &expiration, &item.LowStockThreshold, &item.PurchasedDate,
			&receiptID, &addedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}

		parsed, parseErr := uuid.Parse(id)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: bad inventory item id %q", common.ErrDatabaseCorrupted, id)
		}
		item.ID = parsed
		item.Unit = unit.String
		item.Location = model.InventoryLocation(location)
		if expiration.Valid {
			exp := expiration.Time
			item.ExpirationDate = &exp
		}
		if receiptID.Valid {
			rid, parseErr := uuid.Parse(receiptID.String)
			if parseErr != nil {
				return nil, fmt.Errorf("%w: bad receipt id %q", common.ErrDatabaseCorrupted, receiptID.String)
			}
			item.ReceiptID = rid
		}
		item.AddedBy = addedBy.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return items, nil
}

// SaveInventory replaces the stored inventory wholesale, preserving order.
func (s *SQLiteStorage) SaveInventory(ctx context.Context, items []model.InventoryItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInventoryItems(items); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveInventoryTx(ctx, tx, items); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveInventoryTx(ctx context.Context, q queryable, items []model.InventoryItem) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM inventory`); err != nil {
		return fmt.Errorf("failed to clear inventory: %w", err)
	}

	insert := `
		INSERT INTO inventory (
			id, position, name, category, quantity, unit, location,
			expiration_date, low_stock_threshold, purchased_date, receipt_id, added_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, item := range items {
		var expiration any
		if item.ExpirationDate != nil {
			expiration = *item.ExpirationDate
		}
		var receiptID any
		if item.ReceiptID != uuid.Nil {
			receiptID = item.ReceiptID.String()
		}
		purchased := item.PurchasedDate
		if purchased.IsZero() {
			purchased = time.Now()
		}

		_, err := q.ExecContext(ctx, insert,
			item.ID.String(),
			i,
			item.Name,
			item.Category,
			item.Quantity,
			nullableString(item.Unit),
			string(item.Location),
			expiration,
			item.LowStockThreshold,
			purchased,
			receiptID,
			nullableString(item.AddedBy),
		)
		if err != nil {
			return fmt.Errorf("failed to insert inventory item %s: %w", item.Name, err)
		}
	}

	return nil
}
