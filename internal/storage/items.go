package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/model"
)

// LoadList returns the full shopping list in stored order.
func (s *SQLiteStorage) LoadList(ctx context.Context) ([]model.ListItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.loadListTx(ctx, s.db)
}

func (s *SQLiteStorage) loadListTx(ctx context.Context, q queryable) ([]model.ListItem, error) {
	query := `
		SELECT id, name, quantity, unit, category, store, priority, status,
		       added_by, notes, estimated_price, added_at, updated_at
		FROM items
		ORDER BY position`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.ListItem
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	slog.Debug("loaded shopping list", "count", len(items))
	return items, nil
}

// SaveList replaces the stored shopping list wholesale, preserving the
// given order.
func (s *SQLiteStorage) SaveList(ctx context.Context, items []model.ListItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateListItems(items); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveListTx(ctx, tx, items); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveListTx(ctx context.Context, q queryable, items []model.ListItem) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	insert := `
		INSERT INTO items (
			id, position, name, quantity, unit, category, store, priority,
			status, added_by, notes, estimated_price, added_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, item := range items {
		_, err := q.ExecContext(ctx, insert,
			item.ID.String(),
			i,
			item.Name,
			item.Quantity,
			nullableString(item.Unit),
			item.Category,
			nullableString(item.Store),
			string(item.Priority),
			string(item.Status),
			nullableString(item.AddedBy),
			nullableString(item.Notes),
			nullableFloat(item.EstimatedPrice),
			item.AddedAt,
			item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.Name, err)
		}
	}

	return nil
}

// GetItem returns a single list item by id.
func (s *SQLiteStorage) GetItem(ctx context.Context, id uuid.UUID) (*model.ListItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getItemTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getItemTx(ctx context.Context, q queryable, id uuid.UUID) (*model.ListItem, error) {
	query := `
		SELECT id, name, quantity, unit, category, store, priority, status,
		       added_by, notes, estimated_price, added_at, updated_at
		FROM items
		WHERE id = ?`

	row := q.QueryRowContext(ctx, query, id.String())
	item, err := scanListItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanListItem(row scanner) (model.ListItem, error) {
	var (
		item           model.ListItem
		id             string
		unit           sql.NullString
		store          sql.NullString
		addedBy        sql.NullString
		notes          sql.NullString
		estimatedPrice sql.NullFloat64
		priority       string
		status         string
		addedAt        time.Time
		updatedAt      time.Time
	)

	err := row.Scan(&id, &item.Name, &item.Quantity, &unit, &item.Category,
		&store, &priority, &status, &addedBy, &notes, &estimatedPrice,
		&addedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, err
		}
		return item, fmt.Errorf("failed to scan item: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return item, fmt.Errorf("%w: bad item id %q", common.ErrDatabaseCorrupted, id)
	}

	item.ID = parsed
	item.Unit = unit.String
	item.Store = store.String
	item.AddedBy = addedBy.String
	item.Notes = notes.String
	item.EstimatedPrice = estimatedPrice.Float64
	item.Priority = model.Priority(priority)
	item.Status = model.ItemStatus(status)
	item.AddedAt = addedAt
	item.UpdatedAt = updatedAt
	return item, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
