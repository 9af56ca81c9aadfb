package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/match"
	"github.com/hearthward/grocer/internal/model"
)

// AppendOutOfStock appends one out-of-stock report. The canonical item key
// is derived from the raw name so reports group across spelling variants.
func (s *SQLiteStorage) AppendOutOfStock(ctx context.Context, record *model.OutOfStockRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOutOfStock(record); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.appendOutOfStockTx(ctx, tx, record); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) appendOutOfStockTx(ctx context.Context, q queryable, record *model.OutOfStockRecord) error {
	id := record.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	date := record.Date
	if date.IsZero() {
		date = time.Now()
	}

	insert := `
		INSERT INTO out_of_stock (id, item_name, item_key, store, date, substitution, reported_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := q.ExecContext(ctx, insert,
		id.String(),
		record.ItemName,
		match.Canonical(record.ItemName),
		record.Store,
		date,
		nullableString(record.Substitution),
		nullableString(record.ReportedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to insert out-of-stock record: %w", err)
	}

	return nil
}

// GetOutOfStock returns out-of-stock reports for an item key, oldest first.
// An empty key returns the full log.
func (s *SQLiteStorage) GetOutOfStock(ctx context.Context, itemKey string) ([]model.OutOfStockRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getOutOfStockTx(ctx, s.db, itemKey)
}

func (s *SQLiteStorage) getOutOfStockTx(ctx context.Context, q queryable, itemKey string) ([]model.OutOfStockRecord, error) {
	query := `SELECT id, item_name, store, date, substitution, reported_by FROM out_of_stock`
	args := []any{}
	if itemKey != "" {
		query += ` WHERE item_key = ?`
		args = append(args, itemKey)
	}
	query += ` ORDER BY date, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query out-of-stock records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.OutOfStockRecord
	for rows.Next() {
		var (
			record       model.OutOfStockRecord
			id           string
			substitution sql.NullString
			reportedBy   sql.NullString
		)
		err := rows.Scan(&id, &record.ItemName, &record.Store, &record.Date,
			&substitution, &reportedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan out-of-stock record: %w", err)
		}

		parsed, parseErr := uuid.Parse(id)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: bad record id %q", common.ErrDatabaseCorrupted, id)
		}
		record.ID = parsed
		record.Substitution = substitution.String
		record.ReportedBy = reportedBy.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating out-of-stock records: %w", err)
	}

	return records, nil
}
