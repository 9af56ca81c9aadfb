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

// AppendSavings appends realized-savings records to the log.
func (s *SQLiteStorage) AppendSavings(ctx context.Context, records []model.SavingsRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.appendSavingsTx(ctx, tx, records); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) appendSavingsTx(ctx context.Context, q queryable, records []model.SavingsRecord) error {
	insert := `
		INSERT INTO savings_records (id, receipt_id, date, item_name, store, category, source, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, record := range records {
		if err := validateString(record.ItemName, "item name"); err != nil {
			return err
		}
		if record.Amount < 0 {
			return fmt.Errorf("%w: negative savings amount %.2f", ErrInvalidRecord, record.Amount)
		}

		id := record.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		var receiptID any
		if record.ReceiptID != uuid.Nil {
			receiptID = record.ReceiptID.String()
		}

		_, err := q.ExecContext(ctx, insert,
			id.String(),
			receiptID,
			record.Date,
			record.ItemName,
			record.Store,
			record.Category,
			string(record.Source),
			record.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert savings record for %s: %w", record.ItemName, err)
		}
	}

	return nil
}

// GetSavings returns savings records dated within [start, end], oldest first.
func (s *SQLiteStorage) GetSavings(ctx context.Context, start, end time.Time) ([]model.SavingsRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getSavingsTx(ctx, s.db, start, end)
}

func (s *SQLiteStorage) getSavingsTx(ctx context.Context, q queryable, start, end time.Time) ([]model.SavingsRecord, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, end, start)
	}

	query := `
		SELECT id, receipt_id, date, item_name, store, category, source, amount
		FROM savings_records
		WHERE date >= ? AND date <= ?
		ORDER BY date, id`

	rows, err := q.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.SavingsRecord
	for rows.Next() {
		var (
			record    model.SavingsRecord
			id        string
			receiptID sql.NullString
			source    string
		)
		err := rows.Scan(&id, &receiptID, &record.Date, &record.ItemName,
			&record.Store, &record.Category, &source, &record.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings record: %w", err)
		}

		parsed, parseErr := uuid.Parse(id)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: bad record id %q", common.ErrDatabaseCorrupted, id)
		}
		record.ID = parsed
		if receiptID.Valid {
			rid, ridErr := uuid.Parse(receiptID.String)
			if ridErr != nil {
				return nil, fmt.Errorf("%w: bad receipt id %q", common.ErrDatabaseCorrupted, receiptID.String)
			}
			record.ReceiptID = rid
		}
		record.Source = model.SavingsSource(source)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating savings records: %w", err)
	}

	return records, nil
}
