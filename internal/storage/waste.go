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

// AppendWaste appends one waste log entry. The canonical item key is derived
// from the raw name so records group across spelling variants.
func (s *SQLiteStorage) AppendWaste(ctx context.Context, record *model.WasteRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWaste(record); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.appendWasteTx(ctx, tx, record); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) appendWasteTx(ctx context.Context, q queryable, record *model.WasteRecord) error {
	id := record.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	logged := record.LoggedDate
	if logged.IsZero() {
		logged = time.Now()
	}
	quantity := record.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	insert := `
		INSERT INTO waste_log (id, item_name, item_key, quantity, unit, reason,
			estimated_cost, logged_date, logged_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := q.ExecContext(ctx, insert,
		id.String(),
		record.ItemName,
		match.Canonical(record.ItemName),
		quantity,
		nullableString(record.Unit),
		string(record.Reason),
		nullableFloat(record.EstimatedCost),
		logged,
		nullableString(record.LoggedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to insert waste record: %w", err)
	}

	return nil
}

// GetWaste returns waste records for an item key, oldest first. An empty key
// returns the full log.
func (s *SQLiteStorage) GetWaste(ctx context.Context, itemKey string) ([]model.WasteRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getWasteTx(ctx, s.db, itemKey)
}

func (s *SQLiteStorage) getWasteTx(ctx context.Context, q queryable, itemKey string) ([]model.WasteRecord, error) {
	query := `SELECT id, item_name, quantity, unit, reason, estimated_cost, logged_date, logged_by FROM waste_log`
	args := []any{}
	if itemKey != "" {
		query += ` WHERE item_key = ?`
		args = append(args, itemKey)
	}
	query += ` ORDER BY logged_date, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query waste records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.WasteRecord
	for rows.Next() {
		var (
			record   model.WasteRecord
			id       string
			unit     sql.NullString
			reason   string
			cost     sql.NullFloat64
			loggedBy sql.NullString
		)
		err := rows.Scan(&id, &record.ItemName, &record.Quantity, &unit, &reason,
			&cost, &record.LoggedDate, &loggedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waste record: %w", err)
		}

		parsed, parseErr := uuid.Parse(id)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: bad record id %q", common.ErrDatabaseCorrupted, id)
		}
		record.ID = parsed
		record.Unit = unit.String
		record.Reason = model.WasteReason(reason)
		record.EstimatedCost = cost.Float64
		record.LoggedBy = loggedBy.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waste records: %w", err)
	}

	return records, nil
}
