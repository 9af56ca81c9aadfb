// Package storage provides the data persistence layer for the grocer application.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// queryable abstracts *sql.DB and *sql.Tx so entity methods can run either
// standalone or inside a transaction.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{tx: tx, storage: s}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) LoadList(ctx context.Context) ([]model.ListItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.loadListTx(ctx, t.tx)
}

func (t *sqliteTransaction) SaveList(ctx context.Context, items []model.ListItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateListItems(items); err != nil {
		return err
	}
	return t.storage.saveListTx(ctx, t.tx, items)
}

func (t *sqliteTransaction) GetItem(ctx context.Context, id uuid.UUID) (*model.ListItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getItemTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) SaveReceipt(ctx context.Context, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}
	return t.storage.saveReceiptTx(ctx, t.tx, receipt)
}

func (t *sqliteTransaction) GetReceipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getReceiptTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListReceipts(ctx context.Context, start, end time.Time) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, end, start)
	}
	return t.storage.listReceiptsTx(ctx, t.tx, start, end)
}

func (t *sqliteTransaction) AppendPricePoints(ctx context.Context, points []model.PricePoint) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.appendPricePointsTx(ctx, t.tx, points)
}

func (t *sqliteTransaction) GetPricePoints(ctx context.Context, itemKey string) ([]model.PricePoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getPricePointsTx(ctx, t.tx, itemKey)
}

func (t *sqliteTransaction) AppendPurchases(ctx context.Context, purchases []model.PurchaseRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.appendPurchasesTx(ctx, t.tx, purchases)
}

func (t *sqliteTransaction) GetPurchases(ctx context.Context, itemKey string) ([]model.PurchaseRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getPurchasesTx(ctx, t.tx, itemKey)
}

func (t *sqliteTransaction) AppendOutOfStock(ctx context.Context, record *model.OutOfStockRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOutOfStock(record); err != nil {
		return err
	}
	return t.storage.appendOutOfStockTx(ctx, t.tx, record)
}

func (t *sqliteTransaction) GetOutOfStock(ctx context.Context, itemKey string) ([]model.OutOfStockRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getOutOfStockTx(ctx, t.tx, itemKey)
}

func (t *sqliteTransaction) AppendSavings(ctx context.Context, records []model.SavingsRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.appendSavingsTx(ctx, t.tx, records)
}

func (t *sqliteTransaction) GetSavings(ctx context.Context, start, end time.Time) ([]model.SavingsRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getSavingsTx(ctx, t.tx, start, end)
}

func (t *sqliteTransaction) LoadInventory(ctx context.Context) ([]model.InventoryItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.loadInventoryTx(ctx, t.tx)
}

func (t *sqliteTransaction) SaveInventory(ctx context.Context, items []model.InventoryItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInventoryItems(items); err != nil {
		return err
	}
	return t.storage.saveInventoryTx(ctx, t.tx, items)
}

func (t *sqliteTransaction) AppendWaste(ctx context.Context, record *model.WasteRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWaste(record); err != nil {
		return err
	}
	return t.storage.appendWasteTx(ctx, t.tx, record)
}

func (t *sqliteTransaction) GetWaste(ctx context.Context, itemKey string) ([]model.WasteRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getWasteTx(ctx, t.tx, itemKey)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}

// Compile-time interface checks.
var (
	_ service.Storage     = (*SQLiteStorage)(nil)
	_ service.Transaction = (*sqliteTransaction)(nil)
)
