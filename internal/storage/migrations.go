package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS items (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					quantity REAL NOT NULL DEFAULT 1,
					unit TEXT,
					category TEXT NOT NULL DEFAULT 'Other',
					store TEXT,
					priority TEXT NOT NULL DEFAULT 'medium',
					status TEXT NOT NULL DEFAULT 'to_buy',
					added_by TEXT,
					notes TEXT,
					estimated_price REAL,
					added_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_items_status ON items(status)`,

				`CREATE TABLE IF NOT EXISTS receipts (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					store_name TEXT NOT NULL,
					store_location TEXT,
					transaction_date DATETIME NOT NULL,
					transaction_time TEXT,
					purchased_by TEXT,
					payment_method TEXT,
					subtotal REAL NOT NULL,
					tax REAL NOT NULL DEFAULT 0,
					discount_total REAL NOT NULL DEFAULT 0,
					coupon_total REAL NOT NULL DEFAULT 0,
					total REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_receipts_date ON receipts(transaction_date)`,

				`CREATE TABLE IF NOT EXISTS receipt_line_items (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					receipt_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					item_name TEXT NOT NULL,
					quantity REAL NOT NULL DEFAULT 1,
					unit_price REAL NOT NULL,
					total_price REAL NOT NULL,
					regular_unit_price REAL NOT NULL DEFAULT 0,
					discount_amount REAL NOT NULL DEFAULT 0,
					coupon_amount REAL NOT NULL DEFAULT 0,
					sale BOOLEAN NOT NULL DEFAULT 0,
					matched_item_id TEXT,
					FOREIGN KEY (receipt_id) REFERENCES receipts(id)
				)`,
				`CREATE INDEX idx_line_items_receipt ON receipt_line_items(receipt_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Append-only history logs: prices, purchases, out-of-stock",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS price_points (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					item_key TEXT NOT NULL,
					store TEXT NOT NULL,
					date DATETIME NOT NULL,
					price REAL NOT NULL,
					unit TEXT,
					sale BOOLEAN NOT NULL DEFAULT 0,
					receipt_id TEXT
				)`,
				`CREATE INDEX idx_price_points_item ON price_points(item_key)`,
				`CREATE INDEX idx_price_points_item_store ON price_points(item_key, store)`,

				`CREATE TABLE IF NOT EXISTS purchases (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					item_key TEXT NOT NULL,
					date DATETIME NOT NULL,
					quantity REAL NOT NULL DEFAULT 1,
					store TEXT
				)`,
				`CREATE INDEX idx_purchases_item ON purchases(item_key, date)`,

				`CREATE TABLE IF NOT EXISTS out_of_stock (
					id TEXT PRIMARY KEY,
					item_name TEXT NOT NULL,
					item_key TEXT NOT NULL,
					store TEXT NOT NULL,
					date DATETIME NOT NULL,
					substitution TEXT,
					reported_by TEXT
				)`,
				`CREATE INDEX idx_out_of_stock_item ON out_of_stock(item_key)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Savings records",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS savings_records (
					id TEXT PRIMARY KEY,
					receipt_id TEXT,
					date DATETIME NOT NULL,
					item_name TEXT NOT NULL,
					store TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT 'Other',
					source TEXT NOT NULL,
					amount REAL NOT NULL CHECK (amount >= 0)
				)`,
				`CREATE INDEX idx_savings_date ON savings_records(date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "Household inventory and waste log",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS inventory (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT 'Other',
					quantity REAL NOT NULL DEFAULT 1,
					unit TEXT,
					location TEXT NOT NULL DEFAULT 'pantry',
					expiration_date DATETIME,
					low_stock_threshold REAL NOT NULL DEFAULT 1,
					purchased_date DATETIME NOT NULL,
					receipt_id TEXT,
					added_by TEXT
				)`,
				`CREATE INDEX idx_inventory_location ON inventory(location)`,

				`CREATE TABLE IF NOT EXISTS waste_log (
					id TEXT PRIMARY KEY,
					item_name TEXT NOT NULL,
					item_key TEXT NOT NULL,
					quantity REAL NOT NULL DEFAULT 1,
					unit TEXT,
					reason TEXT NOT NULL DEFAULT 'other',
					estimated_cost REAL,
					logged_date DATETIME NOT NULL,
					logged_by TEXT
				)`,
				`CREATE INDEX idx_waste_log_item ON waste_log(item_key)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if currentVersion > ExpectedSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than expected %d",
			currentVersion, ExpectedSchemaVersion)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		// PRAGMA doesn't support placeholders
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
