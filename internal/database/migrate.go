package database

import (
	"context"
	"database/sql"
	"fmt"
)

// transferSchema holds the CREATE TABLE statement for each dialect.  The
// transfer date and time are kept as text so that values which do not parse
// as calendar dates are still stored and shown as entered.
var transferSchema = map[Dialect][]string{
	MySQL: {
		`CREATE TABLE IF NOT EXISTS transfers (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			flight_code VARCHAR(32) NOT NULL,
			transfer_date VARCHAR(10) NOT NULL,
			transfer_time VARCHAR(5) NOT NULL,
			destination_pickup VARCHAR(255) NOT NULL,
			destination_dropoff VARCHAR(255) NOT NULL,
			guest_name VARCHAR(255) NOT NULL,
			guest_count INT NOT NULL DEFAULT 1,
			notes TEXT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_transfers_date (transfer_date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS transfers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			flight_code TEXT NOT NULL,
			transfer_date TEXT NOT NULL,
			transfer_time TEXT NOT NULL,
			destination_pickup TEXT NOT NULL,
			destination_dropoff TEXT NOT NULL,
			guest_name TEXT NOT NULL,
			guest_count INTEGER NOT NULL DEFAULT 1,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_date ON transfers(transfer_date)`,
	},
}

// EnsureSchema creates the transfers table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts, ok := transferSchema[d]
	if !ok {
		return fmt.Errorf("unsupported dialect %q", d)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating transfers table: %w", err)
		}
	}
	return nil
}
