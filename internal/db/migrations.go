package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS offers (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id        INTEGER REFERENCES offers(id),
		lease_listing    INTEGER NOT NULL DEFAULT 0,
		sale_listing     INTEGER NOT NULL DEFAULT 0,
		role             TEXT    NOT NULL,
		status           TEXT    NOT NULL DEFAULT 'pending',
		price            INTEGER NOT NULL DEFAULT 0 CHECK (price >= 0),
		min_lock_in      INTEGER NOT NULL DEFAULT 0,
		lease_period     INTEGER NOT NULL DEFAULT 0,
		move_in_date     TEXT    NOT NULL DEFAULT '',
		can_counter      INTEGER NOT NULL DEFAULT 0,
		can_create_lease INTEGER NOT NULL DEFAULT 0,
		actions          TEXT    NOT NULL DEFAULT '[]',
		preferences      TEXT    NOT NULL DEFAULT '[]',
		reason           TEXT    NOT NULL DEFAULT '',
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id            INTEGER  PRIMARY KEY AUTOINCREMENT,
		asset_id      INTEGER  NOT NULL,
		address       TEXT     NOT NULL,
		lease_listing INTEGER  NOT NULL DEFAULT 0,
		sale_listing  INTEGER  NOT NULL DEFAULT 0,
		status        TEXT     NOT NULL DEFAULT 'pending',
		start_date    DATETIME NOT NULL,
		end_date      DATETIME NOT NULL,
		role          TEXT     NOT NULL DEFAULT '',
		visitor       TEXT     NOT NULL DEFAULT '',
		is_valid      INTEGER  NOT NULL DEFAULT 1,
		comment       TEXT     NOT NULL DEFAULT '',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS auth_tokens (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		token      TEXT     NOT NULL UNIQUE,
		email      TEXT     NOT NULL,
		expires_at DATETIME NOT NULL,
		used       INTEGER  DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id           INTEGER  PRIMARY KEY AUTOINCREMENT,
		name         TEXT     NOT NULL,
		email        TEXT     NOT NULL DEFAULT '',
		key_prefix   TEXT     NOT NULL,
		key_hash     TEXT     NOT NULL UNIQUE,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_used_at DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_parent ON offers(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_asset ON visits(asset_id)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_status ON visits(status)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
