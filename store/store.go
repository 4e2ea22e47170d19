// Package store persists accounts, the chart of accounts, business rules,
// imported transaction lines and bookings in a single SQLite database, and
// implements the collaborator interfaces the booking engine consumes.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistence layer.
type Store struct {
	db *sql.DB
}

// Open opens (and creates, if needed) the database at path and applies the
// schema migrations. Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}
	// modernc sqlite serializes writes; a single connection avoids lock
	// contention for a personal dataset.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	for _, stmt := range migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			number    TEXT NOT NULL DEFAULT '',
			kind      TEXT NOT NULL DEFAULT 'bank',
			ledger_id TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS ledger_accounts (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			parent_id TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS rules (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			priority        INTEGER NOT NULL DEFAULT 0,
			active          INTEGER NOT NULL DEFAULT 1,
			requires_review INTEGER NOT NULL DEFAULT 0,
			system          INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS rule_criteria (
			rule_id  TEXT NOT NULL REFERENCES rules(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			field    TEXT NOT NULL,
			op       TEXT NOT NULL,
			value    TEXT NOT NULL,
			PRIMARY KEY (rule_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS rule_items (
			rule_id     TEXT NOT NULL REFERENCES rules(id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			ledger_id   TEXT NOT NULL,
			amount_type TEXT NOT NULL,
			PRIMARY KEY (rule_id, position)
		)`,

		`CREATE TABLE IF NOT EXISTS transaction_lines (
			id             TEXT PRIMARY KEY,
			date           TEXT NOT NULL,
			own_account    TEXT NOT NULL,
			contra_account TEXT NOT NULL DEFAULT '',
			contra_name    TEXT NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT '',
			amount         TEXT NOT NULL,
			currency       TEXT NOT NULL DEFAULT ''
		)`,
		// Re-importing the same bank export must not duplicate lines.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_lines_dedup
			ON transaction_lines(own_account, date, amount, contra_account, description)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id              TEXT PRIMARY KEY,
			date            TEXT NOT NULL,
			reference       TEXT NOT NULL DEFAULT '',
			line_id         TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL,
			requires_review INTEGER NOT NULL DEFAULT 0,
			reviewed_at     TEXT
		)`,
		// At most one booking per source transaction line.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_line
			ON bookings(line_id) WHERE line_id != ''`,

		`CREATE TABLE IF NOT EXISTS booking_lines (
			id              TEXT PRIMARY KEY,
			booking_id      TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
			number          INTEGER NOT NULL,
			ledger_id       TEXT NOT NULL,
			debit           TEXT NOT NULL,
			credit          TEXT NOT NULL,
			currency        TEXT NOT NULL DEFAULT '',
			description     TEXT NOT NULL DEFAULT '',
			rule_id         TEXT NOT NULL DEFAULT '',
			requires_review INTEGER NOT NULL DEFAULT 0,
			reviewed_at     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_lines_booking
			ON booking_lines(booking_id, number)`,
	}
}
