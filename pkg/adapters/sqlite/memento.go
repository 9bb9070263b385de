// Package sqlite stores the codefreeze memento in a SQLite database, for hosts
// that already keep their workspace state in one.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/aretw0/codefreeze/pkg/core"
)

// Schema for the memento table.
const Schema = `
CREATE TABLE IF NOT EXISTS codefreeze_memento (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);
`

// Memento implements core.Memento over a SQLite table.
type Memento struct {
	db    *sql.DB
	owned bool
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(path string) (*Memento, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: pragmas are per connection, and a ":memory:" database
	// would otherwise be a different empty database on every pooled one.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=FULL", // a toggle must survive power loss
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	m, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	m.owned = true
	return m, nil
}

// New wraps an existing connection. The caller keeps ownership of db.
func New(db *sql.DB) (*Memento, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Memento{db: db}, nil
}

// Get implements core.Memento.
func (m *Memento) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := m.db.QueryRowContext(ctx,
		`SELECT value FROM codefreeze_memento WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements core.Memento.
func (m *Memento) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO codefreeze_memento (key, value, updated_at) VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Close closes the database if it was opened by Open.
func (m *Memento) Close() error {
	if !m.owned {
		return nil
	}
	return m.db.Close()
}

var _ core.Memento = (*Memento)(nil)
