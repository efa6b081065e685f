// Package sqlite provides the unified SQLite store for all local
// persistence: the session credential and the per-session change marks.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/custodia-labs/stockctl/internal/core/ports/driven"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_tokens (
	issuer        TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	token_type    TEXT NOT NULL DEFAULT 'Bearer',
	expiry        TIMESTAMP,
	account       TEXT NOT NULL DEFAULT '',
	scope         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS session_changes (
	product_id          INTEGER PRIMARY KEY,
	last_qty            INTEGER,
	last_location_label TEXT NOT NULL DEFAULT '',
	updated_at          TIMESTAMP NOT NULL
);
`

// Store is the unified SQLite store. One Store owns the database handle;
// the per-concern stores returned by its accessors share it.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database. An empty path selects the
// default location under the user's home directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir := filepath.Join(home, ".stockctl", "data")
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		path = filepath.Join(dir, "stockctl.db")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The modernc driver serialises access per connection; a single
	// connection avoids SQLITE_BUSY under concurrent store use.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// TokenStore returns the session credential store.
func (s *Store) TokenStore() driven.TokenStore {
	return &tokenStore{db: s.db}
}

// ChangeStore returns the session change-mark store.
func (s *Store) ChangeStore() driven.ChangeStore {
	return &changeStore{db: s.db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
