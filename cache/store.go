// Package cache mirrors each authoritative role's state into a small SQLite
// key-value table so a reconnecting judge or host can recover a mid-round
// game. The cache is not a second source of truth: on recovery the entry is
// loaded back into the role's state and immediately rebroadcast.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound reports a missing cache entry.
var ErrNotFound = errors.New("cache entry not found")

// Role namespaces and the keys each role stores.
const (
	RoleJudge = "judge"
	RoleHost  = "host"

	KeyGame     = "game"
	KeyQuestion = "question"
)

const schema = `
CREATE TABLE IF NOT EXISTS role_cache (
	role       TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (role, key)
);`

// Store is a role-namespaced key-value mirror. One entry per (role, key),
// overwritten on every authoritative update.
type Store struct {
	db *sqlx.DB
}

// Open opens (and if needed creates) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache %q: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set overwrites the entry for (role, key) with the JSON encoding of v.
func (s *Store) Set(role, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO role_cache (role, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (role, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		role, key, string(value), time.Now().UTC(),
	)

	return err
}

// Get decodes the entry for (role, key) into v. Returns ErrNotFound when no
// entry exists.
func (s *Store) Get(role, key string, v any) error {
	var value string

	err := s.db.Get(&value, `SELECT value FROM role_cache WHERE role = ? AND key = ?`, role, key)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(value), v)
}

// Has reports whether an entry exists without decoding it.
func (s *Store) Has(role, key string) bool {
	var one int
	err := s.db.Get(&one, `SELECT 1 FROM role_cache WHERE role = ? AND key = ?`, role, key)
	return err == nil
}

// Delete clears the entry for (role, key). Deleting a missing entry is not
// an error.
func (s *Store) Delete(role, key string) error {
	_, err := s.db.Exec(`DELETE FROM role_cache WHERE role = ? AND key = ?`, role, key)
	return err
}
