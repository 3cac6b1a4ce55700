// Package storage provides the whole-collection key-value store backing
// the bank's records. Each logical collection ("accounts", "investments")
// is one row holding a JSON array; callers read-modify-write the entire
// collection. Reads degrade to an empty collection on missing or corrupt
// data, writes propagate their errors - data loss on write is never
// silent.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Collection names persisted by the application.
const (
	CollectionAccounts    = "accounts"
	CollectionInvestments = "investments"
)

// Store provides collection-level persistence operations.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a collection store on the given database.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("component", "storage").Logger(),
	}
}

// GetCollection decodes the named collection into out, which must be a
// pointer to a slice. A missing row or undecodable payload yields the
// untouched (empty) slice rather than an error.
func (s *Store) GetCollection(name string, out interface{}) error {
	var data string
	err := s.db.QueryRow("SELECT data FROM collections WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		// Treat read failures the same as absence: degrade to empty
		s.log.Warn().Err(err).Str("collection", name).Msg("Failed to read collection, returning empty")
		return nil
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		s.log.Warn().Err(err).Str("collection", name).Msg("Corrupt collection payload, returning empty")
		return nil
	}

	return nil
}

// SetCollection serializes records and upserts the named collection.
// Write failures are returned to the caller.
func (s *Store) SetCollection(name string, records interface{}) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", name, err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO collections (name, data, updated_at) VALUES (?, ?, ?)",
		name, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store collection %s: %w", name, err)
	}

	return nil
}

// DeleteCollection removes the named collection entirely.
func (s *Store) DeleteCollection(name string) error {
	if _, err := s.db.Exec("DELETE FROM collections WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", name, err)
	}
	return nil
}
