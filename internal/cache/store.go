// Package cache provides a persistent TTL key/value cache backed by the
// cache database. Values travel as msgpack blobs; expired rows are
// invisible to readers and reaped by the cleanup job.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Store provides cache operations over the kv_cache table
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a new cache store
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("store", "cache").Logger(),
	}
}

// Set stores a value with expiration = now + ttl, replacing any earlier
// entry under the same key.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) error {
	blob, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}

	expiresAt := time.Now().Add(ttl).Unix()

	query := `
		INSERT OR REPLACE INTO kv_cache (key, value, expires_at)
		VALUES (?, ?, ?)
	`

	if _, err := s.db.Exec(query, key, blob, expiresAt); err != nil {
		return fmt.Errorf("failed to store cache value for %s: %w", key, err)
	}

	return nil
}

// Get decodes a fresh value into dest. Returns false when the key is
// missing or expired.
func (s *Store) Get(key string, dest interface{}) (bool, error) {
	var blob []byte
	err := s.db.QueryRow(
		"SELECT value FROM kv_cache WHERE key = ? AND expires_at > ?",
		key, time.Now().Unix(),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache value for %s: %w", key, err)
	}

	if err := msgpack.Unmarshal(blob, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache value for %s: %w", key, err)
	}

	return true, nil
}

// Delete removes one key
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache value for %s: %w", key, err)
	}
	return nil
}

// PurgeExpired removes all expired rows and returns the number deleted
func (s *Store) PurgeExpired() (int64, error) {
	result, err := s.db.Exec("DELETE FROM kv_cache WHERE expires_at <= ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cache entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read purge result: %w", err)
	}
	return deleted, nil
}

// Count returns the total number of rows, expired included
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kv_cache").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}
