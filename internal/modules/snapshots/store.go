package snapshots

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Store persists snapshots in the cache database. The metrics travel as
// one msgpack blob per row; only the key columns (scenario, timestamp)
// exist in SQL, which keeps new metrics from ever needing a migration.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a new snapshot store
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("store", "snapshots").Logger(),
	}
}

// Save stores one snapshot. Re-capturing the same scenario in the same
// second overwrites the earlier row.
func (s *Store) Save(snap Snapshot) error {
	blob, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO snapshots (scenario_id, captured_at, data)
		VALUES (?, ?, ?)
	`

	_, err = s.db.Exec(query, snap.ScenarioID, snap.CapturedAt.Unix(), blob)
	if err != nil {
		return fmt.Errorf("failed to store snapshot for %s: %w", snap.ScenarioID, err)
	}

	return nil
}

// ListByScenario returns snapshots for one scenario, newest first. A
// non-positive limit returns everything.
func (s *Store) ListByScenario(scenarioID string, limit int) ([]Snapshot, error) {
	query := "SELECT data FROM snapshots WHERE scenario_id = ? ORDER BY captured_at DESC"
	args := []interface{}{scenarioID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for %s: %w", scenarioID, err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		var snap Snapshot
		if err := msgpack.Unmarshal(blob, &snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot rows: %w", err)
	}

	return snaps, nil
}

// Latest returns the most recent snapshot for a scenario, or nil when
// none has been captured yet.
func (s *Store) Latest(scenarioID string) (*Snapshot, error) {
	snaps, err := s.ListByScenario(scenarioID, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

// DeleteOlderThan removes snapshots captured before the cutoff. Returns
// the number of rows deleted.
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec("DELETE FROM snapshots WHERE captured_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read prune result: %w", err)
	}
	return deleted, nil
}

// DeleteByScenario removes all snapshots of one scenario. Used when the
// scenario itself is deleted.
func (s *Store) DeleteByScenario(scenarioID string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM snapshots WHERE scenario_id = ?", scenarioID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete snapshots for %s: %w", scenarioID, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}
	return deleted, nil
}

// Count returns the total number of stored snapshots.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}
