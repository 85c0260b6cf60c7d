package scenarios

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// scenarioColumns is the column list for the scenarios table. Order must
// match the scan calls below.
const scenarioColumns = `id, name, description, analog_config, digital_config, created_at, updated_at`

// Repository handles scenario persistence. Configs are stored as JSON so
// optional fields survive the round trip unchanged.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new scenario repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "scenarios").Logger(),
	}
}

// Create inserts a scenario row.
func (r *Repository) Create(s Scenario) error {
	analogJSON, digitalJSON, err := marshalConfigs(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scenarios (id, name, description, analog_config, digital_config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		s.ID,
		s.Name,
		s.Description,
		analogJSON,
		digitalJSON,
		s.CreatedAt.Unix(),
		s.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("scenario name %q already exists", s.Name)
		}
		return fmt.Errorf("failed to create scenario: %w", err)
	}

	r.log.Info().
		Str("scenario_id", s.ID).
		Str("name", s.Name).
		Msg("Scenario created")

	return nil
}

// Update replaces the mutable fields of a scenario. Returns false when the
// ID did not exist.
func (r *Repository) Update(s Scenario) (bool, error) {
	analogJSON, digitalJSON, err := marshalConfigs(s)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE scenarios
		SET name = ?, description = ?, analog_config = ?, digital_config = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		s.Name,
		s.Description,
		analogJSON,
		digitalJSON,
		s.UpdatedAt.Unix(),
		s.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("scenario name %q already exists", s.Name)
		}
		return false, fmt.Errorf("failed to update scenario %s: %w", s.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// GetByID retrieves a scenario by ID. Returns nil without error when no
// such scenario exists.
func (r *Repository) GetByID(id string) (*Scenario, error) {
	query := "SELECT " + scenarioColumns + " FROM scenarios WHERE id = ?"

	s, err := scanScenario(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scenario %s: %w", id, err)
	}
	return s, nil
}

// GetByName retrieves a scenario by its unique name. Returns nil without
// error when no such scenario exists.
func (r *Repository) GetByName(name string) (*Scenario, error) {
	query := "SELECT " + scenarioColumns + " FROM scenarios WHERE name = ?"

	s, err := scanScenario(r.db.QueryRow(query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scenario %q: %w", name, err)
	}
	return s, nil
}

// List returns all scenarios ordered by name.
func (r *Repository) List() ([]Scenario, error) {
	query := "SELECT " + scenarioColumns + " FROM scenarios ORDER BY name"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario row: %w", err)
		}
		scenarios = append(scenarios, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenario rows: %w", err)
	}
	return scenarios, nil
}

// Delete removes a scenario. Returns false when the ID did not exist.
func (r *Repository) Delete(id string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete scenario %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of stored scenarios.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM scenarios").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scenarios: %w", err)
	}
	return count, nil
}

func marshalConfigs(s Scenario) (analogJSON, digitalJSON string, err error) {
	a, err := json.Marshal(s.Analog)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal analog config: %w", err)
	}
	d, err := json.Marshal(s.Digital)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal digital config: %w", err)
	}
	return string(a), string(d), nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanScenario(sc scanner) (*Scenario, error) {
	var (
		s           Scenario
		analogJSON  string
		digitalJSON string
		createdAt   int64
		updatedAt   int64
	)

	if err := sc.Scan(&s.ID, &s.Name, &s.Description, &analogJSON, &digitalJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(analogJSON), &s.Analog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analog config: %w", err)
	}
	if err := json.Unmarshal([]byte(digitalJSON), &s.Digital); err != nil {
		return nil, fmt.Errorf("failed to unmarshal digital config: %w", err)
	}

	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	s.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &s, nil
}

// isUniqueViolation detects the UNIQUE constraint error text emitted by
// both SQLite drivers in the stack.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
