package reports

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// reportsColumns is the column list for the reports table. Order must
// match the scan calls below.
const reportsColumns = `id, scenario_id, title, generated_at, document`

// Repository handles report persistence. Documents are stored as JSON
// text; the surrounding columns exist only for listing and lookup.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new report repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "reports").Logger(),
	}
}

// Create inserts a report row.
func (r *Repository) Create(report StoredReport) error {
	document, err := json.Marshal(report.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal report document: %w", err)
	}

	query := `
		INSERT INTO reports (id, scenario_id, title, generated_at, document)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		report.ID,
		nullString(report.ScenarioID),
		report.Title,
		report.GeneratedAt.Unix(),
		string(document),
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	r.log.Info().
		Str("report_id", report.ID).
		Str("title", report.Title).
		Msg("Report stored")

	return nil
}

// GetByID retrieves a report by ID. Returns nil without error when no
// such report exists.
func (r *Repository) GetByID(id string) (*StoredReport, error) {
	query := "SELECT " + reportsColumns + " FROM reports WHERE id = ?"

	report, err := scanReport(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return report, nil
}

// List returns the most recent reports, newest first. A non-positive
// limit returns everything.
func (r *Repository) List(limit int) ([]StoredReport, error) {
	query := "SELECT " + reportsColumns + " FROM reports ORDER BY generated_at DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// ListByScenario returns all reports generated from one scenario, newest
// first.
func (r *Repository) ListByScenario(scenarioID string) ([]StoredReport, error) {
	query := "SELECT " + reportsColumns + " FROM reports WHERE scenario_id = ? ORDER BY generated_at DESC"

	rows, err := r.db.Query(query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for scenario %s: %w", scenarioID, err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// Delete removes a report. Returns false when the ID did not exist.
func (r *Repository) Delete(id string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete report %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of stored reports.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(s scanner) (*StoredReport, error) {
	var (
		report      StoredReport
		scenarioID  sql.NullString
		generatedAt int64
		document    string
	)

	if err := s.Scan(&report.ID, &scenarioID, &report.Title, &generatedAt, &document); err != nil {
		return nil, err
	}

	if scenarioID.Valid {
		report.ScenarioID = &scenarioID.String
	}
	report.GeneratedAt = time.Unix(generatedAt, 0).UTC()

	if err := json.Unmarshal([]byte(document), &report.Document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report document: %w", err)
	}

	return &report, nil
}

func collectReports(rows *sql.Rows) ([]StoredReport, error) {
	var reports []StoredReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}
	return reports, nil
}

func nullString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
