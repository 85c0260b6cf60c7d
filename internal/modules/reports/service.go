package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/events"
	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/comparison"
	"github.com/aristath/lattice/internal/modules/digital"
)

// Service orchestrates report generation: runs both models, compares
// them, assembles the document, persists it, and announces it on the
// event bus.
type Service struct {
	repo      *Repository
	assembler *Assembler
	engine    *comparison.Engine
	bus       *events.Bus
	exportDir string
	log       zerolog.Logger
}

// NewService creates a new report service. Exported files land in
// exportDir (created on demand).
func NewService(
	repo *Repository,
	assembler *Assembler,
	engine *comparison.Engine,
	bus *events.Bus,
	exportDir string,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		assembler: assembler,
		engine:    engine,
		bus:       bus,
		exportDir: exportDir,
		log:       log.With().Str("service", "reports").Logger(),
	}
}

// GenerateRequest carries everything needed to produce a report.
type GenerateRequest struct {
	Analog  analog.Config  `json:"analog"`
	Digital digital.Config `json:"digital"`

	// Title defaults to DefaultTitle when empty.
	Title string `json:"title,omitempty"`

	// OmitMetadata drops the generated_at/version block, giving
	// byte-identical documents for identical inputs.
	OmitMetadata bool `json:"omit_metadata,omitempty"`

	// ScenarioID links the report to a stored scenario, when it was
	// generated from one.
	ScenarioID *string `json:"scenario_id,omitempty"`
}

// Generate runs both models, compares them and stores the assembled
// document. Invalid model configs and undefined comparisons surface as
// ConfigurationError/DomainError from the model packages.
func (s *Service) Generate(req GenerateRequest) (*StoredReport, error) {
	sim, err := analog.New(req.Analog)
	if err != nil {
		return nil, err
	}
	est, err := digital.New(req.Digital)
	if err != nil {
		return nil, err
	}

	analogEst := sim.Estimate()
	digitalEst := est.Estimate()

	cmp, err := s.engine.Compare(analogEst, digitalEst)
	if err != nil {
		return nil, err
	}

	return s.GenerateFrom(analogEst, digitalEst, cmp, req)
}

// GenerateFrom assembles and stores a report from already-computed
// estimates. Callers that have run the models themselves (scenario runs)
// use this to avoid recomputing.
func (s *Service) GenerateFrom(
	analogEst analog.Estimate,
	digitalEst digital.Estimate,
	cmp comparison.Result,
	req GenerateRequest,
) (*StoredReport, error) {
	document := s.assembler.Assemble(analogEst, digitalEst, cmp, req.Title, !req.OmitMetadata)

	stored := StoredReport{
		ID:          uuid.New().String(),
		ScenarioID:  req.ScenarioID,
		Title:       document.Title,
		GeneratedAt: time.Now().UTC(),
		Document:    document,
	}

	if err := s.repo.Create(stored); err != nil {
		return nil, err
	}

	scenarioID := ""
	if req.ScenarioID != nil {
		scenarioID = *req.ScenarioID
	}
	s.bus.Emit(events.ReportGenerated, "reports", &events.ReportGeneratedData{
		ReportID:   stored.ID,
		Title:      stored.Title,
		ScenarioID: scenarioID,
	})

	s.log.Info().
		Str("report_id", stored.ID).
		Bool("analog_faster", document.Comparison.AnalogFaster).
		Float64("runtime_ratio", document.Comparison.RuntimeRatioDigitalToAnalog).
		Msg("Report generated")

	return &stored, nil
}

// Get retrieves a stored report. Returns nil when it does not exist.
func (s *Service) Get(id string) (*StoredReport, error) {
	return s.repo.GetByID(id)
}

// List returns recent reports, newest first.
func (s *Service) List(limit int) ([]StoredReport, error) {
	return s.repo.List(limit)
}

// ListByScenario returns reports generated from one scenario.
func (s *Service) ListByScenario(scenarioID string) ([]StoredReport, error) {
	return s.repo.ListByScenario(scenarioID)
}

// Delete removes a report. Returns false when it did not exist.
func (s *Service) Delete(id string) (bool, error) {
	return s.repo.Delete(id)
}

// RenderText renders a stored report as the fixed-width table. Returns
// "" when the report does not exist.
func (s *Service) RenderText(id string) (string, error) {
	stored, err := s.repo.GetByID(id)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", nil
	}
	return FormatTable(stored.Document), nil
}

// ExportFiles writes a stored report to disk as pretty-printed JSON and
// as the text table, returning both paths.
func (s *Service) ExportFiles(id string) (jsonPath, textPath string, err error) {
	stored, err := s.repo.GetByID(id)
	if err != nil {
		return "", "", err
	}
	if stored == nil {
		return "", "", fmt.Errorf("report %s not found", id)
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create export directory: %w", err)
	}

	document, err := json.MarshalIndent(stored.Document, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal report document: %w", err)
	}

	jsonPath = filepath.Join(s.exportDir, fmt.Sprintf("report-%s.json", stored.ID))
	if err := os.WriteFile(jsonPath, document, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write JSON export: %w", err)
	}

	textPath = filepath.Join(s.exportDir, fmt.Sprintf("report-%s.txt", stored.ID))
	if err := os.WriteFile(textPath, []byte(FormatTable(stored.Document)), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write text export: %w", err)
	}

	s.log.Info().
		Str("report_id", stored.ID).
		Str("json", jsonPath).
		Str("text", textPath).
		Msg("Report exported")

	return jsonPath, textPath, nil
}
