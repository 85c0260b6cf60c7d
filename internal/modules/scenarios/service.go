package scenarios

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/events"
	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/comparison"
	"github.com/aristath/lattice/internal/modules/digital"
	"github.com/aristath/lattice/internal/modules/reports"
)

// Service manages the scenario catalog and runs stored scenarios through
// the full estimation pipeline.
type Service struct {
	repo    *Repository
	reports *reports.Service
	engine  *comparison.Engine
	bus     *events.Bus
	log     zerolog.Logger
}

// NewService creates a new scenario service
func NewService(
	repo *Repository,
	reportService *reports.Service,
	engine *comparison.Engine,
	bus *events.Bus,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		reports: reportService,
		engine:  engine,
		bus:     bus,
		log:     log.With().Str("service", "scenarios").Logger(),
	}
}

// SaveRequest carries the user-editable scenario fields.
type SaveRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Analog      analog.Config  `json:"analog"`
	Digital     digital.Config `json:"digital"`
}

// validate rejects requests whose configs cannot produce estimators. A
// scenario that cannot be estimated has no business being in the catalog,
// so the underlying ConfigurationError surfaces at save time.
func (req SaveRequest) validate() error {
	if req.Name == "" {
		return domain.NewConfigurationError("name", "scenario name must not be empty")
	}
	if _, err := analog.New(req.Analog); err != nil {
		return err
	}
	if _, err := digital.New(req.Digital); err != nil {
		return err
	}
	return nil
}

// Create validates and stores a new scenario.
func (s *Service) Create(req SaveRequest) (*Scenario, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	scenario := Scenario{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Analog:      req.Analog,
		Digital:     req.Digital,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(scenario); err != nil {
		return nil, err
	}

	s.bus.Emit(events.ScenarioCreated, "scenarios", &events.ScenarioChangedData{
		ScenarioID: scenario.ID,
		Name:       scenario.Name,
		Action:     "created",
	})

	return &scenario, nil
}

// Update validates and replaces a stored scenario. Returns nil when the ID
// does not exist.
func (s *Service) Update(id string, req SaveRequest) (*Scenario, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	scenario := Scenario{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Analog:      req.Analog,
		Digital:     req.Digital,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	updated, err := s.repo.Update(scenario)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, nil
	}

	s.bus.Emit(events.ScenarioUpdated, "scenarios", &events.ScenarioChangedData{
		ScenarioID: scenario.ID,
		Name:       scenario.Name,
		Action:     "updated",
	})

	return &scenario, nil
}

// Get retrieves a scenario. Returns nil when it does not exist.
func (s *Service) Get(id string) (*Scenario, error) {
	return s.repo.GetByID(id)
}

// List returns all scenarios ordered by name.
func (s *Service) List() ([]Scenario, error) {
	return s.repo.List()
}

// Delete removes a scenario. Returns false when it did not exist.
func (s *Service) Delete(id string) (bool, error) {
	scenario, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if scenario == nil {
		return false, nil
	}

	deleted, err := s.repo.Delete(id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.bus.Emit(events.ScenarioDeleted, "scenarios", &events.ScenarioChangedData{
		ScenarioID: scenario.ID,
		Name:       scenario.Name,
		Action:     "deleted",
	})

	return true, nil
}

// Run estimates both models of a stored scenario, compares them, and
// persists the assembled report. Returns nil when the scenario does not
// exist.
func (s *Service) Run(id string) (*RunResult, error) {
	scenario, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if scenario == nil {
		return nil, nil
	}

	result, err := s.Estimate(*scenario)
	if err != nil {
		return nil, err
	}

	stored, err := s.reports.GenerateFrom(result.AnalogEstimate, result.DigitalEstimate, result.Comparison, reports.GenerateRequest{
		Title:      fmt.Sprintf("Scenario: %s", scenario.Name),
		ScenarioID: &scenario.ID,
	})
	if err != nil {
		return nil, err
	}

	run := &RunResult{
		ScenarioID:          scenario.ID,
		ReportID:            stored.ID,
		AnalogFaster:        result.Comparison.AnalogFaster,
		RuntimeRatio:        result.Comparison.RuntimeRatio,
		QubitCountRatio:     result.Comparison.QubitCountRatio,
		SpaceTimeRatio:      result.Comparison.SpaceTimeRatio,
		SystemT1:            result.AnalogEstimate.SystemT1,
		FeasibleRuntime:     result.AnalogEstimate.FeasibleRuntime,
		CodeDistance:        result.DigitalEstimate.CodeDistance,
		TotalPhysicalQubits: result.DigitalEstimate.TotalPhysicalQubits,
		WallClockTime:       result.DigitalEstimate.WallClockTime,
	}

	s.bus.Emit(events.ScenarioCompleted, "scenarios", &events.ScenarioCompletedData{
		ScenarioID:   run.ScenarioID,
		ReportID:     run.ReportID,
		AnalogFaster: run.AnalogFaster,
		RuntimeRatio: run.RuntimeRatio,
	})

	s.log.Info().
		Str("scenario_id", run.ScenarioID).
		Str("report_id", run.ReportID).
		Bool("analog_faster", run.AnalogFaster).
		Msg("Scenario run completed")

	return run, nil
}

// EstimateResult bundles the raw outputs of one scenario estimation.
type EstimateResult struct {
	AnalogEstimate  analog.Estimate
	DigitalEstimate digital.Estimate
	Comparison      comparison.Result
}

// Estimate runs both models and the comparison without persisting
// anything. The snapshot job uses this to capture metrics cheaply.
func (s *Service) Estimate(scenario Scenario) (*EstimateResult, error) {
	sim, err := analog.New(scenario.Analog)
	if err != nil {
		return nil, fmt.Errorf("scenario %s analog model: %w", scenario.ID, err)
	}
	est, err := digital.New(scenario.Digital)
	if err != nil {
		return nil, fmt.Errorf("scenario %s digital model: %w", scenario.ID, err)
	}

	analogEst := sim.Estimate()
	digitalEst := est.Estimate()

	cmp, err := s.engine.Compare(analogEst, digitalEst)
	if err != nil {
		return nil, fmt.Errorf("scenario %s comparison: %w", scenario.ID, err)
	}

	return &EstimateResult{
		AnalogEstimate:  analogEst,
		DigitalEstimate: digitalEst,
		Comparison:      cmp,
	}, nil
}
