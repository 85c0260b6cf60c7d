package snapshots

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/events"
	"github.com/aristath/lattice/internal/modules/scenarios"
)

// Service captures and queries scenario snapshots.
type Service struct {
	store     *Store
	scenarios *scenarios.Service
	bus       *events.Bus
	log       zerolog.Logger
}

// NewService creates a new snapshot service
func NewService(
	store *Store,
	scenarioService *scenarios.Service,
	bus *events.Bus,
	log zerolog.Logger,
) *Service {
	s := &Service{
		store:     store,
		scenarios: scenarioService,
		bus:       bus,
		log:       log.With().Str("service", "snapshots").Logger(),
	}

	// A deleted scenario's history is unreachable through the API, so
	// drop it as soon as the catalog says goodbye.
	bus.Subscribe(events.ScenarioDeleted, s.onScenarioDeleted)

	// Every completed run leaves a history row, so trends do not depend
	// on the capture cron alone.
	bus.Subscribe(events.ScenarioCompleted, s.onScenarioCompleted)

	return s
}

func (s *Service) onScenarioDeleted(event *events.Event) {
	data, ok := event.Data.(*events.ScenarioChangedData)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteByScenario(data.ScenarioID)
	if err != nil {
		s.log.Error().Err(err).
			Str("scenario_id", data.ScenarioID).
			Msg("Failed to delete snapshots for removed scenario")
		return
	}

	if deleted > 0 {
		s.log.Info().
			Str("scenario_id", data.ScenarioID).
			Int64("deleted", deleted).
			Msg("Deleted snapshots for removed scenario")
	}
}

func (s *Service) onScenarioCompleted(event *events.Event) {
	data, ok := event.Data.(*events.ScenarioCompletedData)
	if !ok {
		return
	}

	scenario, err := s.scenarios.Get(data.ScenarioID)
	if err != nil || scenario == nil {
		s.log.Error().Err(err).
			Str("scenario_id", data.ScenarioID).
			Msg("Failed to load completed scenario for snapshot")
		return
	}

	if err := s.captureOne(*scenario, time.Now().UTC()); err != nil {
		s.log.Error().Err(err).
			Str("scenario_id", scenario.ID).
			Str("name", scenario.Name).
			Msg("Failed to capture snapshot for completed run")
		return
	}

	s.log.Debug().
		Str("scenario_id", scenario.ID).
		Msg("Captured snapshot for completed run")
}

// CaptureAll estimates every scenario in the catalog and stores one
// snapshot per scenario. A scenario whose stored config has become
// unrunnable is logged and skipped; one bad scenario must not starve the
// rest of their history.
func (s *Service) CaptureAll() (captured, failed int, err error) {
	list, err := s.scenarios.List()
	if err != nil {
		return 0, 0, err
	}

	now := time.Now().UTC()
	for _, scenario := range list {
		if err := s.captureOne(scenario, now); err != nil {
			s.log.Error().Err(err).
				Str("scenario_id", scenario.ID).
				Str("name", scenario.Name).
				Msg("Failed to capture snapshot")
			failed++
			continue
		}
		captured++
	}

	if captured > 0 || failed > 0 {
		s.bus.Emit(events.SnapshotCaptured, "snapshots", &events.SnapshotCapturedData{
			Captured: captured,
			Failed:   failed,
		})
	}

	s.log.Info().
		Int("captured", captured).
		Int("failed", failed).
		Msg("Snapshot capture completed")

	return captured, failed, nil
}

func (s *Service) captureOne(scenario scenarios.Scenario, at time.Time) error {
	result, err := s.scenarios.Estimate(scenario)
	if err != nil {
		return err
	}

	return s.store.Save(Snapshot{
		ScenarioID:          scenario.ID,
		CapturedAt:          at,
		SystemT1:            result.AnalogEstimate.SystemT1,
		FeasibleRuntime:     result.AnalogEstimate.FeasibleRuntime,
		AnalogFidelity:      result.AnalogEstimate.Fidelity,
		CodeDistance:        result.DigitalEstimate.CodeDistance,
		TotalPhysicalQubits: result.DigitalEstimate.TotalPhysicalQubits,
		WallClockTime:       result.DigitalEstimate.WallClockTime,
		SuccessProbability:  result.DigitalEstimate.SuccessProbability,
		QubitCountRatio:     result.Comparison.QubitCountRatio,
		RuntimeRatio:        result.Comparison.RuntimeRatio,
		SpaceTimeRatio:      result.Comparison.SpaceTimeRatio,
		AnalogFaster:        result.Comparison.AnalogFaster,
	})
}

// ListByScenario returns decoded snapshots for one scenario, newest
// first.
func (s *Service) ListByScenario(scenarioID string, limit int) ([]Snapshot, error) {
	return s.store.ListByScenario(scenarioID, limit)
}

// Prune deletes snapshots older than the retention window. A
// non-positive retention keeps everything.
func (s *Service) Prune(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.store.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.log.Info().
			Int64("deleted", deleted).
			Int("retention_days", retentionDays).
			Msg("Pruned old snapshots")
	}

	return deleted, nil
}
