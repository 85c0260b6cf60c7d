package sweep

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/lattice/internal/cache"
	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/digital"
)

// gridCacheTTL bounds how long a memoized grid result stays valid. The
// model is deterministic, so the TTL only limits cache growth.
const gridCacheTTL = time.Hour

// Service runs parameter sweeps. Safe for concurrent use. Grid results
// are memoized in the cache store when one is configured; single-axis
// sweeps are cheap enough to recompute every time.
type Service struct {
	cache *cache.Store
	log   zerolog.Logger
}

// NewService creates a new sweep service. A nil cache disables
// memoization.
func NewService(cacheStore *cache.Store, log zerolog.Logger) *Service {
	return &Service{
		cache: cacheStore,
		log:   log.With().Str("service", "sweep").Logger(),
	}
}

// validate checks an axis against its legal interval. Endpoints are
// checked half-open on each side depending on the swept quantity.
func (a Axis) validate(name string, min, max float64) error {
	if a.Points < 2 {
		return domain.NewConfigurationError(name,
			"%s must have at least 2 points, got %d", name, a.Points)
	}
	if a.From >= a.To {
		return domain.NewConfigurationError(name,
			"%s interval [%g, %g] must be increasing", name, a.From, a.To)
	}
	if a.From <= min {
		return domain.NewConfigurationError(name,
			"%s lower bound %g must be above %g", name, a.From, min)
	}
	if a.To >= max {
		return domain.NewConfigurationError(name,
			"%s upper bound %g must be below %g", name, a.To, max)
	}
	return nil
}

// span returns the axis values, evenly spaced endpoints included.
func (a Axis) span() []float64 {
	return floats.Span(make([]float64, a.Points), a.From, a.To)
}

// ErrorRate sweeps the physical error rate of a digital configuration
// and reports per-point resources plus aggregate statistics.
func (s *Service) ErrorRate(req ErrorRateRequest) (*ErrorRateResult, error) {
	if err := req.Axis.validate("error_rate_axis", 0, digital.ErrorThreshold); err != nil {
		return nil, err
	}

	rates := req.Axis.span()
	points := make([]ErrorRatePoint, 0, len(rates))
	qubits := make([]float64, 0, len(rates))
	wallClocks := make([]float64, 0, len(rates))

	for _, rate := range rates {
		cfg := req.Digital
		cfg.PhysicalErrorRate = rate

		est, err := digital.New(cfg)
		if err != nil {
			return nil, err
		}

		total := est.TotalPhysicalQubits()
		wallClock := est.WallClockTime()

		points = append(points, ErrorRatePoint{
			PhysicalErrorRate:   rate,
			CodeDistance:        est.CodeDistance(),
			TotalPhysicalQubits: total,
			WallClockTime:       wallClock,
			SuccessProbability:  est.SuccessProbability(),
		})
		qubits = append(qubits, float64(total))
		wallClocks = append(wallClocks, wallClock)
	}

	return &ErrorRateResult{
		Points:              points,
		TotalPhysicalQubits: summarize(qubits),
		WallClockTime:       summarize(wallClocks),
	}, nil
}

// Width sweeps analog circuit width at a uniform T1. System T1 shrinks
// as 1/width, so the rows trace out the harmonic decay directly.
func (s *Service) Width(req WidthRequest) (*WidthResult, error) {
	if req.FromWidth < 1 {
		return nil, domain.NewConfigurationError("from_width",
			"from width %d must be at least 1", req.FromWidth)
	}
	if req.ToWidth < req.FromWidth {
		return nil, domain.NewConfigurationError("to_width",
			"to width %d must not be below from width %d", req.ToWidth, req.FromWidth)
	}

	t1 := analog.DefaultT1
	if req.T1 != nil {
		if *req.T1 <= 0 {
			return nil, domain.NewConfigurationError("t1_us",
				"T1 time %g must be positive", *req.T1)
		}
		t1 = *req.T1
	}

	points := make([]WidthPoint, 0, req.ToWidth-req.FromWidth+1)
	for width := req.FromWidth; width <= req.ToWidth; width++ {
		t1s := make([]float64, width)
		for i := range t1s {
			t1s[i] = t1
		}

		sim, err := analog.New(analog.Config{
			CircuitWidth:         width,
			QubitT1Times:         t1s,
			MaxRuntimeMultiplier: req.MaxRuntimeMultiplier,
		})
		if err != nil {
			return nil, err
		}

		points = append(points, WidthPoint{
			CircuitWidth:    width,
			SystemT1:        sim.SystemT1(),
			FeasibleRuntime: sim.FeasibleRuntime(),
			Fidelity:        sim.FidelityAt(sim.FeasibleRuntime()),
		})
	}

	return &WidthResult{Points: points}, nil
}

// Grid evaluates wall-clock time over an error-rate × runtime grid. The
// grid is built in a dense matrix (rows: error rates, columns: runtimes)
// and rendered row by row.
func (s *Service) Grid(req GridRequest) (*GridResult, error) {
	if err := req.ErrorRates.validate("error_rate_axis", 0, digital.ErrorThreshold); err != nil {
		return nil, err
	}
	if req.Runtimes.Points < 2 {
		return nil, domain.NewConfigurationError("runtime_axis",
			"runtime_axis must have at least 2 points, got %d", req.Runtimes.Points)
	}
	if req.Runtimes.From <= 0 || req.Runtimes.From >= req.Runtimes.To {
		return nil, domain.NewConfigurationError("runtime_axis",
			"runtime interval [%g, %g] must be positive and increasing", req.Runtimes.From, req.Runtimes.To)
	}

	cacheKey := gridCacheKey(req)
	if s.cache != nil {
		var cached GridResult
		hit, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("Grid cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	rates := req.ErrorRates.span()
	runtimes := req.Runtimes.span()

	grid := mat.NewDense(len(rates), len(runtimes), nil)
	distances := make([]int, len(rates))

	for i, rate := range rates {
		for j, runtime := range runtimes {
			cfg := req.Digital
			cfg.PhysicalErrorRate = rate
			cfg.TargetRuntime = runtime

			est, err := digital.New(cfg)
			if err != nil {
				return nil, err
			}

			grid.Set(i, j, est.WallClockTime())
			distances[i] = est.CodeDistance()
		}
	}

	rows := make([]GridRow, len(rates))
	for i, rate := range rates {
		rows[i] = GridRow{
			PhysicalErrorRate: rate,
			CodeDistance:      distances[i],
			WallClockTimes:    grid.RawRowView(i),
		}
	}

	result := &GridResult{
		Runtimes: runtimes,
		Rows:     rows,
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, result, gridCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("Grid cache write failed")
		}
	}

	return result, nil
}

// gridCacheKey derives a stable cache key from the full request. Config
// struct JSON is deterministic (fixed field order), so equal requests
// always map to the same key.
func gridCacheKey(req GridRequest) string {
	raw, err := json.Marshal(req)
	if err != nil {
		// Marshal of plain structs cannot fail; keep a non-colliding key
		// anyway.
		return fmt.Sprintf("sweep:grid:unhashable:%p", &req)
	}
	return fmt.Sprintf("sweep:grid:%x", sha256.Sum256(raw))
}

func summarize(values []float64) Summary {
	return Summary{
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Mean: stat.Mean(values, nil),
	}
}
