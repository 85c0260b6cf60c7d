// Package analog models decoherence-limited analog quantum simulators.
//
// An analog simulator runs without error correction: every physical qubit
// is a computational qubit, and the device simply loses coherence over
// time. The model therefore has no qubit overhead at all. Its single hard
// constraint is runtime, which is bounded by the collective T1 of the
// qubit register.
package analog

import (
	"github.com/aristath/lattice/internal/domain"
)

// Default model parameters. These match the published baselines for
// near-term analog hardware and are applied whenever the corresponding
// config field is omitted.
const (
	// DefaultT1 is the per-qubit relaxation time in microseconds used
	// when no explicit T1 list is supplied.
	DefaultT1 = 100.0

	// DefaultMeasurementErrorRate is the per-measurement readout error.
	// Recorded on estimates for context; the error model itself is
	// decoherence-only.
	DefaultMeasurementErrorRate = 0.01

	// DefaultTargetFidelity is the fidelity the experiment is aiming
	// for. Informational: feasibility is runtime-bounded, not
	// fidelity-bounded.
	DefaultTargetFidelity = 0.99

	// DefaultMaxRuntimeMultiplier scales the system T1 into the maximum
	// feasible runtime. 1.0 means "run for exactly one system T1".
	DefaultMaxRuntimeMultiplier = 1.0
)

// Config describes an analog simulation problem. Optional fields are
// pointers so that an explicit zero can be told apart from an omitted
// value (a max runtime multiplier of 0 is legal and means "no runtime
// at all").
type Config struct {
	// CircuitWidth is the number of qubits in the computation.
	CircuitWidth int `json:"circuit_width"`

	// QubitT1Times lists the per-qubit T1 relaxation times in
	// microseconds. When nil, every qubit gets the default T1. When set,
	// the length must equal CircuitWidth.
	QubitT1Times []float64 `json:"qubit_t1_times,omitempty"`

	// DefaultT1 is the uniform per-qubit T1 in microseconds applied when
	// QubitT1Times is absent. Falls back to the package default.
	DefaultT1 *float64 `json:"default_t1,omitempty"`

	// MeasurementErrorRate is the per-measurement readout error rate.
	MeasurementErrorRate *float64 `json:"measurement_error_rate,omitempty"`

	// TargetFidelity is the desired end-of-run fidelity.
	TargetFidelity *float64 `json:"target_fidelity,omitempty"`

	// MaxRuntimeMultiplier scales system T1 into the feasible runtime.
	MaxRuntimeMultiplier *float64 `json:"max_runtime_multiplier,omitempty"`
}

// ResolvedConfig is a Config with every default applied and every
// constraint checked. Estimation code only ever sees resolved values.
type ResolvedConfig struct {
	CircuitWidth         int
	QubitT1Times         []float64
	MeasurementErrorRate float64
	TargetFidelity       float64
	MaxRuntimeMultiplier float64
}

// Resolve validates the config and fills in defaults, returning the
// fully-populated form. All violations surface as ConfigurationError so
// callers can map them to a 400 uniformly.
func (c Config) Resolve() (ResolvedConfig, error) {
	if c.CircuitWidth <= 0 {
		return ResolvedConfig{}, domain.NewConfigurationError("circuit_width",
			"circuit width %d must be positive", c.CircuitWidth)
	}

	defaultT1 := float64(DefaultT1)
	if c.DefaultT1 != nil {
		defaultT1 = *c.DefaultT1
		if defaultT1 <= 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("default_t1",
				"default T1 time %g must be positive", defaultT1)
		}
	}

	t1s := c.QubitT1Times
	if t1s == nil {
		t1s = make([]float64, c.CircuitWidth)
		for i := range t1s {
			t1s[i] = defaultT1
		}
	} else {
		if len(t1s) != c.CircuitWidth {
			return ResolvedConfig{}, domain.NewConfigurationError("qubit_t1_times",
				"number of T1 times (%d) must match circuit width (%d)", len(t1s), c.CircuitWidth)
		}
		// Copy so later mutation of the caller's slice cannot skew a
		// resolved config.
		t1s = append([]float64(nil), t1s...)
		for i, t1 := range t1s {
			if t1 <= 0 {
				return ResolvedConfig{}, domain.NewConfigurationError("qubit_t1_times",
					"T1 time at index %d must be positive, got %g", i, t1)
			}
		}
	}

	measurementErrorRate := DefaultMeasurementErrorRate
	if c.MeasurementErrorRate != nil {
		measurementErrorRate = *c.MeasurementErrorRate
		if measurementErrorRate < 0 || measurementErrorRate > 1 {
			return ResolvedConfig{}, domain.NewConfigurationError("measurement_error_rate",
				"measurement error rate %g must be within [0, 1]", measurementErrorRate)
		}
	}

	targetFidelity := DefaultTargetFidelity
	if c.TargetFidelity != nil {
		targetFidelity = *c.TargetFidelity
		if targetFidelity <= 0 || targetFidelity > 1 {
			return ResolvedConfig{}, domain.NewConfigurationError("target_fidelity",
				"target fidelity %g must be within (0, 1]", targetFidelity)
		}
	}

	maxRuntimeMultiplier := DefaultMaxRuntimeMultiplier
	if c.MaxRuntimeMultiplier != nil {
		maxRuntimeMultiplier = *c.MaxRuntimeMultiplier
		if maxRuntimeMultiplier < 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("max_runtime_multiplier",
				"max runtime multiplier %g must not be negative", maxRuntimeMultiplier)
		}
	}

	return ResolvedConfig{
		CircuitWidth:         c.CircuitWidth,
		QubitT1Times:         t1s,
		MeasurementErrorRate: measurementErrorRate,
		TargetFidelity:       targetFidelity,
		MaxRuntimeMultiplier: maxRuntimeMultiplier,
	}, nil
}

// Estimate is the full resource profile of an analog run. All durations
// are in microseconds unless the field name says otherwise. It carries
// everything downstream consumers (comparison, reports, snapshots) need
// without recomputation.
type Estimate struct {
	CircuitWidth         int       `json:"circuit_width"`
	QubitT1Times         []float64 `json:"qubit_t1_times"`
	SystemT1             float64   `json:"system_t1_us"`
	FeasibleRuntime      float64   `json:"feasible_runtime_us"`
	FeasibleRuntimeMs    float64   `json:"feasible_runtime_ms"`
	FeasibleRuntimeSec   float64   `json:"feasible_runtime_seconds"`
	DecoherenceError     float64   `json:"decoherence_error"`
	TotalError           float64   `json:"total_error"`
	Fidelity             float64   `json:"fidelity"`
	MeasurementErrorRate float64   `json:"measurement_error_rate"`
	TargetFidelity       float64   `json:"target_fidelity"`
	MaxRuntimeMultiplier float64   `json:"max_runtime_multiplier"`
	MeetsTargetFidelity  bool      `json:"meets_target_fidelity"`
}
