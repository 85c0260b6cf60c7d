package analog

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/lattice/internal/domain"
)

// SystemT1 computes the collective relaxation time of a qubit register.
//
// Formula: T1_sys = 1 / Σ(1/T1_i)
//
// Each qubit is an independent decay channel, so decay rates (1/T1) add
// and the system relaxes faster than its best qubit. The result is
// always <= min(T1_i); for N identical qubits it is exactly T1/N.
// Implemented through the harmonic mean: HM(x)/n == 1/Σ(1/x_i).
func SystemT1(t1s []float64) (float64, error) {
	if len(t1s) == 0 {
		return 0, domain.NewDomainError("system_t1", "cannot compute system T1 of an empty qubit register")
	}
	for i, t1 := range t1s {
		if t1 <= 0 {
			return 0, domain.NewDomainError("system_t1", "T1 time at index %d is %g, reciprocal is undefined", i, t1)
		}
	}
	return stat.HarmonicMean(t1s, nil) / float64(len(t1s)), nil
}

// Simulator estimates resources for a decoherence-limited analog run.
// System T1 and the feasible runtime are frozen at construction so that
// repeated queries are cheap and always self-consistent.
type Simulator struct {
	cfg             ResolvedConfig
	systemT1        float64
	feasibleRuntime float64
}

// New resolves the config and builds a simulator. Invalid configs are
// rejected here so every constructed Simulator is usable.
func New(cfg Config) (*Simulator, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	systemT1, err := SystemT1(resolved.QubitT1Times)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		cfg:             resolved,
		systemT1:        systemT1,
		feasibleRuntime: systemT1 * resolved.MaxRuntimeMultiplier,
	}, nil
}

// Config returns the resolved configuration the simulator was built from.
func (s *Simulator) Config() ResolvedConfig {
	return s.cfg
}

// SystemT1 returns the collective register T1 in microseconds.
func (s *Simulator) SystemT1() float64 {
	return s.systemT1
}

// FeasibleRuntime returns the maximum feasible runtime in microseconds.
//
// Formula: t_max = T1_sys * max_runtime_multiplier
func (s *Simulator) FeasibleRuntime() float64 {
	return s.feasibleRuntime
}

// FeasibleRuntimeMs returns the feasible runtime in milliseconds.
func (s *Simulator) FeasibleRuntimeMs() float64 {
	return domain.MicrosecondsToMilliseconds(s.feasibleRuntime)
}

// FeasibleRuntimeSeconds returns the feasible runtime in seconds.
func (s *Simulator) FeasibleRuntimeSeconds() float64 {
	return domain.MicrosecondsToSeconds(s.feasibleRuntime)
}

// DecoherenceErrorAt returns the probability that the register has
// decohered by time t (microseconds).
//
// Formula: e(t) = 1 - exp(-t / T1_sys)
//
// Exponential decay: 0 at t=0, ~0.632 at t=T1_sys, asymptotically 1.
// Negative t is clamped to 0 rather than rejected; a run cannot end
// before it starts.
func (s *Simulator) DecoherenceErrorAt(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return 1 - math.Exp(-t/s.systemT1)
}

// TotalErrorAt returns the total error probability at time t. The analog
// model is decoherence-only: readout error is reported for context but
// deliberately excluded, so total error equals decoherence error.
func (s *Simulator) TotalErrorAt(t float64) float64 {
	return s.DecoherenceErrorAt(t)
}

// FidelityAt returns the expected fidelity of a run of length t.
//
// Formula: F(t) = 1 - e_total(t)
func (s *Simulator) FidelityAt(t float64) float64 {
	return 1 - s.TotalErrorAt(t)
}

// Estimate evaluates the full resource profile at the feasible runtime.
// This is the quantity downstream consumers care about: "if I run as
// long as the hardware allows, what do I get?"
func (s *Simulator) Estimate() Estimate {
	totalError := s.TotalErrorAt(s.feasibleRuntime)
	fidelity := 1 - totalError

	return Estimate{
		CircuitWidth:         s.cfg.CircuitWidth,
		QubitT1Times:         s.cfg.QubitT1Times,
		SystemT1:             s.systemT1,
		FeasibleRuntime:      s.feasibleRuntime,
		FeasibleRuntimeMs:    s.FeasibleRuntimeMs(),
		FeasibleRuntimeSec:   s.FeasibleRuntimeSeconds(),
		DecoherenceError:     s.DecoherenceErrorAt(s.feasibleRuntime),
		TotalError:           totalError,
		Fidelity:             fidelity,
		MeasurementErrorRate: s.cfg.MeasurementErrorRate,
		TargetFidelity:       s.cfg.TargetFidelity,
		MaxRuntimeMultiplier: s.cfg.MaxRuntimeMultiplier,
		MeetsTargetFidelity:  fidelity >= s.cfg.TargetFidelity,
	}
}
