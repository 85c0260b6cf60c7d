// Package comparison contrasts analog and digital resource estimates.
//
// The engine is a read-only consumer: it takes one estimate from each
// model and reduces them to dimensionless ratios plus a verdict. It owns
// no state and never mutates its inputs.
package comparison

import (
	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/digital"
)

// Result holds the relative metrics between an analog and a digital run.
// Ratios are digital over analog throughout: values above 1 mean the
// digital machine needs more of that resource.
type Result struct {
	// QubitCountRatio is physical machine size over analog register
	// width. The analog side has no correction overhead, so this is the
	// headline cost of fault tolerance.
	QubitCountRatio float64 `json:"qubit_count_ratio"`

	// RuntimeRatio is the digital logical target runtime over the analog
	// feasible runtime. Deliberately the logical target, not wall-clock:
	// it answers "how much longer a computation does error correction
	// unlock", not "how long will I wait".
	RuntimeRatio float64 `json:"runtime_ratio"`

	// WallClockRuntimeRatio is the wall-clock variant of RuntimeRatio,
	// with correction and distillation stalls included on the digital
	// side.
	WallClockRuntimeRatio float64 `json:"wall_clock_runtime_ratio"`

	// AnalogFaster reports whether the digital target runtime exceeds
	// what the analog device can survive.
	AnalogFaster bool `json:"analog_faster"`

	// AnalogQubitSeconds is the analog space-time volume: register width
	// times feasible runtime, in qubit-seconds.
	AnalogQubitSeconds float64 `json:"analog_space_time_qubit_seconds"`

	// DigitalQubitSeconds is the digital space-time volume in
	// qubit-seconds.
	DigitalQubitSeconds float64 `json:"digital_space_time_qubit_seconds"`

	// SpaceTimeRatio is digital over analog space-time volume.
	SpaceTimeRatio float64 `json:"space_time_ratio"`
}

// Engine compares estimates from the two execution models.
type Engine struct{}

// NewEngine creates a comparison engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compare reduces one analog and one digital estimate to relative
// metrics. A zero analog feasible runtime makes every ratio meaningless,
// so it is rejected rather than propagated as infinity.
func (e *Engine) Compare(analogEst analog.Estimate, digitalEst digital.Estimate) (Result, error) {
	if analogEst.FeasibleRuntime == 0 {
		return Result{}, domain.NewDomainError("compare",
			"analog feasible runtime is zero, runtime ratios are undefined")
	}
	if analogEst.CircuitWidth <= 0 {
		return Result{}, domain.NewDomainError("compare",
			"analog circuit width %d must be positive", analogEst.CircuitWidth)
	}

	analogQubitSeconds := float64(analogEst.CircuitWidth) * analogEst.FeasibleRuntimeSec

	return Result{
		QubitCountRatio:       float64(digitalEst.TotalPhysicalQubits) / float64(analogEst.CircuitWidth),
		RuntimeRatio:          digitalEst.TargetRuntime / analogEst.FeasibleRuntime,
		WallClockRuntimeRatio: digitalEst.WallClockTime / analogEst.FeasibleRuntime,
		AnalogFaster:          digitalEst.TargetRuntime/analogEst.FeasibleRuntime > 1,
		AnalogQubitSeconds:    analogQubitSeconds,
		DigitalQubitSeconds:   digitalEst.SpaceTimeVolumeSec,
		SpaceTimeRatio:        digitalEst.SpaceTimeVolumeSec / analogQubitSeconds,
	}, nil
}
