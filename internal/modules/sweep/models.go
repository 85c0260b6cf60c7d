// Package sweep performs sensitivity analysis over the estimation models.
//
// The models are closed-form, so sweeping a parameter is just repeated
// construction: one estimator per grid point, no sampling. Sweeps are
// pure computations; nothing here touches storage.
package sweep

import (
	"github.com/aristath/lattice/internal/modules/digital"
)

// Axis describes one swept interval: Points evenly spaced values across
// [From, To], endpoints included.
type Axis struct {
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Points int     `json:"points"`
}

// ErrorRateRequest sweeps the physical error rate of a digital config.
// Every other field of the base config is held fixed.
type ErrorRateRequest struct {
	Digital digital.Config `json:"digital"`
	Axis    Axis           `json:"axis"`
}

// ErrorRatePoint is one row of an error-rate sweep.
type ErrorRatePoint struct {
	PhysicalErrorRate   float64 `json:"physical_error_rate"`
	CodeDistance        int     `json:"code_distance"`
	TotalPhysicalQubits int     `json:"total_physical_qubits"`
	WallClockTime       float64 `json:"wall_clock_time_us"`
	SuccessProbability  float64 `json:"success_probability"`
}

// Summary holds aggregate statistics over one swept quantity.
type Summary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// ErrorRateResult is the full output of an error-rate sweep.
type ErrorRateResult struct {
	Points              []ErrorRatePoint `json:"points"`
	TotalPhysicalQubits Summary          `json:"total_physical_qubits"`
	WallClockTime       Summary          `json:"wall_clock_time_us"`
}

// WidthRequest sweeps analog circuit width at a uniform per-qubit T1.
type WidthRequest struct {
	// FromWidth and ToWidth bound the swept register sizes, inclusive.
	FromWidth int `json:"from_width"`
	ToWidth   int `json:"to_width"`

	// T1 is the uniform per-qubit relaxation time in microseconds.
	// Defaults to the analog model default when omitted.
	T1 *float64 `json:"t1_us,omitempty"`

	// MaxRuntimeMultiplier scales system T1 into the feasible runtime.
	MaxRuntimeMultiplier *float64 `json:"max_runtime_multiplier,omitempty"`
}

// WidthPoint is one row of a width sweep.
type WidthPoint struct {
	CircuitWidth    int     `json:"circuit_width"`
	SystemT1        float64 `json:"system_t1_us"`
	FeasibleRuntime float64 `json:"feasible_runtime_us"`
	Fidelity        float64 `json:"fidelity"`
}

// WidthResult is the full output of a width sweep.
type WidthResult struct {
	Points []WidthPoint `json:"points"`
}

// GridRequest evaluates digital wall-clock time over an error-rate ×
// target-runtime grid.
type GridRequest struct {
	Digital    digital.Config `json:"digital"`
	ErrorRates Axis           `json:"error_rates"`
	Runtimes   Axis           `json:"runtimes_us"`
}

// GridRow is one error-rate row of the grid: wall-clock times for every
// runtime column.
type GridRow struct {
	PhysicalErrorRate float64   `json:"physical_error_rate"`
	CodeDistance      int       `json:"code_distance"`
	WallClockTimes    []float64 `json:"wall_clock_times_us"`
}

// GridResult is the full output of a runtime grid evaluation.
type GridResult struct {
	Runtimes []float64 `json:"runtimes_us"`
	Rows     []GridRow `json:"rows"`
}
