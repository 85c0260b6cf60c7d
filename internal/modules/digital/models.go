// Package digital models fault-tolerant digital quantum computers built
// on the surface code.
//
// A digital machine trades qubits for time: physical qubits are spent on
// error correction so the computation can run arbitrarily long. The model
// derives the code distance needed to hit a target logical error rate,
// then expands it into physical qubit counts (data, magic state
// distillation, compilation workspace), gate schedules, and wall-clock
// overheads.
package digital

import (
	"github.com/aristath/lattice/internal/domain"
)

// ErrorThreshold is the surface code threshold. Physical error rates at
// or above this are uncorrectable: adding qubits makes things worse, so
// configs beyond it are rejected outright.
const ErrorThreshold = 0.01

// MagicStateErrorThreshold is the error rate below which magic state
// distillation output is usable. Informational; distillation rounds are
// folded into the magic-state overhead factor rather than modelled
// individually.
const MagicStateErrorThreshold = 1e-3

// Default model parameters, applied when the corresponding config field
// is omitted.
const (
	// DefaultTargetLogicalErrorRate is the per-logical-gate error rate
	// the code distance is sized for.
	DefaultTargetLogicalErrorRate = 1e-10

	// DefaultTGateCount is the number of T gates in the circuit. T gates
	// are the expensive ones: they consume magic states.
	DefaultTGateCount = 100

	// DefaultMagicStateOverheadFactor scales the magic state qubit cost
	// per T gate.
	DefaultMagicStateOverheadFactor = 2.0

	// DefaultCompilationOverheadFactor scales data qubits into total
	// workspace; the excess over 1.0 is routing and scratch space.
	DefaultCompilationOverheadFactor = 1.5

	// DefaultPhysicalGateTime is the physical gate duration in
	// microseconds (superconducting-qubit scale).
	DefaultPhysicalGateTime = 0.1
)

// Config describes a digital fault-tolerant computation. LogicalQubits,
// TargetRuntime and PhysicalErrorRate are required; the remaining fields
// are pointers so an explicit zero (a circuit with no T gates is legal)
// can be told apart from an omitted value.
type Config struct {
	// LogicalQubits is the number of error-corrected qubits the
	// algorithm needs.
	LogicalQubits int `json:"logical_qubits"`

	// TargetRuntime is the desired computation length in microseconds.
	TargetRuntime float64 `json:"target_runtime_us"`

	// PhysicalErrorRate is the per-gate error rate of the underlying
	// hardware. Must be strictly below ErrorThreshold.
	PhysicalErrorRate float64 `json:"physical_error_rate"`

	// TargetLogicalErrorRate is the acceptable per-logical-gate error
	// rate the code distance is sized for.
	TargetLogicalErrorRate *float64 `json:"target_logical_error_rate,omitempty"`

	// CodeDistance pins the surface code distance instead of deriving it
	// from the error rates. Must be odd and at least 3.
	CodeDistance *int `json:"code_distance,omitempty"`

	// QubitsPerLogical overrides the physical qubit cost of one logical
	// qubit. Derived as 2*d^2 when omitted.
	QubitsPerLogical *int `json:"qubits_per_logical,omitempty"`

	// LogicalGateTime is the duration of one logical gate in
	// microseconds. Derived as d * PhysicalGateTime when omitted.
	LogicalGateTime *float64 `json:"logical_gate_time_us,omitempty"`

	// ECCCycleTime is the duration of one error correction cycle in
	// microseconds. Derived as d * PhysicalGateTime when omitted.
	ECCCycleTime *float64 `json:"error_correction_cycle_time_us,omitempty"`

	// TGateCount is the number of T gates in the circuit.
	TGateCount *int `json:"t_gate_count,omitempty"`

	// MagicStateOverheadFactor scales magic state qubit cost per T gate.
	MagicStateOverheadFactor *float64 `json:"magic_state_overhead_factor,omitempty"`

	// CompilationOverheadFactor scales data qubits into workspace.
	CompilationOverheadFactor *float64 `json:"compilation_overhead_factor,omitempty"`

	// PhysicalGateTime is the physical gate duration in microseconds.
	PhysicalGateTime *float64 `json:"physical_gate_time_us,omitempty"`
}

// ResolvedConfig is a Config with defaults applied, the code geometry
// derived, and constraints checked.
type ResolvedConfig struct {
	LogicalQubits             int
	TargetRuntime             float64
	PhysicalErrorRate         float64
	TargetLogicalErrorRate    float64
	CodeDistance              int
	QubitsPerLogical          int
	LogicalGateTime           float64
	ECCCycleTime              float64
	TGateCount                int
	MagicStateOverheadFactor  float64
	CompilationOverheadFactor float64
	PhysicalGateTime          float64
}

// Resolve validates the config and fills in defaults. All violations
// surface as ConfigurationError.
func (c Config) Resolve() (ResolvedConfig, error) {
	if c.LogicalQubits <= 0 {
		return ResolvedConfig{}, domain.NewConfigurationError("logical_qubits",
			"logical qubit count %d must be positive", c.LogicalQubits)
	}
	if c.TargetRuntime <= 0 {
		return ResolvedConfig{}, domain.NewConfigurationError("target_runtime_us",
			"target runtime %g must be positive", c.TargetRuntime)
	}
	if c.PhysicalErrorRate <= 0 {
		return ResolvedConfig{}, domain.NewConfigurationError("physical_error_rate",
			"physical error rate %g must be positive", c.PhysicalErrorRate)
	}
	if c.PhysicalErrorRate >= ErrorThreshold {
		return ResolvedConfig{}, domain.NewConfigurationError("physical_error_rate",
			"physical error rate %g must be below threshold %g", c.PhysicalErrorRate, ErrorThreshold)
	}

	targetLogicalErrorRate := DefaultTargetLogicalErrorRate
	if c.TargetLogicalErrorRate != nil {
		targetLogicalErrorRate = *c.TargetLogicalErrorRate
		if targetLogicalErrorRate <= 0 || targetLogicalErrorRate >= 1 {
			return ResolvedConfig{}, domain.NewConfigurationError("target_logical_error_rate",
				"target logical error rate %g must be within (0, 1)", targetLogicalErrorRate)
		}
	}

	tGateCount := DefaultTGateCount
	if c.TGateCount != nil {
		tGateCount = *c.TGateCount
		if tGateCount < 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("t_gate_count",
				"T gate count %d must not be negative", tGateCount)
		}
	}

	magicStateOverheadFactor := DefaultMagicStateOverheadFactor
	if c.MagicStateOverheadFactor != nil {
		magicStateOverheadFactor = *c.MagicStateOverheadFactor
		if magicStateOverheadFactor < 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("magic_state_overhead_factor",
				"magic state overhead factor %g must not be negative", magicStateOverheadFactor)
		}
	}

	compilationOverheadFactor := DefaultCompilationOverheadFactor
	if c.CompilationOverheadFactor != nil {
		compilationOverheadFactor = *c.CompilationOverheadFactor
		if compilationOverheadFactor < 1 {
			return ResolvedConfig{}, domain.NewConfigurationError("compilation_overhead_factor",
				"compilation overhead factor %g must be at least 1", compilationOverheadFactor)
		}
	}

	physicalGateTime := DefaultPhysicalGateTime
	if c.PhysicalGateTime != nil {
		physicalGateTime = *c.PhysicalGateTime
		if physicalGateTime <= 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("physical_gate_time_us",
				"physical gate time %g must be positive", physicalGateTime)
		}
	}

	// Code geometry resolves in dependency order: distance first, then
	// the per-logical qubit cost and gate timings that default from it.
	var codeDistance int
	if c.CodeDistance != nil {
		codeDistance = *c.CodeDistance
		if codeDistance < 3 || codeDistance%2 == 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("code_distance",
				"code distance %d must be odd and at least 3", codeDistance)
		}
	} else {
		derived, err := CodeDistanceFor(c.PhysicalErrorRate, targetLogicalErrorRate)
		if err != nil {
			return ResolvedConfig{}, err
		}
		codeDistance = derived
	}

	// A distance-d surface code patch uses d^2 data qubits plus d^2
	// measurement ancillas.
	qubitsPerLogical := 2 * codeDistance * codeDistance
	if c.QubitsPerLogical != nil {
		qubitsPerLogical = *c.QubitsPerLogical
		if qubitsPerLogical <= 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("qubits_per_logical",
				"qubits per logical %d must be positive", qubitsPerLogical)
		}
	}

	logicalGateTime := float64(codeDistance) * physicalGateTime
	if c.LogicalGateTime != nil {
		logicalGateTime = *c.LogicalGateTime
		if logicalGateTime <= 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("logical_gate_time_us",
				"logical gate time %g must be positive", logicalGateTime)
		}
	}

	eccCycleTime := float64(codeDistance) * physicalGateTime
	if c.ECCCycleTime != nil {
		eccCycleTime = *c.ECCCycleTime
		if eccCycleTime <= 0 {
			return ResolvedConfig{}, domain.NewConfigurationError("error_correction_cycle_time_us",
				"error correction cycle time %g must be positive", eccCycleTime)
		}
	}

	return ResolvedConfig{
		LogicalQubits:             c.LogicalQubits,
		TargetRuntime:             c.TargetRuntime,
		PhysicalErrorRate:         c.PhysicalErrorRate,
		TargetLogicalErrorRate:    targetLogicalErrorRate,
		CodeDistance:              codeDistance,
		QubitsPerLogical:          qubitsPerLogical,
		LogicalGateTime:           logicalGateTime,
		ECCCycleTime:              eccCycleTime,
		TGateCount:                tGateCount,
		MagicStateOverheadFactor:  magicStateOverheadFactor,
		CompilationOverheadFactor: compilationOverheadFactor,
		PhysicalGateTime:          physicalGateTime,
	}, nil
}

// Estimate is the full resource profile of a digital run. Durations are
// in microseconds unless the field name says otherwise; the space-time
// volume is reported both in qubit-microseconds and qubit-seconds.
type Estimate struct {
	LogicalQubits             int     `json:"logical_qubits"`
	PhysicalErrorRate         float64 `json:"physical_error_rate"`
	TargetLogicalErrorRate    float64 `json:"target_logical_error_rate"`
	CodeDistance              int     `json:"code_distance"`
	QubitsPerLogical          int     `json:"qubits_per_logical"`
	DataQubits                int     `json:"data_qubits"`
	MagicStateQubits          int     `json:"magic_state_qubits"`
	CompilationQubits         int     `json:"compilation_qubits"`
	TotalPhysicalQubits       int     `json:"total_physical_qubits"`
	ECCCycleTime              float64 `json:"ecc_cycle_time_us"`
	LogicalGateTime           float64 `json:"logical_gate_time_us"`
	TargetRuntime             float64 `json:"target_runtime_us"`
	TargetRuntimeSec          float64 `json:"target_runtime_seconds"`
	LogicalGateCount          int64   `json:"logical_gate_count"`
	PhysicalGateCount         int64   `json:"physical_gate_count"`
	AchievedLogicalErrorRate  float64 `json:"achieved_logical_error_rate"`
	SuccessProbability        float64 `json:"success_probability"`
	SpaceTimeVolume           float64 `json:"space_time_volume_qubit_us"`
	SpaceTimeVolumeSec        float64 `json:"space_time_volume_qubit_seconds"`
	WallClockTime             float64 `json:"wall_clock_time_us"`
	WallClockTimeMs           float64 `json:"wall_clock_time_ms"`
	TGateCount                int     `json:"t_gate_count"`
	MagicStateOverheadFactor  float64 `json:"magic_state_overhead_factor"`
	CompilationOverheadFactor float64 `json:"compilation_overhead_factor"`
	PhysicalGateTime          float64 `json:"physical_gate_time_us"`
}
