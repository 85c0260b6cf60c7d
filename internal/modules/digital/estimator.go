package digital

import (
	"math"

	"github.com/aristath/lattice/internal/domain"
)

// CodeDistanceFor computes the smallest usable surface code distance for
// the given physical and target logical error rates.
//
// Formula: d = ceil(2 * ln(1/p_L) / ln(p_th/p))
//
// Derived from inverting the suppression law p_L = 0.1 * (p/p_th)^((d+1)/2):
// each two steps of distance buy one factor of p/p_th in logical error.
// The surface code only defines odd distances, so even results round up,
// and anything below the smallest error-correcting code is clamped to 3.
func CodeDistanceFor(physicalErrorRate, targetLogicalErrorRate float64) (int, error) {
	if physicalErrorRate <= 0 {
		return 0, domain.NewDomainError("code_distance",
			"physical error rate %g must be positive", physicalErrorRate)
	}
	if physicalErrorRate >= ErrorThreshold {
		return 0, domain.NewDomainError("code_distance",
			"physical error rate %g must be below threshold %g", physicalErrorRate, ErrorThreshold)
	}
	if targetLogicalErrorRate <= 0 || targetLogicalErrorRate >= 1 {
		return 0, domain.NewDomainError("code_distance",
			"target logical error rate %g must be within (0, 1)", targetLogicalErrorRate)
	}

	distance := int(math.Ceil(2 * math.Log(1/targetLogicalErrorRate) / math.Log(ErrorThreshold/physicalErrorRate)))
	if distance%2 == 0 {
		distance++
	}
	if distance < 3 {
		distance = 3
	}
	return distance, nil
}

// Estimator derives physical resource requirements for a fault-tolerant
// run. The code geometry (distance, patch size, gate timings) is frozen
// at construction; everything else is cheap arithmetic over it.
type Estimator struct {
	cfg              ResolvedConfig
	codeDistance     int
	qubitsPerLogical int
	logicalGateTime  float64
	eccCycleTime     float64
}

// New resolves the config, which sizes the surface code unless the
// caller pinned the geometry explicitly, and builds an estimator.
// Invalid configs are rejected here.
func New(cfg Config) (*Estimator, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	return &Estimator{
		cfg:              resolved,
		codeDistance:     resolved.CodeDistance,
		qubitsPerLogical: resolved.QubitsPerLogical,
		logicalGateTime:  resolved.LogicalGateTime,
		eccCycleTime:     resolved.ECCCycleTime,
	}, nil
}

// Config returns the resolved configuration the estimator was built from.
func (e *Estimator) Config() ResolvedConfig {
	return e.cfg
}

// CodeDistance returns the surface code distance. Always odd, at least 3.
func (e *Estimator) CodeDistance() int {
	return e.codeDistance
}

// QubitsPerLogical returns the physical qubit cost of one logical qubit.
//
// Formula: q = 2 * d^2 (unless overridden)
func (e *Estimator) QubitsPerLogical() int {
	return e.qubitsPerLogical
}

// ECCCycleTime returns the duration of one error correction cycle in
// microseconds. A cycle is d rounds of syndrome extraction.
//
// Formula: t_cycle = d * t_phys (unless overridden)
func (e *Estimator) ECCCycleTime() float64 {
	return e.eccCycleTime
}

// LogicalGateTime returns the duration of one logical gate in
// microseconds. Defaults to one full correction cycle.
func (e *Estimator) LogicalGateTime() float64 {
	return e.logicalGateTime
}

// DataQubits returns the physical qubits carrying the algorithm's state.
//
// Formula: n_data = logical_qubits * qubits_per_logical
func (e *Estimator) DataQubits() int {
	return e.cfg.LogicalQubits * e.qubitsPerLogical
}

// MagicStateQubits returns the physical qubits reserved for magic state
// distillation, which T gates consume.
//
// Formula: n_magic = round(t_gate_count * overhead * qubits_per_logical)
func (e *Estimator) MagicStateQubits() int {
	return int(math.Round(float64(e.cfg.TGateCount) * e.cfg.MagicStateOverheadFactor * float64(e.qubitsPerLogical)))
}

// CompilationQubits returns the routing and scratch workspace.
//
// Formula: n_comp = round(n_data * (compilation_overhead - 1))
func (e *Estimator) CompilationQubits() int {
	return int(math.Round(float64(e.DataQubits()) * (e.cfg.CompilationOverheadFactor - 1)))
}

// TotalPhysicalQubits returns the machine size. Kept as the exact sum of
// the three pools so the parts always reconcile with the whole.
func (e *Estimator) TotalPhysicalQubits() int {
	return e.DataQubits() + e.MagicStateQubits() + e.CompilationQubits()
}

// LogicalGateCount returns how many sequential logical gates fit into the
// target runtime.
//
// Formula: n_gates = floor(target_runtime / logical_gate_time)
func (e *Estimator) LogicalGateCount() int64 {
	return int64(math.Floor(e.cfg.TargetRuntime / e.LogicalGateTime()))
}

// PhysicalGateCount returns the number of physical gate operations behind
// the logical schedule. Each logical gate costs d rounds of d^2 physical
// operations.
//
// Formula: n_phys = n_gates * d^3
func (e *Estimator) PhysicalGateCount() int64 {
	d := int64(e.codeDistance)
	return e.LogicalGateCount() * d * d * d
}

// AchievedLogicalErrorRate returns the per-gate logical error rate the
// chosen distance actually delivers. Always at or below the target, since
// distance rounding only ever adds protection.
//
// Formula: p_L = 0.1 * (p/p_th)^((d+1)/2)
func (e *Estimator) AchievedLogicalErrorRate() float64 {
	ratio := e.cfg.PhysicalErrorRate / ErrorThreshold
	return 0.1 * math.Pow(ratio, float64(e.codeDistance+1)/2)
}

// SuccessProbability returns the probability that every logical gate in
// the schedule succeeds.
//
// Formula: P = (1 - p_L)^n_gates
func (e *Estimator) SuccessProbability() float64 {
	return math.Pow(1-e.AchievedLogicalErrorRate(), float64(e.LogicalGateCount()))
}

// SpaceTimeVolume returns the run cost in qubit-microseconds, the
// standard currency for comparing fault-tolerant layouts.
//
// Formula: V = total_physical_qubits * target_runtime
func (e *Estimator) SpaceTimeVolume() float64 {
	return float64(e.TotalPhysicalQubits()) * e.cfg.TargetRuntime
}

// WallClockTime returns the real elapsed time in microseconds once
// correction stalls, magic state production and compilation overhead are
// layered onto the target runtime.
//
// Formula: t_wall = t_target * (1 + d/10) * (1 + overhead_magic * 0.1) * 1.5
//
// The d/10 term models syndrome processing lag growing with distance, the
// magic term models T-gate stalls waiting on distillation, and the fixed
// 1.5 is compilation slack.
func (e *Estimator) WallClockTime() float64 {
	correctionFactor := 1 + float64(e.codeDistance)/10
	magicFactor := 1 + e.cfg.MagicStateOverheadFactor*0.1
	return e.cfg.TargetRuntime * correctionFactor * magicFactor * 1.5
}

// Estimate evaluates the full resource profile.
func (e *Estimator) Estimate() Estimate {
	return Estimate{
		LogicalQubits:             e.cfg.LogicalQubits,
		PhysicalErrorRate:         e.cfg.PhysicalErrorRate,
		TargetLogicalErrorRate:    e.cfg.TargetLogicalErrorRate,
		CodeDistance:              e.codeDistance,
		QubitsPerLogical:          e.qubitsPerLogical,
		DataQubits:                e.DataQubits(),
		MagicStateQubits:          e.MagicStateQubits(),
		CompilationQubits:         e.CompilationQubits(),
		TotalPhysicalQubits:       e.TotalPhysicalQubits(),
		ECCCycleTime:              e.eccCycleTime,
		LogicalGateTime:           e.LogicalGateTime(),
		TargetRuntime:             e.cfg.TargetRuntime,
		TargetRuntimeSec:          domain.MicrosecondsToSeconds(e.cfg.TargetRuntime),
		LogicalGateCount:          e.LogicalGateCount(),
		PhysicalGateCount:         e.PhysicalGateCount(),
		AchievedLogicalErrorRate:  e.AchievedLogicalErrorRate(),
		SuccessProbability:        e.SuccessProbability(),
		SpaceTimeVolume:           e.SpaceTimeVolume(),
		SpaceTimeVolumeSec:        domain.MicrosecondsToSeconds(e.SpaceTimeVolume()),
		WallClockTime:             e.WallClockTime(),
		WallClockTimeMs:           domain.MicrosecondsToMilliseconds(e.WallClockTime()),
		TGateCount:                e.cfg.TGateCount,
		MagicStateOverheadFactor:  e.cfg.MagicStateOverheadFactor,
		CompilationOverheadFactor: e.cfg.CompilationOverheadFactor,
		PhysicalGateTime:          e.cfg.PhysicalGateTime,
	}
}
