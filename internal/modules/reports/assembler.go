package reports

import (
	"fmt"
	"math"
	"time"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/comparison"
	"github.com/aristath/lattice/internal/modules/digital"
)

// Assembler builds report documents from model estimates. Stateless; it
// exists as a type so the DI container can hand it around like the other
// services.
type Assembler struct{}

// NewAssembler creates a report assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the full comparison document. Rounding precision per
// field is fixed: durations to 4 decimals (microsecond scale) or 6
// (second scale), probabilities to 6, ratios and wall-clock microseconds
// to 2. Values spanning many decades are rendered as %.2e strings.
func (a *Assembler) Assemble(
	analogEst analog.Estimate,
	digitalEst digital.Estimate,
	cmp comparison.Result,
	title string,
	includeMetadata bool,
) Report {
	if title == "" {
		title = DefaultTitle
	}

	report := Report{
		Title: title,
		Analog: AnalogSection{
			CircuitConfiguration: CircuitConfiguration{
				Width:                analogEst.CircuitWidth,
				IndividualT1TimesUs:  append([]float64(nil), analogEst.QubitT1Times...),
				MeasurementErrorRate: analogEst.MeasurementErrorRate,
			},
			SystemPerformance: SystemPerformance{
				SystemT1Us:        roundTo(analogEst.SystemT1, 4),
				FeasibleRuntimeUs: roundTo(analogEst.FeasibleRuntime, 4),
				FeasibleRuntimeMs: roundTo(analogEst.FeasibleRuntimeMs, 4),
				FeasibleRuntimeS:  roundTo(analogEst.FeasibleRuntimeSec, 6),
			},
			ErrorAnalysis: ErrorAnalysis{
				DecoherenceError: roundTo(analogEst.DecoherenceError, 6),
				TotalError:       roundTo(analogEst.TotalError, 6),
				Fidelity:         roundTo(analogEst.Fidelity, 6),
			},
		},
		Digital: DigitalSection{
			LogicalConfiguration: LogicalConfiguration{
				LogicalQubits:          digitalEst.LogicalQubits,
				TargetRuntimeUs:        digitalEst.TargetRuntime,
				TargetRuntimeS:         roundTo(digitalEst.TargetRuntimeSec, 6),
				PhysicalErrorRate:      digitalEst.PhysicalErrorRate,
				TargetLogicalErrorRate: digitalEst.TargetLogicalErrorRate,
			},
			ErrorCorrection: ErrorCorrection{
				CodeDistance:             digitalEst.CodeDistance,
				PhysicalQubitsPerLogical: digitalEst.QubitsPerLogical,
				LogicalGateTimeUs:        digitalEst.LogicalGateTime,
				AchievedLogicalErrorRate: fmt.Sprintf("%.2e", digitalEst.AchievedLogicalErrorRate),
			},
			ResourceBreakdown: ResourceBreakdown{
				DataQubits:          digitalEst.DataQubits,
				MagicStateQubits:    digitalEst.MagicStateQubits,
				CompilationQubits:   digitalEst.CompilationQubits,
				TotalPhysicalQubits: digitalEst.TotalPhysicalQubits,
			},
			PerformanceMetrics: PerformanceMetrics{
				LogicalGateCount:            digitalEst.LogicalGateCount,
				PhysicalGateCount:           digitalEst.PhysicalGateCount,
				TargetRuntimeUs:             digitalEst.TargetRuntime,
				WallClockTimeUs:             roundTo(digitalEst.WallClockTime, 2),
				WallClockTimeSeconds:        roundTo(domain.MicrosecondsToSeconds(digitalEst.WallClockTime), 6),
				WallClockTimeHours:          roundTo(domain.SecondsToHours(domain.MicrosecondsToSeconds(digitalEst.WallClockTime)), 4),
				SpaceTimeVolumeQubitUs:      fmt.Sprintf("%.2e", digitalEst.SpaceTimeVolume),
				SpaceTimeVolumeQubitS:       fmt.Sprintf("%.2e", digitalEst.SpaceTimeVolumeSec),
				AlgorithmSuccessProbability: roundTo(digitalEst.SuccessProbability, 6),
			},
		},
		Comparison: ComparisonSection{
			QubitCountRatio:             roundTo(cmp.QubitCountRatio, 2),
			RuntimeRatioDigitalToAnalog: roundTo(cmp.RuntimeRatio, 2),
			WallClockRuntimeRatio:       roundTo(cmp.WallClockRuntimeRatio, 2),
			AnalogFaster:                cmp.AnalogFaster,
			SpaceTimeAdvantage: SpaceTimeAdvantage{
				AnalogQubitSeconds:  roundTo(cmp.AnalogQubitSeconds, 2),
				DigitalQubitSeconds: roundTo(cmp.DigitalQubitSeconds, 2),
				Ratio:               roundTo(cmp.SpaceTimeRatio, 2),
			},
		},
	}

	if includeMetadata {
		report.Metadata = &Metadata{
			GeneratedAt: time.Now().Format(time.RFC3339),
			Version:     ReportVersion,
		}
	}

	return report
}

// roundTo rounds to a fixed number of decimal places.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
