package reports

import (
	"fmt"
	"strings"

	"github.com/aristath/lattice/internal/utils"
)

const tableWidth = 80

// FormatTable renders a report as a fixed-width text table. Labels are
// padded so values align in a column at offset 24; counts get thousands
// separators; wide-range values stay in scientific notation.
func FormatTable(r Report) string {
	var lines []string

	rule := strings.Repeat("=", tableWidth)
	divider := strings.Repeat("-", tableWidth)

	lines = append(lines, rule)
	lines = append(lines, centerText(r.Title, tableWidth))
	lines = append(lines, rule)

	if r.Metadata != nil {
		lines = append(lines, fmt.Sprintf("Generated: %s", r.Metadata.GeneratedAt))
		lines = append(lines, divider)
	}

	analog := r.Analog
	lines = append(lines, "")
	lines = append(lines, "ANALOG SIMULATION")
	lines = append(lines, divider)
	lines = append(lines, fmt.Sprintf("System Size:            %d qubits", analog.CircuitConfiguration.Width))
	lines = append(lines, fmt.Sprintf("System T1:              %.2f μs", analog.SystemPerformance.SystemT1Us))
	lines = append(lines, fmt.Sprintf("Feasible Runtime:       %.2f ms", analog.SystemPerformance.FeasibleRuntimeMs))
	lines = append(lines, fmt.Sprintf("                        (%.6f s)", analog.SystemPerformance.FeasibleRuntimeS))
	lines = append(lines, fmt.Sprintf("Fidelity:               %.4f", analog.ErrorAnalysis.Fidelity))
	lines = append(lines, fmt.Sprintf("Total Error:            %.6f", analog.ErrorAnalysis.TotalError))

	digital := r.Digital
	lines = append(lines, "")
	lines = append(lines, "DIGITAL FAULT-TOLERANT COMPUTATION")
	lines = append(lines, divider)
	lines = append(lines, fmt.Sprintf("Logical Qubits:         %d", digital.LogicalConfiguration.LogicalQubits))
	lines = append(lines, fmt.Sprintf("Code Distance:          %d", digital.ErrorCorrection.CodeDistance))
	lines = append(lines, fmt.Sprintf("Physical Qubits/Logical:%d", digital.ErrorCorrection.PhysicalQubitsPerLogical))
	lines = append(lines, "")
	lines = append(lines, "Resource Breakdown:")
	lines = append(lines, fmt.Sprintf("  Data Qubits:          %s", utils.GroupThousands(int64(digital.ResourceBreakdown.DataQubits))))
	lines = append(lines, fmt.Sprintf("  Magic State Qubits:   %s", utils.GroupThousands(int64(digital.ResourceBreakdown.MagicStateQubits))))
	lines = append(lines, fmt.Sprintf("  Compilation Qubits:   %s", utils.GroupThousands(int64(digital.ResourceBreakdown.CompilationQubits))))
	lines = append(lines, fmt.Sprintf("  TOTAL Physical Qubits:%s", utils.GroupThousands(int64(digital.ResourceBreakdown.TotalPhysicalQubits))))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Target Runtime:         %.6f s (%.2f μs)",
		digital.LogicalConfiguration.TargetRuntimeS, digital.LogicalConfiguration.TargetRuntimeUs))
	lines = append(lines, fmt.Sprintf("Wall Clock Time:        %.2f μs", digital.PerformanceMetrics.WallClockTimeUs))
	lines = append(lines, fmt.Sprintf("                        %.6f s", digital.PerformanceMetrics.WallClockTimeSeconds))
	lines = append(lines, fmt.Sprintf("                        %.4f hours", digital.PerformanceMetrics.WallClockTimeHours))
	lines = append(lines, fmt.Sprintf("Logical Gates:          %s", utils.GroupThousands(digital.PerformanceMetrics.LogicalGateCount)))
	lines = append(lines, fmt.Sprintf("Space-Time Volume:      %s qubit-s", digital.PerformanceMetrics.SpaceTimeVolumeQubitS))
	lines = append(lines, fmt.Sprintf("Success Probability:    %.4f", digital.PerformanceMetrics.AlgorithmSuccessProbability))

	cmp := r.Comparison
	lines = append(lines, "")
	lines = append(lines, "COMPARISON")
	lines = append(lines, divider)
	lines = append(lines, fmt.Sprintf("Qubit Count Ratio (D/A):%.2fx", cmp.QubitCountRatio))
	lines = append(lines, fmt.Sprintf("Runtime Ratio (D/A):    %.2fx", cmp.RuntimeRatioDigitalToAnalog))

	if cmp.AnalogFaster {
		lines = append(lines, fmt.Sprintf("→ Analog simulation is %.2fx FASTER", cmp.RuntimeRatioDigitalToAnalog))
	} else {
		lines = append(lines, fmt.Sprintf("→ Digital computation is %.2fx FASTER", 1/cmp.RuntimeRatioDigitalToAnalog))
	}

	lines = append(lines, "")
	lines = append(lines, "Space-Time Resources:")
	lines = append(lines, fmt.Sprintf("  Analog:  %.2e qubit-s", cmp.SpaceTimeAdvantage.AnalogQubitSeconds))
	lines = append(lines, fmt.Sprintf("  Digital: %.2e qubit-s", cmp.SpaceTimeAdvantage.DigitalQubitSeconds))
	lines = append(lines, fmt.Sprintf("  Ratio:   %.2ex", cmp.SpaceTimeAdvantage.Ratio))

	lines = append(lines, rule)

	return strings.Join(lines, "\n")
}

// centerText left-pads s so it appears centered in the given width.
func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}
