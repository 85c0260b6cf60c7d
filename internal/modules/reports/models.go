// Package reports assembles, renders, stores and exports comparison
// reports.
//
// A report is a self-contained JSON document: once generated it never
// changes, even if the models that produced it do. The document shape
// (section and key names, rounding precision, scientific-notation
// strings) is part of the external contract; downstream tooling parses
// these documents, so changes here are breaking changes.
package reports

import "time"

// ReportVersion identifies the document schema carried in the metadata
// block.
const ReportVersion = "1.0.0"

// DefaultTitle is used when a generation request omits the title.
const DefaultTitle = "Quantum Resource Estimation Report"

// Metadata records when and by which schema version a report was built.
type Metadata struct {
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`
}

// CircuitConfiguration is the analog input configuration block.
type CircuitConfiguration struct {
	Width                int       `json:"width"`
	IndividualT1TimesUs  []float64 `json:"individual_t1_times_us"`
	MeasurementErrorRate float64   `json:"measurement_error_rate"`
}

// SystemPerformance is the analog derived-performance block.
type SystemPerformance struct {
	SystemT1Us        float64 `json:"system_t1_us"`
	FeasibleRuntimeUs float64 `json:"feasible_runtime_us"`
	FeasibleRuntimeMs float64 `json:"feasible_runtime_ms"`
	FeasibleRuntimeS  float64 `json:"feasible_runtime_s"`
}

// ErrorAnalysis is the analog error block.
type ErrorAnalysis struct {
	DecoherenceError float64 `json:"decoherence_error"`
	TotalError       float64 `json:"total_error"`
	Fidelity         float64 `json:"fidelity"`
}

// AnalogSection groups everything reported about the analog run.
type AnalogSection struct {
	CircuitConfiguration CircuitConfiguration `json:"circuit_configuration"`
	SystemPerformance    SystemPerformance    `json:"system_performance"`
	ErrorAnalysis        ErrorAnalysis        `json:"error_analysis"`
}

// LogicalConfiguration is the digital input configuration block.
type LogicalConfiguration struct {
	LogicalQubits          int     `json:"logical_qubits"`
	TargetRuntimeUs        float64 `json:"target_runtime_us"`
	TargetRuntimeS         float64 `json:"target_runtime_s"`
	PhysicalErrorRate      float64 `json:"physical_error_rate"`
	TargetLogicalErrorRate float64 `json:"target_logical_error_rate"`
}

// ErrorCorrection is the surface-code parameter block. The achieved
// logical error rate is a scientific-notation string: the magnitudes
// span many decades and fixed-precision floats would render as 0.
type ErrorCorrection struct {
	CodeDistance             int     `json:"code_distance"`
	PhysicalQubitsPerLogical int     `json:"physical_qubits_per_logical"`
	LogicalGateTimeUs        float64 `json:"logical_gate_time_us"`
	AchievedLogicalErrorRate string  `json:"achieved_logical_error_rate"`
}

// ResourceBreakdown is the physical qubit budget block.
type ResourceBreakdown struct {
	DataQubits          int `json:"data_qubits"`
	MagicStateQubits    int `json:"magic_state_qubits"`
	CompilationQubits   int `json:"compilation_qubits"`
	TotalPhysicalQubits int `json:"total_physical_qubits"`
}

// PerformanceMetrics is the digital timing and volume block.
type PerformanceMetrics struct {
	LogicalGateCount            int64   `json:"logical_gate_count"`
	PhysicalGateCount           int64   `json:"physical_gate_count"`
	TargetRuntimeUs             float64 `json:"target_runtime_us"`
	WallClockTimeUs             float64 `json:"wall_clock_time_us"`
	WallClockTimeSeconds        float64 `json:"wall_clock_time_seconds"`
	WallClockTimeHours          float64 `json:"wall_clock_time_hours"`
	SpaceTimeVolumeQubitUs      string  `json:"space_time_volume_qubit_us"`
	SpaceTimeVolumeQubitS       string  `json:"space_time_volume_qubit_s"`
	AlgorithmSuccessProbability float64 `json:"algorithm_success_probability"`
}

// DigitalSection groups everything reported about the digital run.
type DigitalSection struct {
	LogicalConfiguration LogicalConfiguration `json:"logical_configuration"`
	ErrorCorrection      ErrorCorrection      `json:"error_correction"`
	ResourceBreakdown    ResourceBreakdown    `json:"resource_breakdown"`
	PerformanceMetrics   PerformanceMetrics   `json:"performance_metrics"`
}

// SpaceTimeAdvantage contrasts total space-time volume.
type SpaceTimeAdvantage struct {
	AnalogQubitSeconds  float64 `json:"analog_qubit_seconds"`
	DigitalQubitSeconds float64 `json:"digital_qubit_seconds"`
	Ratio               float64 `json:"ratio"`
}

// ComparisonSection holds the cross-model ratios and the verdict.
type ComparisonSection struct {
	QubitCountRatio             float64            `json:"qubit_count_ratio"`
	RuntimeRatioDigitalToAnalog float64            `json:"runtime_ratio_digital_to_analog"`
	WallClockRuntimeRatio       float64            `json:"wall_clock_runtime_ratio"`
	AnalogFaster                bool               `json:"analog_faster"`
	SpaceTimeAdvantage          SpaceTimeAdvantage `json:"space_time_advantage"`
}

// Report is the full comparison document.
type Report struct {
	Title      string            `json:"title"`
	Metadata   *Metadata         `json:"metadata,omitempty"`
	Analog     AnalogSection     `json:"analog_simulation"`
	Digital    DigitalSection    `json:"digital_fault_tolerant"`
	Comparison ComparisonSection `json:"comparison"`
}

// StoredReport is a persisted report row. The document itself is kept as
// opaque JSON so schema evolution never requires a table migration.
type StoredReport struct {
	ID          string    `json:"id"`
	ScenarioID  *string   `json:"scenario_id,omitempty"`
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
	Document    Report    `json:"document"`
}
