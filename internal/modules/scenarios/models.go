// Package scenarios manages the catalog of named estimation scenarios.
//
// A scenario is a stored pair of analog + digital configurations: the unit
// of repeatable estimation. Saving one validates both configs by actually
// constructing the models, so everything in the catalog is guaranteed to be
// runnable.
package scenarios

import (
	"time"

	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/digital"
)

// Scenario is a stored analog/digital configuration pair.
type Scenario struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Analog      analog.Config  `json:"analog"`
	Digital     digital.Config `json:"digital"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// RunResult is what a scenario run produces: both estimates, the
// comparison, and the ID of the persisted report.
type RunResult struct {
	ScenarioID string `json:"scenario_id"`
	ReportID   string `json:"report_id"`

	AnalogFaster        bool    `json:"analog_faster"`
	RuntimeRatio        float64 `json:"runtime_ratio"`
	QubitCountRatio     float64 `json:"qubit_count_ratio"`
	SpaceTimeRatio      float64 `json:"space_time_ratio"`
	SystemT1            float64 `json:"system_t1_us"`
	FeasibleRuntime     float64 `json:"feasible_runtime_us"`
	CodeDistance        int     `json:"code_distance"`
	TotalPhysicalQubits int     `json:"total_physical_qubits"`
	WallClockTime       float64 `json:"wall_clock_time_us"`
}
