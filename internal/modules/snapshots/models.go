// Package snapshots captures headline scenario metrics on a schedule so
// trends are queryable without re-parsing full report documents.
//
// Snapshots live in the cache database as msgpack blobs: they can always
// be recaptured from the scenario catalog, so durability is traded for
// write speed.
package snapshots

import "time"

// Snapshot is one capture of a scenario's headline metrics. Field tags
// cover both encodings: msgpack for the blob column, JSON for the API.
type Snapshot struct {
	ScenarioID string    `msgpack:"scenario_id" json:"scenario_id"`
	CapturedAt time.Time `msgpack:"captured_at" json:"captured_at"`

	SystemT1            float64 `msgpack:"system_t1_us" json:"system_t1_us"`
	FeasibleRuntime     float64 `msgpack:"feasible_runtime_us" json:"feasible_runtime_us"`
	AnalogFidelity      float64 `msgpack:"analog_fidelity" json:"analog_fidelity"`
	CodeDistance        int     `msgpack:"code_distance" json:"code_distance"`
	TotalPhysicalQubits int     `msgpack:"total_physical_qubits" json:"total_physical_qubits"`
	WallClockTime       float64 `msgpack:"wall_clock_time_us" json:"wall_clock_time_us"`
	SuccessProbability  float64 `msgpack:"success_probability" json:"success_probability"`

	QubitCountRatio float64 `msgpack:"qubit_count_ratio" json:"qubit_count_ratio"`
	RuntimeRatio    float64 `msgpack:"runtime_ratio" json:"runtime_ratio"`
	SpaceTimeRatio  float64 `msgpack:"space_time_ratio" json:"space_time_ratio"`
	AnalogFaster    bool    `msgpack:"analog_faster" json:"analog_faster"`
}
