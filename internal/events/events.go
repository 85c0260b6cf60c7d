// Package events provides the in-process event bus and the typed event
// payloads emitted by the estimation, report and archive services.
package events

import "time"

// EventType identifies a class of event on the bus
type EventType string

const (
	// AnalogEstimated fires when an ad hoc analog estimate is computed
	AnalogEstimated EventType = "analog_estimated"
	// DigitalEstimated fires when an ad hoc digital estimate is computed
	DigitalEstimated EventType = "digital_estimated"
	// ComparisonRun fires when a comparison of both models completes
	ComparisonRun EventType = "comparison_run"
	// ReportGenerated fires when a report is assembled and persisted
	ReportGenerated EventType = "report_generated"
	// ScenarioCreated fires when a scenario is added to the catalog
	ScenarioCreated EventType = "scenario_created"
	// ScenarioUpdated fires when a scenario's configuration changes
	ScenarioUpdated EventType = "scenario_updated"
	// ScenarioDeleted fires when a scenario is removed
	ScenarioDeleted EventType = "scenario_deleted"
	// ScenarioCompleted fires when a scenario run produces a report
	ScenarioCompleted EventType = "scenario_completed"
	// SnapshotCaptured fires when the snapshot job stores scenario metrics
	SnapshotCaptured EventType = "snapshot_captured"
	// ArchiveCompleted fires when a cold archive upload finishes
	ArchiveCompleted EventType = "archive_completed"
	// SystemStatusChanged fires on service lifecycle transitions
	SystemStatusChanged EventType = "system_status_changed"
)

// Event is a single occurrence published on the bus
type Event struct {
	Type      EventType   `json:"type"`
	Module    string      `json:"module"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// EventData is implemented by typed event payloads
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// ReportGeneratedData contains data for ReportGenerated events
type ReportGeneratedData struct {
	ReportID   string `json:"report_id"`
	Title      string `json:"title"`
	ScenarioID string `json:"scenario_id,omitempty"`
}

// EventType returns the event type for ReportGeneratedData
func (d *ReportGeneratedData) EventType() EventType {
	return ReportGenerated
}

// ScenarioChangedData contains data for scenario lifecycle events.
// Action is one of "created", "updated", "deleted".
type ScenarioChangedData struct {
	ScenarioID string `json:"scenario_id"`
	Name       string `json:"name"`
	Action     string `json:"action"`
}

// EventType returns the event type for ScenarioChangedData
func (d *ScenarioChangedData) EventType() EventType {
	switch d.Action {
	case "updated":
		return ScenarioUpdated
	case "deleted":
		return ScenarioDeleted
	default:
		return ScenarioCreated
	}
}

// ScenarioCompletedData contains data for ScenarioCompleted events
type ScenarioCompletedData struct {
	ScenarioID   string  `json:"scenario_id"`
	ReportID     string  `json:"report_id"`
	AnalogFaster bool    `json:"analog_faster"`
	RuntimeRatio float64 `json:"runtime_ratio"`
}

// EventType returns the event type for ScenarioCompletedData
func (d *ScenarioCompletedData) EventType() EventType {
	return ScenarioCompleted
}

// SnapshotCapturedData contains data for SnapshotCaptured events
type SnapshotCapturedData struct {
	ScenarioID string `json:"scenario_id"`
	Captured   int    `json:"captured"`
	Failed     int    `json:"failed"`
}

// EventType returns the event type for SnapshotCapturedData
func (d *SnapshotCapturedData) EventType() EventType {
	return SnapshotCaptured
}

// ArchiveCompletedData contains data for ArchiveCompleted events
type ArchiveCompletedData struct {
	Key       string `json:"key"`
	SizeBytes int64  `json:"size_bytes"`
}

// EventType returns the event type for ArchiveCompletedData
func (d *ArchiveCompletedData) EventType() EventType {
	return ArchiveCompleted
}

// SystemStatusData contains data for SystemStatusChanged events
type SystemStatusData struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// EventType returns the event type for SystemStatusData
func (d *SystemStatusData) EventType() EventType {
	return SystemStatusChanged
}
