package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/events"
)

// allStreamedEventTypes lists every event type forwarded to stream clients
// when no filter is given.
var allStreamedEventTypes = []events.EventType{
	events.AnalogEstimated,
	events.DigitalEstimated,
	events.ComparisonRun,
	events.ReportGenerated,
	events.ScenarioCreated,
	events.ScenarioUpdated,
	events.ScenarioDeleted,
	events.ScenarioCompleted,
	events.SnapshotCaptured,
	events.ArchiveCompleted,
	events.SystemStatusChanged,
}

// EventsStreamHandler streams bus events to clients over Server-Sent
// Events (SSE).
type EventsStreamHandler struct {
	eventBus *events.Bus
	log      zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus: eventBus,
		log:      log.With().Str("component", "events_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/events/stream requests (SSE).
//
// The optional "types" query parameter is a comma-separated list of event
// types; when present only those types are forwarded.
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	allowedTypes := parseTypesFilter(r.URL.Query().Get("types"))

	h.log.Info().
		Str("types_filter", r.URL.Query().Get("types")).
		Msg("Client connected to event stream")

	// Buffered so a slow client cannot block the emitter; overflow drops.
	eventChan := make(chan *events.Event, 100)

	eventHandler := func(event *events.Event) {
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	}

	subscribeFiltered(h.eventBus, allowedTypes, eventHandler)

	done := r.Context().Done()

	// Initial connection message so clients can confirm the stream works
	fmt.Fprintf(w, "data: %s\n\n", h.encodeEvent(map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event stream",
	}))
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			h.log.Info().Msg("Client disconnected from event stream")
			return

		case event := <-eventChan:
			eventJSON := h.encodeEvent(map[string]interface{}{
				"type":      string(event.Type),
				"module":    event.Module,
				"timestamp": event.Timestamp.Format(time.RFC3339),
				"data":      event.Data,
			})
			fmt.Fprintf(w, "data: %s\n\n", eventJSON)
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprintf(w, "data: %s\n\n", h.encodeEvent(map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now().Format(time.RFC3339),
			}))
			flusher.Flush()
		}
	}
}

// encodeEvent encodes an event map to a JSON string
func (h *EventsStreamHandler) encodeEvent(event map[string]interface{}) string {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to marshal event")
		return `{"error":"failed to encode event"}`
	}
	return string(data)
}

// parseTypesFilter parses a comma-separated event type list. A nil result
// means no filter (all types).
func parseTypesFilter(raw string) map[events.EventType]bool {
	if raw == "" {
		return nil
	}

	allowed := make(map[events.EventType]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			allowed[events.EventType(t)] = true
		}
	}
	if len(allowed) == 0 {
		return nil
	}
	return allowed
}

// subscribeFiltered registers the handler for the filtered types, or for
// every streamed type when no filter is given.
func subscribeFiltered(bus *events.Bus, allowed map[events.EventType]bool, handler events.Handler) {
	if allowed == nil {
		for _, eventType := range allStreamedEventTypes {
			bus.Subscribe(eventType, handler)
		}
		return
	}
	for eventType := range allowed {
		bus.Subscribe(eventType, handler)
	}
}
