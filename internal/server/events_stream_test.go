package server

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/aristath/lattice/internal/events"
)

func TestParseTypesFilter(t *testing.T) {
	assert.Nil(t, parseTypesFilter(""))
	assert.Nil(t, parseTypesFilter(" , ,"), "blank entries collapse to no filter")

	allowed := parseTypesFilter("scenario_created,snapshot_captured")
	assert.Len(t, allowed, 2)
	assert.True(t, allowed[events.ScenarioCreated])
	assert.True(t, allowed[events.SnapshotCaptured])
	assert.False(t, allowed[events.ReportGenerated])

	allowed = parseTypesFilter(" scenario_created ")
	assert.Len(t, allowed, 1)
	assert.True(t, allowed[events.ScenarioCreated])
}

func TestSubscribeFiltered(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	t.Run("filtered", func(t *testing.T) {
		bus := events.NewBus(logger)

		var received []*events.Event
		subscribeFiltered(bus, map[events.EventType]bool{events.ScenarioCreated: true},
			func(e *events.Event) { received = append(received, e) })

		bus.Emit(events.ScenarioCreated, "scenarios", nil)
		bus.Emit(events.ReportGenerated, "reports", nil)

		assert.Len(t, received, 1)
		assert.Equal(t, events.ScenarioCreated, received[0].Type)
	})

	t.Run("unfiltered receives every streamed type", func(t *testing.T) {
		bus := events.NewBus(logger)

		var received []*events.Event
		subscribeFiltered(bus, nil, func(e *events.Event) { received = append(received, e) })

		for _, eventType := range allStreamedEventTypes {
			bus.Emit(eventType, "test", nil)
		}

		assert.Len(t, received, len(allStreamedEventTypes))
	})
}
