package timeseries

import (
	"testing"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

func testEvent() types.EnrichedEvent {
	return types.EnrichedEvent{
		NormalizedEvent: types.NormalizedEvent{
			EventType: "state_changed",
			TimeFired: time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC),
			EntityID:  "light.bedroom",
			Domain:    "light",
			State:     true,
			Attrs:     map[string]any{"brightness": 180, "friendly_name": "Bedroom"},
			Context:   types.EventContext{ID: "ctx-1"},
			Metadata:  types.EntityMetadata{Domain: "light", AreaID: "bedroom"},
		},
	}
}

func TestEventPointSchema(t *testing.T) {
	is := is.New(t)

	p, err := NewEventPoint(testEvent())
	is.NoErr(err)

	is.Equal(p.Measurement, "home_assistant_events")
	is.Equal(p.Tags["entity_id"], "light.bedroom")
	is.Equal(p.Tags["domain"], "light")
	is.Equal(p.Fields["state"], true)
	is.Equal(p.Fields["context_id"], "ctx-1")
	is.Equal(p.Fields["attr_brightness"], 180.0)
}

func TestEventPointRejectsInvalidEntityID(t *testing.T) {
	is := is.New(t)

	for _, entityID := range []string{"light.bedroom_", "light..bedroom", "lightbedroom", "Light.Bedroom"} {
		e := testEvent()
		e.EntityID = entityID

		_, err := NewEventPoint(e)
		if entityID == "light.bedroom_" {
			// trailing underscore inside the name segment is legal per the
			// pattern, but a trailing dot or empty segment is not
			is.NoErr(err)
			continue
		}
		is.True(err != nil)
	}
}

func TestEventPointRejectsMissingState(t *testing.T) {
	is := is.New(t)

	e := testEvent()
	e.State = nil

	_, err := NewEventPoint(e)
	is.True(err != nil)
}

func TestEventPointCarriesWeatherAndDuration(t *testing.T) {
	is := is.New(t)

	e := testEvent()
	e.Weather = &types.WeatherInfo{Temperature: 21.5, Condition: "clear", Location: "home"}
	d := 42.0
	e.DurationInState = &d

	p, err := NewEventPoint(e)
	is.NoErr(err)

	is.Equal(p.Tags["weather_condition"], "clear")
	is.Equal(p.Fields["weather_temperature"], 21.5)
	is.Equal(p.Fields["duration_in_state_seconds"], 42.0)
}

func TestAggregatePoint(t *testing.T) {
	is := is.New(t)

	p, err := NewAggregatePoint(types.Aggregate{
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Period:      "daily",
		Measurement: "home_assistant_events",
		EntityID:    "light.bedroom",
		Fields:      map[string]any{"event_count": 20},
	})
	is.NoErr(err)

	is.Equal(p.Measurement, "home_assistant_events_daily")
	is.Equal(p.Fields["event_count"], int64(20))
}

func TestAggregatePointRejectsUnknownPeriod(t *testing.T) {
	is := is.New(t)

	_, err := NewAggregatePoint(types.Aggregate{Period: "hourly", Measurement: "x", Fields: map[string]any{"n": 1}})
	is.True(err != nil)
}
