package enrichment

import (
	"context"
	"testing"
	"time"

	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

var testTime = time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(capabilities.NewStore(), clock.Fixed(testTime))
}

func rawEvent(entityID, state string) types.Event {
	return types.Event{
		EventType: "state_changed",
		TimeFired: "2026-03-01T06:59:58.000000+00:00",
		NewState:  &types.EntityState{EntityID: entityID, State: state},
	}
}

func TestNormalizeHappyPath(t *testing.T) {
	is := is.New(t)

	norm, res := newTestNormalizer().Normalize(context.Background(), rawEvent("light.bedroom", "on"))

	is.True(res.IsValid)
	is.Equal(res.Domain, "light")
	is.Equal(norm.EntityID, "light.bedroom")
	is.Equal(norm.Domain, "light")
	is.Equal(norm.State, true)
	is.Equal(norm.TimeFired, time.Date(2026, 3, 1, 6, 59, 58, 0, time.UTC))
	is.Equal(norm.SyntheticTimestamp, false)
}

func TestNormalizeMissingFields(t *testing.T) {
	is := is.New(t)

	n := newTestNormalizer()

	_, res := n.Normalize(context.Background(), types.Event{TimeFired: "2026-03-01T07:00:00Z"})
	is.Equal(res.IsValid, false)
	is.Equal(len(res.Errors), 2) // event_type and entity_id both missing
	is.Equal(res.Errors[0].Class, ErrClassMissingField)
}

func TestNormalizeRejectsMalformedEntityIDs(t *testing.T) {
	n := newTestNormalizer()

	for _, id := range []string{
		"light.bedroom_", // trailing underscore
		"light_.bedroom",
		"light..bedroom", // double dot
		"Light.bedroom",
		"bedroom",
		"light.bed room",
	} {
		_, res := n.Normalize(context.Background(), rawEvent(id, "on"))
		if res.IsValid {
			t.Errorf("expected %q to be rejected", id)
		}
		if len(res.Errors) == 0 || res.Errors[0].Class != ErrClassInvalidFormat {
			t.Errorf("expected invalid_format for %q, got %+v", id, res.Errors)
		}
	}
}

func TestTimestampRules(t *testing.T) {
	is := is.New(t)

	n := newTestNormalizer()

	// explicit offset converts to UTC
	e := rawEvent("light.bedroom", "on")
	e.TimeFired = "2026-03-01T08:00:00+01:00"
	norm, res := n.Normalize(context.Background(), e)
	is.True(res.IsValid)
	is.Equal(norm.TimeFired, time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC))

	// offset zero round-trips unchanged
	e.TimeFired = "2026-03-01T07:00:00+00:00"
	norm, _ = n.Normalize(context.Background(), e)
	is.Equal(norm.TimeFired, time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC))

	// naive timestamps are assumed UTC
	e.TimeFired = "2026-03-01T07:30:00"
	norm, _ = n.Normalize(context.Background(), e)
	is.Equal(norm.TimeFired, time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC))

	// absent timestamp falls back to receive time, flagged synthetic
	e.TimeFired = ""
	e.ReceivedAt = time.Date(2026, 3, 1, 7, 45, 0, 0, time.UTC)
	norm, res = n.Normalize(context.Background(), e)
	is.True(res.IsValid)
	is.True(norm.SyntheticTimestamp)
	is.Equal(norm.TimeFired, e.ReceivedAt)

	// garbage is a timestamp_error
	e.TimeFired = "yesterday-ish"
	_, res = n.Normalize(context.Background(), e)
	is.Equal(res.IsValid, false)
	is.Equal(res.Errors[0].Class, ErrClassTimestamp)
}

func TestOutOfOrderTimestampWarnsButAccepts(t *testing.T) {
	is := is.New(t)

	n := newTestNormalizer()

	e := rawEvent("light.bedroom", "on")
	e.TimeFired = "2026-03-01T07:00:00Z"
	_, res := n.Normalize(context.Background(), e)
	is.True(res.IsValid)
	is.Equal(len(res.Warnings), 0)

	e.TimeFired = "2026-03-01T06:00:00Z"
	_, res = n.Normalize(context.Background(), e)
	is.True(res.IsValid)
	is.Equal(len(res.Warnings), 1)
}

func TestStateCoercion(t *testing.T) {
	is := is.New(t)

	is.Equal(CoerceState("on"), true)
	is.Equal(CoerceState("OFF"), false)
	is.Equal(CoerceState("Yes"), true)
	is.Equal(CoerceState("disabled"), false)
	is.Equal(CoerceState("1"), true) // boolean table wins over numeric parse
	is.Equal(CoerceState("21.5"), 21.5)
	is.Equal(CoerceState("unavailable"), "unavailable")
	is.Equal(CoerceState("unknown"), "unknown")
	is.Equal(CoerceState("partially_open"), "partially_open")

	// already-typed values pass through, keeping coercion idempotent
	is.Equal(CoerceState(true), true)
	is.Equal(CoerceState(21.5), 21.5)
	is.Equal(CoerceState(CoerceState("on")), true)
}

func TestUnitCanonicalization(t *testing.T) {
	is := is.New(t)

	n := newTestNormalizer()

	e := rawEvent("sensor.outdoor_temp", "21.5")
	e.NewState.Attributes = map[string]any{"unit_of_measurement": "°C", "device_class": "temperature"}

	norm, res := n.Normalize(context.Background(), e)
	is.True(res.IsValid)
	is.Equal(norm.Attrs["unit_of_measurement"], "celsius")
	is.Equal(norm.State, 21.5)

	// canonical units are left alone
	e.NewState.Attributes = map[string]any{"unit_of_measurement": "celsius"}
	norm, _ = n.Normalize(context.Background(), e)
	is.Equal(norm.Attrs["unit_of_measurement"], "celsius")
}

func TestMetadataFromRegistryAndAttributes(t *testing.T) {
	is := is.New(t)

	caps := capabilities.NewStore()
	caps.HandleEntityList(context.Background(), []capabilities.EntityEntry{
		{EntityID: "light.bedroom", DeviceID: "dev-1", AreaID: "bedroom", DeviceClass: "light"},
	})

	n := NewNormalizer(caps, clock.Fixed(testTime))

	e := rawEvent("light.bedroom", "on")
	e.NewState.Attributes = map[string]any{"friendly_name": "Bedroom Light"}

	norm, _ := n.Normalize(context.Background(), e)
	is.Equal(norm.Metadata.AreaID, "bedroom")
	is.Equal(norm.Metadata.DeviceID, "dev-1")
	is.Equal(norm.Metadata.Domain, "light")
	is.Equal(norm.Metadata.FriendlyName, "Bedroom Light") // attribute fills the registry gap
}

func TestNormalizeIsIdempotent(t *testing.T) {
	is := is.New(t)

	e := rawEvent("sensor.humidity", "55")
	e.NewState.Attributes = map[string]any{"unit_of_measurement": "%"}

	first, res1 := newTestNormalizer().Normalize(context.Background(), e)
	is.True(res1.IsValid)

	// re-normalizing an event rebuilt from the normalized form changes nothing
	again := types.Event{
		EventType: first.EventType,
		TimeFired: first.TimeFired.Format(time.RFC3339Nano),
		NewState:  &types.EntityState{EntityID: first.EntityID, State: first.State, Attributes: first.Attrs},
		Context:   first.Context,
	}

	second, res2 := newTestNormalizer().Normalize(context.Background(), again)
	is.True(res2.IsValid)
	is.Equal(second.State, first.State)
	is.Equal(second.Attrs, first.Attrs)
	is.Equal(second.TimeFired, first.TimeFired)
	is.Equal(second.EntityID, first.EntityID)
}
