package capabilities

import (
	"context"
	"testing"

	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

func f64(v float64) *float64 { return &v }

func TestParseDimmerExposes(t *testing.T) {
	is := is.New(t)

	caps := ParseExposes(context.Background(), []Expose{
		{Type: "light", Features: []Expose{{Type: "binary", Name: "state"}, {Type: "numeric", Name: "brightness"}}},
		{Type: "enum", Name: "smartBulbMode", Values: []string{"Disabled", "Enabled"}},
		{Type: "numeric", Name: "autoTimerOff", ValueMin: f64(0), ValueMax: f64(32767), Unit: "s"},
	})

	is.Equal(len(caps), 3)

	light, ok := caps["light_control"]
	is.True(ok)
	is.Equal(light.Type, types.CapabilityTypeComposite)
	is.Equal(light.Features, []string{"state", "brightness"})

	mode, ok := caps["smart_bulb_mode"]
	is.True(ok)
	is.Equal(mode.Type, types.CapabilityTypeEnum)
	is.Equal(mode.Values, []string{"Disabled", "Enabled"})

	timer, ok := caps["auto_timer_off"]
	is.True(ok)
	is.Equal(timer.Type, types.CapabilityTypeNumeric)
	is.Equal(*timer.Max, 32767.0)
	is.Equal(timer.Complexity, types.ComplexityMedium)
}

func TestParseContactSensorExposes(t *testing.T) {
	is := is.New(t)

	caps := ParseExposes(context.Background(), []Expose{
		{Type: "binary", Name: "contact", ValueOn: "open", ValueOff: "close"},
		{Type: "numeric", Name: "battery", Unit: "%"},
	})

	is.Equal(len(caps), 2)
	is.Equal(caps["contact"].ValueOn, "open")
	is.Equal(caps["battery"].Unit, "%")
	is.Equal(caps["battery"].Complexity, types.ComplexityEasy)
}

func TestParseBulbExposes(t *testing.T) {
	is := is.New(t)

	caps := ParseExposes(context.Background(), []Expose{
		{Type: "light", Features: []Expose{{Type: "numeric", Name: "brightness"}, {Type: "numeric", Name: "color_temp"}}},
		{Type: "enum", Name: "effect", Values: []string{"blink", "breathe"}},
	})

	is.Equal(len(caps), 2)
	is.Equal(caps["effect"].Complexity, types.ComplexityAdvanced)
}

func TestParseIsIdempotent(t *testing.T) {
	is := is.New(t)

	exposes := []Expose{
		{Type: "light", Features: []Expose{{Type: "binary", Name: "state"}}},
		{Type: "enum", Name: "smartBulbMode", Values: []string{"Disabled", "Enabled"}},
	}

	first := ParseExposes(context.Background(), exposes)
	second := ParseExposes(context.Background(), exposes)

	is.Equal(first, second)
}

func TestParseSkipsUnknownTypes(t *testing.T) {
	is := is.New(t)

	caps := ParseExposes(context.Background(), []Expose{
		{Type: "mystery", Name: "whoKnows"},
		{Type: "binary", Name: "contact"},
	})

	is.Equal(len(caps), 1)
}

func TestNameMapping(t *testing.T) {
	is := is.New(t)

	is.Equal(MapName("smartBulbMode"), "smart_bulb_mode")
	is.Equal(MapName("led_effect"), "led_notifications")
	is.Equal(MapName("colorTemp"), "color_temp")
	is.Equal(MapName("brightness"), "brightness")
}

func TestStoreCopyOnRefresh(t *testing.T) {
	is := is.New(t)

	s := NewStore()

	s.HandleDeviceList(context.Background(), []DeviceEntry{
		{ID: "dev-1", Manufacturer: "Inovelli", Model: "VZM31-SN", Exposes: []Expose{{Type: "light", Features: []Expose{{Type: "binary", Name: "state"}}}}},
	})

	snapshot := s.Snapshot()
	is.Equal(len(snapshot), 1)

	dc, ok := s.ByDeviceID("dev-1")
	is.True(ok)
	is.Equal(dc.Model, "VZM31-SN")

	// a refresh replaces the map but the old snapshot stays intact
	s.HandleDeviceList(context.Background(), nil)
	is.Equal(len(snapshot), 1)
	is.Equal(len(s.Snapshot()), 0)
}

func TestStoreEntityMetadata(t *testing.T) {
	is := is.New(t)

	s := NewStore()
	s.HandleEntityList(context.Background(), []EntityEntry{
		{EntityID: "light.bedroom", DeviceID: "dev-1", AreaID: "bedroom", OriginalName: "Bedroom Light"},
	})

	m, ok := s.EntityMetadata("light.bedroom")
	is.True(ok)
	is.Equal(m.AreaID, "bedroom")
	is.Equal(m.DeviceID, "dev-1")

	_, ok = s.EntityMetadata("light.unknown")
	is.Equal(ok, false)
}
