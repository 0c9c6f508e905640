package capabilities

import (
	"context"
	"strings"
	"unicode"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/pkg/types"
)

// Expose is one element of a device's exposes[] array from the hub's
// device-list broadcast. Composite types nest their features.
type Expose struct {
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Property string   `json:"property,omitempty"`
	Features []Expose `json:"features,omitempty"`
	Values   []string `json:"values,omitempty"`
	ValueMin *float64 `json:"value_min,omitempty"`
	ValueMax *float64 `json:"value_max,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	ValueOn  string   `json:"value_on,omitempty"`
	ValueOff string   `json:"value_off,omitempty"`
}

// aliases maps hub-native feature names that do not follow from the
// mechanical camelCase conversion.
var aliases = map[string]string{
	"smartBulbMode":    "smart_bulb_mode",
	"led_effect":       "led_notifications",
	"ledWhenOn":        "led_when_on",
	"autoTimerOff":     "auto_timer_off",
	"powerOnBehavior":  "power_on_behavior",
	"localProtection":  "child_lock",
	"colorTempStartup": "color_temp_startup",
}

var compositeControls = map[string]string{
	"light":   "light_control",
	"switch":  "switch_control",
	"climate": "climate_control",
}

// ParseExposes converts an exposes array into a capability map. The parse
// is deterministic: identical input arrays yield identical maps.
func ParseExposes(ctx context.Context, exposes []Expose) map[string]types.Capability {
	log := logging.GetFromContext(ctx)

	capabilities := map[string]types.Capability{}

	for _, e := range exposes {
		switch {
		case compositeControls[e.Type] != "":
			features := make([]string, 0, len(e.Features))
			for _, f := range e.Features {
				features = append(features, MapName(featureName(f)))
			}

			capabilities[compositeControls[e.Type]] = types.Capability{
				Type:       types.CapabilityTypeComposite,
				Features:   features,
				Complexity: classify(features...),
			}

		case e.Type == "enum":
			name := MapName(featureName(e))
			if name == "" {
				continue
			}
			capabilities[name] = types.Capability{
				Type:       types.CapabilityTypeEnum,
				Values:     e.Values,
				Complexity: classify(name),
			}

		case e.Type == "numeric":
			name := MapName(featureName(e))
			if name == "" {
				continue
			}
			capabilities[name] = types.Capability{
				Type:       types.CapabilityTypeNumeric,
				Min:        e.ValueMin,
				Max:        e.ValueMax,
				Unit:       e.Unit,
				Complexity: classify(name),
			}

		case e.Type == "binary":
			name := MapName(featureName(e))
			if name == "" {
				continue
			}
			capabilities[name] = types.Capability{
				Type:       types.CapabilityTypeBinary,
				ValueOn:    e.ValueOn,
				ValueOff:   e.ValueOff,
				Complexity: classify(name),
			}

		default:
			log.Debug("skipping unknown expose type", "type", e.Type, "name", e.Name)
		}
	}

	return capabilities
}

func featureName(e Expose) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Property
}

// MapName converts a hub-native name to snake_case, consulting the alias
// table first.
func MapName(name string) string {
	if mapped, ok := aliases[name]; ok {
		return mapped
	}

	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

var (
	advancedMarkers = []string{"effect", "transition", "calibration"}
	mediumMarkers   = []string{"timer", "delay", "threshold"}
)

func classify(names ...string) string {
	complexity := types.ComplexityEasy

	for _, name := range names {
		for _, marker := range advancedMarkers {
			if strings.Contains(name, marker) {
				return types.ComplexityAdvanced
			}
		}
		for _, marker := range mediumMarkers {
			if strings.Contains(name, marker) {
				complexity = types.ComplexityMedium
			}
		}
	}

	return complexity
}
