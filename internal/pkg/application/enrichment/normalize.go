package enrichment

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/pkg/types"
)

var entityIDPattern = regexp.MustCompile(`^[a-z0-9_]+\.[a-z0-9_]+$`)

// booleanTokens is matched case-insensitively before any numeric parse.
var booleanTokens = map[string]bool{
	"on": true, "off": false,
	"true": true, "false": false,
	"1": true, "0": false,
	"yes": true, "no": false,
	"enabled": true, "disabled": false,
}

// preservedTokens pass through coercion untouched. "unavailable" and
// "unknown" are states, not values.
var preservedTokens = map[string]struct{}{
	"unavailable": {},
	"unknown":     {},
}

var unitAliases = map[string]string{
	"°C":    "celsius",
	"°F":    "fahrenheit",
	"K":     "kelvin",
	"hPa":   "hectopascal",
	"mbar":  "hectopascal",
	"kPa":   "kilopascal",
	"%":     "percent",
	"W":     "watt",
	"kW":    "kilowatt",
	"Wh":    "watt_hour",
	"kWh":   "kilowatt_hour",
	"V":     "volt",
	"A":     "ampere",
	"lx":    "lux",
	"lm":    "lumen",
	"µg/m³": "micrograms_per_cubic_meter",
	"ppm":   "parts_per_million",
	"km/h":  "kilometers_per_hour",
	"m/s":   "meters_per_second",
	"mph":   "miles_per_hour",
	"mm":    "millimeter",
	"in":    "inch",
	"s":     "second",
	"min":   "minute",
	"h":     "hour",
}

// allow-listed attributes copied into entity metadata when the registry has
// no entry for the entity
var metadataAttributes = []string{"device_class", "friendly_name", "icon", "entity_category"}

type Normalizer struct {
	caps capabilities.Store
	clk  clock.Clock

	// lastFired backs the per-entity monotonicity check. Violations are
	// logged, never rejected.
	lastFired map[string]time.Time
}

func NewNormalizer(caps capabilities.Store, clk clock.Clock) *Normalizer {
	return &Normalizer{
		caps:      caps,
		clk:       clk,
		lastFired: map[string]time.Time{},
	}
}

// Normalize validates a raw hub event and produces its normalized form.
// The returned ValidationResult is always populated; the event is only
// usable when result.IsValid is true.
func (n *Normalizer) Normalize(ctx context.Context, e types.Event) (types.NormalizedEvent, ValidationResult) {
	started := n.clk.Now()

	res := ValidationResult{IsValid: true}

	entityID := e.EntityID
	if entityID == "" && e.NewState != nil {
		entityID = e.NewState.EntityID
	}

	if e.EventType == "" {
		res.addError(ErrClassMissingField, "event_type", "event_type is required")
	}
	if entityID == "" {
		res.addError(ErrClassMissingField, "entity_id", "new_state.entity_id is required")
	} else if err := validateEntityID(entityID); err != nil {
		res.addError(ErrClassInvalidFormat, "entity_id", err.Error())
	}

	domain := ""
	if i := strings.IndexByte(entityID, '.'); i > 0 {
		domain = entityID[:i]
	}
	res.Domain = domain

	fired, synthetic, err := n.resolveTimestamp(e)
	if err != nil {
		res.addError(ErrClassTimestamp, "time_fired", err.Error())
	}

	if !res.IsValid {
		res.ValidationTime = n.clk.Now().Sub(started)
		return types.NormalizedEvent{}, res
	}

	if last, ok := n.lastFired[entityID]; ok && fired.Before(last) {
		res.addWarning(ErrClassTimestamp, "time_fired", "out of order for entity")
		logging.GetFromContext(ctx).Warn("time_fired regression", "entity_id", entityID, "fired", fired, "last", last)
	} else {
		n.lastFired[entityID] = fired
	}

	norm := types.NormalizedEvent{
		EventType:          e.EventType,
		TimeFired:          fired,
		EntityID:           entityID,
		Domain:             domain,
		Context:            e.Context,
		SyntheticTimestamp: synthetic,
	}

	if e.NewState != nil {
		norm.State = CoerceState(e.NewState.State)
		norm.Attrs = canonicalizeUnits(e.NewState.Attributes)
	}
	if e.OldState != nil {
		norm.Previous = CoerceState(e.OldState.State)
	}

	norm.Metadata = n.extractMetadata(entityID, domain, norm.Attrs)

	res.ValidationTime = n.clk.Now().Sub(started)
	return norm, res
}

func validateEntityID(id string) error {
	if !entityIDPattern.MatchString(id) {
		return fmt.Errorf("%q does not match domain.name form", id)
	}

	domain, name, _ := strings.Cut(id, ".")
	if strings.HasSuffix(domain, "_") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("%q has a trailing underscore", id)
	}

	return nil
}

// resolveTimestamp applies the timestamp rule: explicit offsets are
// converted to UTC, naive timestamps are assumed UTC, absent timestamps
// fall back to the receive time and flag the event as synthetic.
func (n *Normalizer) resolveTimestamp(e types.Event) (time.Time, bool, error) {
	raw := e.TimeFired
	if raw == "" && e.NewState != nil {
		raw = e.NewState.LastUpdated
	}

	if raw == "" {
		received := e.ReceivedAt
		if received.IsZero() {
			received = n.clk.Now()
		}
		return received.UTC(), true, nil
	}

	t, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func ParseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// CoerceState maps boolean tokens to bool and pure numerics to float64.
// Already-typed values and preserved tokens come back unchanged, which
// keeps coercion idempotent.
func CoerceState(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	lower := strings.ToLower(strings.TrimSpace(s))

	if _, preserved := preservedTokens[lower]; preserved {
		return s
	}
	if b, ok := booleanTokens[lower]; ok {
		return b
	}
	if f, err := strconv.ParseFloat(lower, 64); err == nil {
		return f
	}

	return s
}

func canonicalizeUnits(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}

	unit, ok := attrs["unit_of_measurement"].(string)
	if !ok {
		return attrs
	}

	canonical, ok := unitAliases[unit]
	if !ok {
		return attrs
	}

	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	out["unit_of_measurement"] = canonical

	return out
}

func (n *Normalizer) extractMetadata(entityID, domain string, attrs map[string]any) types.EntityMetadata {
	meta := types.EntityMetadata{Domain: domain}

	if n.caps != nil {
		if m, ok := n.caps.EntityMetadata(entityID); ok {
			meta = m
			meta.Domain = domain
		}
	}

	for _, key := range metadataAttributes {
		v, ok := attrs[key].(string)
		if !ok || v == "" {
			continue
		}
		switch key {
		case "device_class":
			if meta.DeviceClass == "" {
				meta.DeviceClass = v
			}
		case "friendly_name":
			if meta.FriendlyName == "" {
				meta.FriendlyName = v
			}
		case "icon":
			if meta.Icon == "" {
				meta.Icon = v
			}
		case "entity_category":
			if meta.EntityCategory == "" {
				meta.EntityCategory = v
			}
		}
	}

	return meta
}
