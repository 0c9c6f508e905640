package timeseries

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
)

const (
	MeasurementEvents        = "home_assistant_events"
	MeasurementWeather       = "weather_data"
	MeasurementSports        = "sports_data"
	MeasurementSystemMetrics = "system_metrics"
)

// Retention windows for the buckets this service writes into, in days.
const (
	RetentionEventsDays        = 365
	RetentionWeatherDays       = 180
	RetentionSportsDays        = 90
	RetentionSystemMetricsDays = 30
)

var entityIDPattern = regexp.MustCompile(`^[a-z0-9_]+\.[a-z0-9_]+$`)

var ErrSchemaViolation = errors.New("point violates measurement schema")

// Point is a single measurement row. Tags are low-cardinality identity,
// fields carry the values.
type Point struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]any
	Timestamp   time.Time
}

// NewEventPoint builds exactly one point for an enriched event and enforces
// the measurement schema. A schema violation is fatal for the point.
func NewEventPoint(e types.EnrichedEvent) (Point, error) {
	if !entityIDPattern.MatchString(e.EntityID) {
		return Point{}, fmt.Errorf("%w: entity_id %q has invalid format", ErrSchemaViolation, e.EntityID)
	}

	if e.Domain == "" {
		return Point{}, fmt.Errorf("%w: missing domain tag", ErrSchemaViolation)
	}

	if e.State == nil {
		return Point{}, fmt.Errorf("%w: missing state field", ErrSchemaViolation)
	}

	tags := map[string]string{
		"entity_id":  e.EntityID,
		"domain":     e.Domain,
		"event_type": e.EventType,
	}

	if e.Metadata.DeviceClass != "" {
		tags["device_class"] = e.Metadata.DeviceClass
	}
	if e.Metadata.AreaID != "" {
		tags["area_id"] = e.Metadata.AreaID
	}
	if e.Metadata.DeviceID != "" {
		tags["device_id"] = e.Metadata.DeviceID
	}

	fields := map[string]any{
		"state": fieldValue(e.State),
	}

	if e.Previous != nil {
		fields["previous_state"] = fieldValue(e.Previous)
	}

	if len(e.Attrs) > 0 {
		attrs, err := json.Marshal(e.Attrs)
		if err == nil {
			fields["attributes"] = string(attrs)
		}

		for k, v := range e.Attrs {
			if f, ok := numeric(v); ok {
				fields["attr_"+k] = f
			}
		}
	}

	if e.Context.ID != "" {
		fields["context_id"] = e.Context.ID
	}
	if e.Context.ParentID != "" {
		fields["context_parent_id"] = e.Context.ParentID
	}
	if e.Context.UserID != "" {
		fields["context_user_id"] = e.Context.UserID
	}

	if e.Weather != nil {
		tags["weather_condition"] = e.Weather.Condition
		tags["location"] = e.Weather.Location
		fields["weather_temperature"] = e.Weather.Temperature
		fields["weather_humidity"] = e.Weather.Humidity
		fields["weather_pressure"] = e.Weather.Pressure
		fields["weather_wind_speed"] = e.Weather.WindSpeed
	}

	if e.Occupancy != nil {
		fields["occupancy_is_home"] = e.Occupancy.IsHome
		fields["occupancy_is_wfh"] = e.Occupancy.IsWFH
		fields["occupancy_is_away"] = e.Occupancy.IsAway
		fields["occupancy_confidence"] = e.Occupancy.Confidence
	}

	if e.DurationInState != nil {
		fields["duration_in_state_seconds"] = *e.DurationInState
	}

	return Point{
		Measurement: MeasurementEvents,
		Tags:        tags,
		Fields:      fields,
		Timestamp:   e.TimeFired,
	}, nil
}

// NewAggregatePoint renders a rollup into its period-suffixed measurement
// (home_assistant_events_daily, ..._weekly, ..._monthly).
func NewAggregatePoint(a types.Aggregate) (Point, error) {
	switch a.Period {
	case "daily", "weekly", "monthly":
	default:
		return Point{}, fmt.Errorf("%w: unknown aggregate period %q", ErrSchemaViolation, a.Period)
	}

	if len(a.Fields) == 0 {
		return Point{}, fmt.Errorf("%w: aggregate contains no fields", ErrSchemaViolation)
	}

	tags := map[string]string{}
	if a.EntityID != "" {
		tags["entity_id"] = a.EntityID
	}

	fields := map[string]any{}
	for k, v := range a.Fields {
		fields[k] = fieldValue(v)
	}

	return Point{
		Measurement: a.Measurement + "_" + a.Period,
		Tags:        tags,
		Fields:      fields,
		Timestamp:   a.Date,
	}, nil
}

// sortedTagKeys returns tag keys in lexical order, which the line protocol
// encoder requires.
func (p Point) sortedTagKeys() []string {
	keys := make([]string, 0, len(p.Tags))
	for k := range p.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p Point) sortedFieldKeys() []string {
	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fieldValue(v any) any {
	switch t := v.(type) {
	case bool, float64, int64, string:
		return t
	case int:
		return int64(t)
	case float32:
		return float64(t)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
