package timeseries

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
)

const defaultQueryTimeout = 30 * time.Second

//go:generate moq -rm -out reader_mock.go . EventReader
type EventReader interface {
	// QueryEvents returns enriched events with time_fired in [start, stop),
	// sorted ascending. Events written into the window after the query ran
	// are not visible; detector jobs rely on this snapshot behavior.
	QueryEvents(ctx context.Context, start, stop time.Time) ([]types.EnrichedEvent, error)
}

type reader struct {
	cfg    Config
	client *http.Client
}

func NewReader(cfg Config) EventReader {
	return &reader{
		cfg:    cfg,
		client: &http.Client{Timeout: defaultQueryTimeout},
	}
}

func (r *reader) QueryEvents(ctx context.Context, start, stop time.Time) ([]types.EnrichedEvent, error) {
	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
`, r.cfg.Bucket, start.UTC().Format(time.RFC3339), stop.UTC().Format(time.RFC3339), MeasurementEvents)

	u := fmt.Sprintf("%s/api/v2/query?org=%s", r.cfg.URL, r.cfg.Org)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(flux))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Token "+r.cfg.Token)
	req.Header.Set("Content-Type", "application/vnd.flux")
	req.Header.Set("Accept", "application/csv")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetryable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("query failed with status %d: %s", resp.StatusCode, string(b))
	}

	events, err := decodeEventCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].TimeFired.Before(events[j].TimeFired)
	})

	return events, nil
}

// decodeEventCSV parses the annotated CSV stream the query endpoint
// returns. Annotation rows start with '#'; header rows repeat per table.
func decodeEventCSV(body io.Reader) ([]types.EnrichedEvent, error) {
	cr := csv.NewReader(body)
	cr.FieldsPerRecord = -1

	events := make([]types.EnrichedEvent, 0)
	var header map[string]int

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) == 0 || strings.HasPrefix(record[0], "#") {
			continue
		}

		if isHeaderRow(record) {
			header = map[string]int{}
			for i, col := range record {
				header[col] = i
			}
			continue
		}

		if header == nil {
			continue
		}

		e, ok := eventFromRecord(header, record)
		if ok {
			events = append(events, e)
		}
	}

	return events, nil
}

func isHeaderRow(record []string) bool {
	for _, col := range record {
		if col == "_time" {
			return true
		}
	}
	return false
}

func eventFromRecord(header map[string]int, record []string) (types.EnrichedEvent, bool) {
	col := func(name string) string {
		i, ok := header[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	ts, err := time.Parse(time.RFC3339, col("_time"))
	if err != nil {
		return types.EnrichedEvent{}, false
	}

	e := types.EnrichedEvent{
		NormalizedEvent: types.NormalizedEvent{
			EventType: col("event_type"),
			TimeFired: ts.UTC(),
			EntityID:  col("entity_id"),
			Domain:    col("domain"),
			State:     coerceCSV(col("state")),
			Previous:  coerceCSV(col("previous_state")),
			Metadata: types.EntityMetadata{
				Domain:      col("domain"),
				DeviceClass: col("device_class"),
				AreaID:      col("area_id"),
				DeviceID:    col("device_id"),
			},
		},
	}

	if e.EntityID == "" {
		return types.EnrichedEvent{}, false
	}

	if attrs := col("attributes"); attrs != "" {
		json.Unmarshal([]byte(attrs), &e.Attrs)
	}

	if d := col("duration_in_state_seconds"); d != "" {
		if f, err := strconv.ParseFloat(d, 64); err == nil {
			e.DurationInState = &f
		}
	}

	if cond := col("weather_condition"); cond != "" {
		w := &types.WeatherInfo{Condition: cond, Location: col("location")}
		w.Temperature, _ = strconv.ParseFloat(col("weather_temperature"), 64)
		w.Humidity, _ = strconv.ParseFloat(col("weather_humidity"), 64)
		w.Pressure, _ = strconv.ParseFloat(col("weather_pressure"), 64)
		w.WindSpeed, _ = strconv.ParseFloat(col("weather_wind_speed"), 64)
		e.Weather = w
	}

	if h := col("occupancy_is_home"); h != "" {
		o := &types.Occupancy{
			IsHome: h == "true",
			IsWFH:  col("occupancy_is_wfh") == "true",
			IsAway: col("occupancy_is_away") == "true",
		}
		o.Confidence, _ = strconv.ParseFloat(col("occupancy_confidence"), 64)
		e.Occupancy = o
	}

	return e, true
}

func coerceCSV(s string) any {
	if s == "" {
		return nil
	}
	if s == "true" {
		return true
	}
	if s == "false" {
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
