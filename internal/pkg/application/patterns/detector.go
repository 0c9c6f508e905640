package patterns

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
)

// Detector mines one pattern type from a window of enriched events. The
// input slice is sorted by time_fired before any detector sees it.
type Detector interface {
	Type() string
	Detect(ctx context.Context, events []types.EnrichedEvent) ([]types.Pattern, error)
}

type Options struct {
	MinOccurrences int     `yaml:"minoccurrences"`
	MinConfidence  float64 `yaml:"minconfidence"`
}

func (o Options) withDefaults(minOccurrences int, minConfidence float64) Options {
	if o.MinOccurrences <= 0 {
		o.MinOccurrences = minOccurrences
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = minConfidence
	}
	return o
}

// Stats is reported per detector run and logged by the scheduler.
type Stats struct {
	Detector         string        `json:"detector"`
	TotalPatterns    int           `json:"totalPatterns"`
	EventsExamined   int           `json:"eventsExamined"`
	ProcessingTimeMS time.Duration `json:"processingTimeMs"`
}

func patternID(patternType string, parts ...string) string {
	id := patternType
	for _, p := range parts {
		id += ":" + p
	}
	return id
}

func sortEvents(events []types.EnrichedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TimeFired.Before(events[j].TimeFired)
	})
}

// sortedEvents returns a time-ordered copy. Detectors run concurrently
// over the same snapshot, so they must never reorder the shared slice.
func sortedEvents(events []types.EnrichedEvent) []types.EnrichedEvent {
	out := make([]types.EnrichedEvent, len(events))
	copy(out, events)
	sortEvents(out)
	return out
}

func groupByEntity(events []types.EnrichedEvent) map[string][]types.EnrichedEvent {
	groups := map[string][]types.EnrichedEvent{}
	for _, e := range events {
		groups[e.EntityID] = append(groups[e.EntityID], e)
	}
	return groups
}

func seenRange(events []types.EnrichedEvent) (first, last time.Time) {
	if len(events) == 0 {
		return
	}
	first, last = events[0].TimeFired, events[0].TimeFired
	for _, e := range events[1:] {
		if e.TimeFired.Before(first) {
			first = e.TimeFired
		}
		if e.TimeFired.After(last) {
			last = e.TimeFired
		}
	}
	return
}

func hourDecimal(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

func formatClock(decimal float64) string {
	h := int(decimal)
	m := int((decimal - float64(h)) * 60)
	return fmt.Sprintf("%02d:%02d", h, m)
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func variance(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	m := mean(vs)
	var sum float64
	for _, v := range vs {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vs))
}
