package patterns

import (
	"context"
	"sort"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
)

const (
	defaultCoOccurrenceWindow = 5 * time.Minute

	// sampleCeiling bounds the quadratic pair scan. Larger inputs are
	// downsampled uniformly, preserving per-entity ratios.
	sampleCeiling = 10_000
)

type coOccurrenceDetector struct {
	opts   Options
	window time.Duration
}

func NewCoOccurrenceDetector(opts Options, window time.Duration) Detector {
	if window <= 0 {
		window = defaultCoOccurrenceWindow
	}
	return &coOccurrenceDetector{opts: opts.withDefaults(3, 0.5), window: window}
}

func (d *coOccurrenceDetector) Type() string {
	return types.PatternTypeCoOccurrence
}

type pairStats struct {
	count    int
	sumDelta float64
	first    time.Time
	last     time.Time
}

func (d *coOccurrenceDetector) Detect(_ context.Context, events []types.EnrichedEvent) ([]types.Pattern, error) {
	events = sortedEvents(sampleEvents(events, sampleCeiling))

	freq := map[string]int{}
	for _, e := range events {
		freq[e.EntityID]++
	}

	pairs := map[[2]string]*pairStats{}

	for i, a := range events {
		for j := i + 1; j < len(events); j++ {
			b := events[j]

			delta := b.TimeFired.Sub(a.TimeFired)
			if delta > d.window {
				break
			}
			if a.EntityID == b.EntityID {
				continue
			}

			key := [2]string{a.EntityID, b.EntityID}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}

			s, ok := pairs[key]
			if !ok {
				s = &pairStats{first: a.TimeFired}
				pairs[key] = s
			}
			s.count++
			s.sumDelta += delta.Seconds()
			s.last = b.TimeFired
		}
	}

	var out []types.Pattern

	for key, s := range pairs {
		if s.count < d.opts.MinOccurrences {
			continue
		}

		lower := freq[key[0]]
		if freq[key[1]] < lower {
			lower = freq[key[1]]
		}
		if lower == 0 {
			continue
		}

		confidence := float64(s.count) / float64(lower)
		if confidence > 1.0 {
			confidence = 1.0
		}
		if confidence < d.opts.MinConfidence {
			continue
		}

		out = append(out, types.Pattern{
			PatternID:   patternID(types.PatternTypeCoOccurrence, key[0], key[1]),
			PatternType: types.PatternTypeCoOccurrence,
			DevicePair:  []string{key[0], key[1]},
			Confidence:  confidence,
			Occurrences: s.count,
			Metadata: map[string]any{
				"avg_time_delta_seconds": s.sumDelta / float64(s.count),
				"window_seconds":         d.window.Seconds(),
			},
			FirstSeen: s.first,
			LastSeen:  s.last,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].PatternID < out[j].PatternID
	})

	return out, nil
}

// sampleEvents keeps every k-th event per entity so that each entity's
// share of the sample matches its share of the input.
func sampleEvents(events []types.EnrichedEvent, ceiling int) []types.EnrichedEvent {
	if len(events) <= ceiling {
		return events
	}

	stride := (len(events) + ceiling - 1) / ceiling

	kept := make([]types.EnrichedEvent, 0, ceiling)
	seen := map[string]int{}
	for _, e := range events {
		if seen[e.EntityID]%stride == 0 {
			kept = append(kept, e)
		}
		seen[e.EntityID]++
	}
	return kept
}
