package patterns

import (
	"context"
	"fmt"
	"sort"

	"github.com/homelab-tools/home-intel/pkg/types"
)

type durationDetector struct {
	opts Options
}

func NewDurationDetector(opts Options) Detector {
	return &durationDetector{opts: opts.withDefaults(5, 0.5)}
}

func (d *durationDetector) Type() string {
	return types.PatternTypeDuration
}

func (d *durationDetector) Detect(_ context.Context, events []types.EnrichedEvent) ([]types.Pattern, error) {
	type group struct {
		durations []float64
		events    []types.EnrichedEvent
	}

	// keyed by entity and the state the duration was measured for; a
	// duration belongs to the state the entity just left
	groups := map[string]*group{}

	for _, e := range events {
		if e.DurationInState == nil || e.Previous == nil {
			continue
		}

		key := e.EntityID + "|" + fmt.Sprint(e.Previous)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
		}
		g.durations = append(g.durations, *e.DurationInState)
		g.events = append(g.events, e)
	}

	var out []types.Pattern

	for key, g := range groups {
		if len(g.durations) < d.opts.MinOccurrences {
			continue
		}

		avg := mean(g.durations)
		v := variance(g.durations)

		min, max := g.durations[0], g.durations[0]
		for _, dur := range g.durations[1:] {
			if dur < min {
				min = dur
			}
			if dur > max {
				max = dur
			}
		}

		confidence := 1.0 - normalizedVariance(v, avg)
		if confidence < d.opts.MinConfidence {
			continue
		}

		first, last := seenRange(g.events)

		out = append(out, types.Pattern{
			PatternID:   patternID(types.PatternTypeDuration, key),
			PatternType: types.PatternTypeDuration,
			DeviceID:    g.events[0].EntityID,
			Confidence:  confidence,
			Occurrences: len(g.durations),
			Metadata: map[string]any{
				"state":                fmt.Sprint(g.events[0].Previous),
				"avg_duration_seconds": avg,
				"min_duration_seconds": min,
				"max_duration_seconds": max,
				"variance":             v,
			},
			FirstSeen: first,
			LastSeen:  last,
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

// normalizedVariance is the squared coefficient of variation clamped to
// [0,1], so perfectly regular durations score confidence 1.0 and noisy
// ones fall toward 0.
func normalizedVariance(v, avg float64) float64 {
	if avg <= 0 {
		return 1.0
	}
	nv := v / (avg * avg)
	if nv > 1.0 {
		return 1.0
	}
	return nv
}
