package patterns

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/homelab-tools/home-intel/pkg/types"
)

const defaultZScoreThreshold = 3.0

type anomalyDetector struct {
	opts      Options
	threshold float64
}

// NewAnomalyDetector scores per-hour activity against each entity's own
// baseline. A day-hour bucket whose event count deviates from the baseline
// by more than the z-score threshold becomes an anomaly pattern.
func NewAnomalyDetector(opts Options, threshold float64) Detector {
	if threshold <= 0 {
		threshold = defaultZScoreThreshold
	}
	return &anomalyDetector{opts: opts.withDefaults(3, 0.5), threshold: threshold}
}

func (d *anomalyDetector) Type() string {
	return types.PatternTypeAnomaly
}

func (d *anomalyDetector) Detect(_ context.Context, events []types.EnrichedEvent) ([]types.Pattern, error) {
	var out []types.Pattern

	for entityID, group := range groupByEntity(events) {
		if len(group) < d.opts.MinOccurrences {
			continue
		}

		// event counts per (day, hour) bucket
		buckets := map[string]int{}
		hourCounts := map[int][]float64{}

		for _, e := range group {
			buckets[fmt.Sprintf("%s|%02d", e.TimeFired.Format("2006-01-02"), e.TimeFired.Hour())]++
		}

		days := map[string]struct{}{}
		for key := range buckets {
			days[key[:10]] = struct{}{}
		}
		if len(days) < 2 {
			continue // no baseline to deviate from
		}

		for key, count := range buckets {
			var hour int
			fmt.Sscanf(key[11:], "%d", &hour)
			hourCounts[hour] = append(hourCounts[hour], float64(count))
		}

		// hours with no events on some days count as zero there
		for hour, counts := range hourCounts {
			for len(counts) < len(days) {
				counts = append(counts, 0)
			}
			hourCounts[hour] = counts
		}

		first, last := seenRange(group)

		for hour, counts := range hourCounts {
			m := mean(counts)
			sd := math.Sqrt(variance(counts))
			if sd == 0 {
				continue
			}

			peak := counts[0]
			for _, c := range counts[1:] {
				if c > peak {
					peak = c
				}
			}

			z := (peak - m) / sd
			if z < d.threshold {
				continue
			}

			severity := "medium"
			if z >= d.threshold+1 {
				severity = "high"
			}

			score := 1 - 1/z // asymptotically approaches 1 as deviation grows

			out = append(out, types.Pattern{
				PatternID:   patternID(types.PatternTypeAnomaly, entityID, fmt.Sprintf("%02d", hour)),
				PatternType: types.PatternTypeAnomaly,
				DeviceID:    entityID,
				Confidence:  score,
				Occurrences: len(counts),
				Metadata: map[string]any{
					"anomaly_type":       "frequency_spike",
					"hour":               hour,
					"score":              z,
					"baseline_deviation": peak - m,
					"severity":           severity,
				},
				FirstSeen: first,
				LastSeen:  last,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].PatternID < out[j].PatternID
	})

	return out, nil
}
