package patterns

import (
	"context"
	"math"
	"sort"

	"github.com/homelab-tools/home-intel/pkg/types"
)

// mergeGapHours collapses k-means clusters whose centroids sit closer than
// this. Over-segmented tight clusters would otherwise split a single daily
// habit into two half-confidence patterns.
const mergeGapHours = 0.5

type timeOfDayDetector struct {
	opts Options
}

func NewTimeOfDayDetector(opts Options) Detector {
	return &timeOfDayDetector{opts: opts.withDefaults(5, 0.5)}
}

func (d *timeOfDayDetector) Type() string {
	return types.PatternTypeTimeOfDay
}

func (d *timeOfDayDetector) Detect(_ context.Context, events []types.EnrichedEvent) ([]types.Pattern, error) {
	var out []types.Pattern

	for entityID, group := range groupByEntity(events) {
		if len(group) < d.opts.MinOccurrences {
			continue
		}

		times := make([]float64, 0, len(group))
		for _, e := range group {
			times = append(times, hourDecimal(e.TimeFired))
		}
		sort.Float64s(times)

		clusters := cluster1D(times, clusterCount(len(times)))
		clusters = mergeClose(clusters, mergeGapHours)

		first, last := seenRange(group)

		for i, c := range clusters {
			confidence := float64(len(c)) / float64(len(times))
			if confidence < d.opts.MinConfidence || len(c) < d.opts.MinOccurrences {
				continue
			}

			avg := mean(c)
			stdMinutes := math.Sqrt(variance(c)) * 60
			hour := int(avg)
			minute := int((avg - float64(hour)) * 60)

			out = append(out, types.Pattern{
				PatternID:   patternID(types.PatternTypeTimeOfDay, entityID, formatClock(avg)),
				PatternType: types.PatternTypeTimeOfDay,
				DeviceID:    entityID,
				Confidence:  confidence,
				Occurrences: len(c),
				Metadata: map[string]any{
					"hour":             hour,
					"minute":           minute,
					"cluster_id":       i,
					"std_minutes":      stdMinutes,
					"time_range":       formatClock(c[0]) + "-" + formatClock(c[len(c)-1]),
					"avg_time_decimal": avg,
				},
				FirstSeen: first,
				LastSeen:  last,
			})
		}
	}

	sortPatterns(out)
	return out, nil
}

// clusterCount scales k with sample size: one habit slot for small data,
// up to three for rich data.
func clusterCount(n int) int {
	switch {
	case n < 15:
		return 1
	case n < 21:
		return 2
	default:
		return 3
	}
}

// cluster1D runs k-means on sorted one-dimensional samples. Centroids are
// seeded at quantiles, which keeps the result deterministic.
func cluster1D(sorted []float64, k int) [][]float64 {
	if k <= 1 || len(sorted) <= k {
		return [][]float64{sorted}
	}

	centroids := make([]float64, k)
	for i := range centroids {
		centroids[i] = sorted[(2*i+1)*len(sorted)/(2*k)]
	}

	assignments := make([]int, len(sorted))

	for iter := 0; iter < 100; iter++ {
		changed := false

		for i, v := range sorted {
			best, bestDist := 0, math.Abs(v-centroids[0])
			for j := 1; j < k; j++ {
				if dist := math.Abs(v - centroids[j]); dist < bestDist {
					best, bestDist = j, dist
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		sums := make([]float64, k)
		counts := make([]int, k)
		for i, v := range sorted {
			sums[assignments[i]] += v
			counts[assignments[i]]++
		}
		for j := range centroids {
			if counts[j] > 0 {
				centroids[j] = sums[j] / float64(counts[j])
			}
		}

		if !changed {
			break
		}
	}

	clusters := make([][]float64, k)
	for i, v := range sorted {
		clusters[assignments[i]] = append(clusters[assignments[i]], v)
	}

	out := clusters[:0]
	for _, c := range clusters {
		if len(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func mergeClose(clusters [][]float64, gap float64) [][]float64 {
	if len(clusters) < 2 {
		return clusters
	}

	sort.Slice(clusters, func(i, j int) bool { return mean(clusters[i]) < mean(clusters[j]) })

	merged := [][]float64{clusters[0]}
	for _, c := range clusters[1:] {
		last := merged[len(merged)-1]
		if mean(c)-mean(last) < gap {
			merged[len(merged)-1] = append(last, c...)
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

// sortPatterns orders by confidence, then lower variance, then earlier
// hour, so callers can rely on a stable winner among ties.
func sortPatterns(ps []types.Pattern) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Confidence != ps[j].Confidence {
			return ps[i].Confidence > ps[j].Confidence
		}
		vi, _ := ps[i].Metadata["std_minutes"].(float64)
		vj, _ := ps[j].Metadata["std_minutes"].(float64)
		if vi != vj {
			return vi < vj
		}
		hi, _ := ps[i].Metadata["hour"].(int)
		hj, _ := ps[j].Metadata["hour"].(int)
		return hi < hj
	})
}
