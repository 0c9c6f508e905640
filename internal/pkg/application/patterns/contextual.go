package patterns

import (
	"context"
	"sort"

	"github.com/homelab-tools/home-intel/pkg/types"
)

// weighting of the three context dimensions in the blended confidence
const (
	weightWeather  = 0.3
	weightPresence = 0.4
	weightTime     = 0.3
)

type contextualDetector struct {
	opts Options
}

func NewContextualDetector(opts Options) Detector {
	return &contextualDetector{opts: opts.withDefaults(5, 0.5)}
}

func (d *contextualDetector) Type() string {
	return types.PatternTypeContextual
}

type contextCounts struct {
	total    int
	weather  map[string]int
	presence map[string]int
	timeBin  map[string]int
}

func (d *contextualDetector) Detect(_ context.Context, events []types.EnrichedEvent) ([]types.Pattern, error) {
	perEntity := map[string]*contextCounts{}
	grouped := map[string][]types.EnrichedEvent{}

	for _, e := range events {
		c, ok := perEntity[e.EntityID]
		if !ok {
			c = &contextCounts{weather: map[string]int{}, presence: map[string]int{}, timeBin: map[string]int{}}
			perEntity[e.EntityID] = c
		}
		c.total++
		c.weather[weatherBin(e)]++
		c.presence[presenceBin(e)]++
		c.timeBin[timeBin(e)]++

		key := e.EntityID + "|" + contextKey(e)
		grouped[key] = append(grouped[key], e)
	}

	var out []types.Pattern

	for key, group := range grouped {
		if len(group) < d.opts.MinOccurrences {
			continue
		}

		e := group[0]
		c := perEntity[e.EntityID]

		fWeather := float64(c.weather[weatherBin(e)]) / float64(c.total)
		fPresence := float64(c.presence[presenceBin(e)]) / float64(c.total)
		fTime := float64(c.timeBin[timeBin(e)]) / float64(c.total)

		confidence := weightWeather*fWeather + weightPresence*fPresence + weightTime*fTime
		if confidence < d.opts.MinConfidence {
			continue
		}

		first, last := seenRange(group)

		out = append(out, types.Pattern{
			PatternID:   patternID(types.PatternTypeContextual, key),
			PatternType: types.PatternTypeContextual,
			DeviceID:    e.EntityID,
			Confidence:  confidence,
			Occurrences: len(group),
			Metadata: map[string]any{
				"context_key":        contextKey(e),
				"weather":            weatherBin(e),
				"presence":           presenceBin(e),
				"time_bucket":        timeBin(e),
				"weather_frequency":  fWeather,
				"presence_frequency": fPresence,
				"time_frequency":     fTime,
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

func contextKey(e types.EnrichedEvent) string {
	return weatherBin(e) + "|" + presenceBin(e) + "|" + timeBin(e)
}

func weatherBin(e types.EnrichedEvent) string {
	if e.Weather == nil || e.Weather.Condition == "" {
		return "unknown"
	}
	return e.Weather.Condition
}

func presenceBin(e types.EnrichedEvent) string {
	switch {
	case e.Occupancy == nil:
		return "unknown"
	case e.Occupancy.IsWFH:
		return "wfh"
	case e.Occupancy.IsHome:
		return "home"
	case e.Occupancy.IsAway:
		return "away"
	default:
		return "unknown"
	}
}

func timeBin(e types.EnrichedEvent) string {
	switch h := e.TimeFired.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 22:
		return "evening"
	default:
		return "night"
	}
}
