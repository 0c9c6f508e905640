package patterns

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
)

const (
	defaultSequenceWindow = 30 * time.Minute
	maxSequenceLength     = 5
)

type sequenceDetector struct {
	opts   Options
	window time.Duration
}

func NewSequenceDetector(opts Options, window time.Duration) Detector {
	if window <= 0 {
		window = defaultSequenceWindow
	}
	return &sequenceDetector{opts: opts.withDefaults(3, 0.5), window: window}
}

func (d *sequenceDetector) Type() string {
	return types.PatternTypeSequence
}

type seqStats struct {
	count int
	first time.Time
	last  time.Time
}

func (d *sequenceDetector) Detect(_ context.Context, events []types.EnrichedEvent) ([]types.Pattern, error) {
	events = sortedEvents(events)

	counts := map[string]*seqStats{}

	// each event anchors one window; every prefix of the window's entity
	// chain is counted, so count(prefix) doubles as the denominator for
	// the longer sequences built on it
	for i, anchor := range events {
		chain := []string{anchor.EntityID}

		for j := i + 1; j < len(events) && len(chain) < maxSequenceLength; j++ {
			if events[j].TimeFired.Sub(anchor.TimeFired) > d.window {
				break
			}
			if events[j].EntityID == chain[len(chain)-1] {
				continue
			}
			chain = append(chain, events[j].EntityID)
		}

		for n := 1; n <= len(chain); n++ {
			key := strings.Join(chain[:n], "→")
			s, ok := counts[key]
			if !ok {
				s = &seqStats{first: anchor.TimeFired}
				counts[key] = s
			}
			s.count++
			s.last = anchor.TimeFired
		}
	}

	var out []types.Pattern

	for key, s := range counts {
		steps := strings.Split(key, "→")
		if len(steps) < 2 {
			continue
		}
		if s.count < d.opts.MinOccurrences {
			continue
		}

		prefix := counts[strings.Join(steps[:len(steps)-1], "→")]
		if prefix == nil || prefix.count == 0 {
			continue
		}

		confidence := float64(s.count) / float64(prefix.count)
		if confidence < d.opts.MinConfidence {
			continue
		}

		out = append(out, types.Pattern{
			PatternID:   patternID(types.PatternTypeSequence, steps...),
			PatternType: types.PatternTypeSequence,
			Sequence:    steps,
			Confidence:  confidence,
			Occurrences: s.count,
			Metadata: map[string]any{
				"length":         len(steps),
				"window_minutes": d.window.Minutes(),
			},
			FirstSeen: s.first,
			LastSeen:  s.last,
		})
	}

	// longer sequence wins among equal confidence
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if len(out[i].Sequence) != len(out[j].Sequence) {
			return len(out[i].Sequence) > len(out[j].Sequence)
		}
		return out[i].PatternID < out[j].PatternID
	})

	return out, nil
}
