package patterns

import (
	"context"
	"testing"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

func TestMotionTriggersLight(t *testing.T) {
	is := is.New(t)

	// five motion→light pairs, 15-25 s apart, spread over a week
	var evts []types.EnrichedEvent
	for day := 0; day < 5; day++ {
		at := time.Date(2026, 2, 1+day, 18, 30, 0, 0, time.UTC)
		evts = append(evts, eventAt("binary_sensor.motion_hall", at))
		evts = append(evts, eventAt("light.hall", at.Add(time.Duration(15+2*day)*time.Second)))
	}

	d := NewCoOccurrenceDetector(Options{MinOccurrences: 3, MinConfidence: 0.5}, 5*time.Minute)
	found, err := d.Detect(context.Background(), evts)
	is.NoErr(err)

	is.Equal(len(found), 1)
	p := found[0]
	is.Equal(p.PatternType, types.PatternTypeCoOccurrence)
	is.Equal(p.DevicePair, []string{"binary_sensor.motion_hall", "light.hall"})
	is.Equal(p.Occurrences, 5)
	is.Equal(p.Confidence, 1.0)

	delta := p.Metadata["avg_time_delta_seconds"].(float64)
	is.True(delta >= 10 && delta <= 30)
}

func TestPairIdentityIsUnordered(t *testing.T) {
	is := is.New(t)

	var evts []types.EnrichedEvent
	for day := 0; day < 6; day++ {
		at := time.Date(2026, 2, 1+day, 8, 0, 0, 0, time.UTC)
		// direction alternates, identity must not
		if day%2 == 0 {
			evts = append(evts, eventAt("switch.fan", at), eventAt("light.bath", at.Add(10*time.Second)))
		} else {
			evts = append(evts, eventAt("light.bath", at), eventAt("switch.fan", at.Add(10*time.Second)))
		}
	}

	d := NewCoOccurrenceDetector(Options{MinOccurrences: 3, MinConfidence: 0.5}, 5*time.Minute)
	found, err := d.Detect(context.Background(), evts)
	is.NoErr(err)

	is.Equal(len(found), 1)
	is.Equal(found[0].DevicePair, []string{"light.bath", "switch.fan"})
	is.Equal(found[0].Occurrences, 6)
}

func TestBelowSupportIsNoPattern(t *testing.T) {
	is := is.New(t)

	var evts []types.EnrichedEvent
	for day := 0; day < 2; day++ {
		at := time.Date(2026, 2, 1+day, 8, 0, 0, 0, time.UTC)
		evts = append(evts, eventAt("switch.fan", at), eventAt("light.bath", at.Add(10*time.Second)))
	}

	d := NewCoOccurrenceDetector(Options{MinOccurrences: 3, MinConfidence: 0.5}, 5*time.Minute)
	found, err := d.Detect(context.Background(), evts)
	is.NoErr(err)
	is.Equal(len(found), 0)
}

func TestEventsOutsideWindowDoNotPair(t *testing.T) {
	is := is.New(t)

	var evts []types.EnrichedEvent
	for day := 0; day < 5; day++ {
		at := time.Date(2026, 2, 1+day, 8, 0, 0, 0, time.UTC)
		evts = append(evts, eventAt("switch.fan", at), eventAt("light.bath", at.Add(10*time.Minute)))
	}

	d := NewCoOccurrenceDetector(Options{MinOccurrences: 3, MinConfidence: 0.5}, 5*time.Minute)
	found, err := d.Detect(context.Background(), evts)
	is.NoErr(err)
	is.Equal(len(found), 0)
}

func TestSamplingPreservesPerEntityRatios(t *testing.T) {
	is := is.New(t)

	var evts []types.EnrichedEvent
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3000; i++ {
		evts = append(evts, eventAt("sensor.a", at.Add(time.Duration(i)*time.Minute)))
	}
	for i := 0; i < 1000; i++ {
		evts = append(evts, eventAt("sensor.b", at.Add(time.Duration(i)*time.Minute)))
	}

	kept := sampleEvents(evts, 1000)
	is.True(len(kept) <= 1004)

	counts := map[string]int{}
	for _, e := range kept {
		counts[e.EntityID]++
	}

	ratio := float64(counts["sensor.a"]) / float64(counts["sensor.b"])
	is.True(ratio > 2.5 && ratio < 3.5) // input ratio is 3:1
}
