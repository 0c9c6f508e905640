package patterns

import (
	"context"
	"testing"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

func TestEveningArrivalSequence(t *testing.T) {
	is := is.New(t)

	// door → hallway light → thermostat, every evening for a week
	var evts []types.EnrichedEvent
	for day := 0; day < 7; day++ {
		at := time.Date(2026, 2, 1+day, 17, 45, 0, 0, time.UTC)
		evts = append(evts,
			eventAt("binary_sensor.front_door", at),
			eventAt("light.hallway", at.Add(20*time.Second)),
			eventAt("climate.living_room", at.Add(2*time.Minute)),
		)
	}

	d := NewSequenceDetector(Options{MinOccurrences: 3, MinConfidence: 0.5}, 30*time.Minute)
	found, err := d.Detect(context.Background(), evts)
	is.NoErr(err)

	is.True(len(found) > 0)

	// the full three-step chain wins the sort: every door opening is
	// followed by the light and the thermostat
	full := found[0]
	is.Equal(full.PatternType, types.PatternTypeSequence)
	is.Equal(full.Sequence, []string{"binary_sensor.front_door", "light.hallway", "climate.living_room"})
	is.Equal(full.Occurrences, 7)
	is.Equal(full.Confidence, 1.0)
}

func TestInconsistentFollowupLowersConfidence(t *testing.T) {
	is := is.New(t)

	var evts []types.EnrichedEvent
	for day := 0; day < 10; day++ {
		at := time.Date(2026, 2, 1+day, 17, 45, 0, 0, time.UTC)
		evts = append(evts, eventAt("binary_sensor.front_door", at))
		if day%2 == 0 {
			evts = append(evts, eventAt("light.hallway", at.Add(20*time.Second)))
		}
	}

	d := NewSequenceDetector(Options{MinOccurrences: 3, MinConfidence: 0.4}, 30*time.Minute)
	found, err := d.Detect(context.Background(), evts)
	is.NoErr(err)

	is.Equal(len(found), 1)
	is.Equal(found[0].Occurrences, 5)
	is.Equal(found[0].Confidence, 0.5) // half the door windows continue to the light
}

func TestDetectLeavesSharedSnapshotUntouched(t *testing.T) {
	is := is.New(t)

	// the runner hands the same slice to every detector, so detection
	// must not reorder it even when the input arrives out of order
	base := time.Date(2026, 2, 1, 17, 45, 0, 0, time.UTC)
	evts := []types.EnrichedEvent{
		eventAt("light.hallway", base.Add(20*time.Second)),
		eventAt("binary_sensor.front_door", base),
		eventAt("climate.living_room", base.Add(2*time.Minute)),
	}
	order := func() []string {
		ids := make([]string, len(evts))
		for i, e := range evts {
			ids[i] = e.EntityID
		}
		return ids
	}
	before := order()

	seq := NewSequenceDetector(Options{MinOccurrences: 1, MinConfidence: 0.1}, 30*time.Minute)
	_, err := seq.Detect(context.Background(), evts)
	is.NoErr(err)
	is.Equal(order(), before)

	co := NewCoOccurrenceDetector(Options{MinOccurrences: 1, MinConfidence: 0.1}, 5*time.Minute)
	_, err = co.Detect(context.Background(), evts)
	is.NoErr(err)
	is.Equal(order(), before)
}

func TestSequenceWindowBoundary(t *testing.T) {
	is := is.New(t)

	var evts []types.EnrichedEvent
	for day := 0; day < 5; day++ {
		at := time.Date(2026, 2, 1+day, 17, 45, 0, 0, time.UTC)
		evts = append(evts,
			eventAt("binary_sensor.front_door", at),
			eventAt("light.hallway", at.Add(45*time.Minute)), // outside the window
		)
	}

	d := NewSequenceDetector(Options{MinOccurrences: 3, MinConfidence: 0.5}, 30*time.Minute)
	found, err := d.Detect(context.Background(), evts)
	is.NoErr(err)
	is.Equal(len(found), 0)
}
