package patterns

import (
	"context"
	"testing"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

func TestFrequencySpikeIsAnomalous(t *testing.T) {
	is := is.New(t)

	// one event at 03:00 most nights, then fifty in one night
	var evts []types.EnrichedEvent
	for day := 0; day < 19; day++ {
		evts = append(evts, eventAt("binary_sensor.motion_yard", time.Date(2026, 2, 1+day, 3, 0, 0, 0, time.UTC)))
	}
	for i := 0; i < 50; i++ {
		evts = append(evts, eventAt("binary_sensor.motion_yard", time.Date(2026, 2, 20, 3, i%60, 0, 0, time.UTC)))
	}

	found, err := NewAnomalyDetector(Options{}, 3.0).Detect(context.Background(), evts)
	is.NoErr(err)

	is.Equal(len(found), 1)
	p := found[0]
	is.Equal(p.PatternType, types.PatternTypeAnomaly)
	is.Equal(p.DeviceID, "binary_sensor.motion_yard")
	is.Equal(p.Metadata["anomaly_type"], "frequency_spike")
	is.Equal(p.Metadata["hour"], 3)
	is.Equal(p.Metadata["severity"], "high")
	is.True(p.Confidence >= 0.5 && p.Confidence <= 1.0)
}

func TestSteadyActivityIsNotAnomalous(t *testing.T) {
	is := is.New(t)

	var evts []types.EnrichedEvent
	for day := 0; day < 10; day++ {
		evts = append(evts, eventAt("light.kitchen", time.Date(2026, 2, 1+day, 7, 0, 0, 0, time.UTC)))
	}

	found, err := NewAnomalyDetector(Options{}, 3.0).Detect(context.Background(), evts)
	is.NoErr(err)
	is.Equal(len(found), 0)
}

func TestSingleDayHasNoBaseline(t *testing.T) {
	is := is.New(t)

	var evts []types.EnrichedEvent
	for i := 0; i < 50; i++ {
		evts = append(evts, eventAt("light.kitchen", time.Date(2026, 2, 1, 7, i%60, 0, 0, time.UTC)))
	}

	found, err := NewAnomalyDetector(Options{}, 3.0).Detect(context.Background(), evts)
	is.NoErr(err)
	is.Equal(len(found), 0)
}
