package enrichment

import (
	"context"
	"sync"
	"testing"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/homelab-tools/home-intel/internal/pkg/application/calendar"
	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/application/weather"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/timeseries"
	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

type capturingWriter struct {
	mu     sync.Mutex
	points []timeseries.Point
}

func (w *capturingWriter) Write(_ context.Context, p timeseries.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = append(w.points, p)
	return nil
}

func (w *capturingWriter) Flush(context.Context) error { return nil }
func (w *capturingWriter) Start(context.Context)       {}
func (w *capturingWriter) Stop(context.Context)        {}
func (w *capturingWriter) Healthy() bool               { return true }

func (w *capturingWriter) all() []timeseries.Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]timeseries.Point(nil), w.points...)
}

func newTestPipeline(cfg Config, ws weather.WeatherService, cs calendar.CalendarService) (*Pipeline, *capturingWriter, *Collector) {
	writer := &capturingWriter{}
	quality := NewCollector()
	p := NewPipeline(cfg, capabilities.NewStore(), ws, cs, writer, quality, nil, clock.Fixed(testTime))
	return p, writer, quality
}

func TestPipelineWritesOnePointPerValidEvent(t *testing.T) {
	is := is.New(t)

	p, writer, quality := newTestPipeline(Config{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Handle(ctx, rawEvent("light.bedroom", "on"))
	p.Handle(ctx, rawEvent("light.bedroom_", "on")) // invalid, dropped
	p.Stop(ctx)

	points := writer.all()
	is.Equal(len(points), 1)
	is.Equal(points[0].Tags["entity_id"], "light.bedroom")

	is.Equal(quality.Snapshot()["light"].Total, uint64(2))
	is.Equal(quality.Snapshot()["light"].Valid, uint64(1))
}

func TestPipelineAttachesWeatherAndOccupancy(t *testing.T) {
	is := is.New(t)

	ws := &weather.WeatherServiceMock{
		CurrentFunc: func(context.Context) *types.WeatherInfo {
			return &types.WeatherInfo{Temperature: 12.5, Condition: "rain", Location: "home"}
		},
	}
	cs := &calendar.CalendarServiceMock{
		CurrentOccupancyFunc: func(context.Context) *types.Occupancy {
			return &types.Occupancy{IsHome: true, IsWFH: true, Confidence: 0.85}
		},
	}

	p, writer, _ := newTestPipeline(Config{}, ws, cs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Handle(ctx, rawEvent("light.office", "on"))
	p.Stop(ctx)

	points := writer.all()
	is.Equal(len(points), 1)
	is.Equal(points[0].Tags["weather_condition"], "rain")
	is.Equal(points[0].Fields["weather_temperature"], 12.5)
	is.Equal(points[0].Fields["occupancy_is_wfh"], true)
}

// A failing weather provider must degrade to weatherless points, never to
// validation errors or drops.
func TestPipelineDegradesWithoutWeather(t *testing.T) {
	is := is.New(t)

	ws := &weather.WeatherServiceMock{
		CurrentFunc: func(context.Context) *types.WeatherInfo { return nil },
	}

	p, writer, quality := newTestPipeline(Config{}, ws, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	for i := 0; i < 10; i++ {
		p.Handle(ctx, rawEvent("light.bedroom", "on"))
	}
	p.Stop(ctx)

	points := writer.all()
	is.Equal(len(points), 10)

	_, hasWeather := points[0].Fields["weather_temperature"]
	is.Equal(hasWeather, false)
	_, hasCondition := points[0].Tags["weather_condition"]
	is.Equal(hasCondition, false)

	is.Equal(quality.Snapshot()["light"].Valid, uint64(10))
	is.Equal(quality.HealthRating(), HealthHealthy)
}

func TestPipelineComputesDurationInState(t *testing.T) {
	is := is.New(t)

	p, writer, _ := newTestPipeline(Config{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	on := rawEvent("light.bedroom", "on")
	on.TimeFired = "2026-03-01T07:00:00Z"
	off := rawEvent("light.bedroom", "off")
	off.TimeFired = "2026-03-01T07:05:30Z"

	p.Handle(ctx, on)
	p.Handle(ctx, off)
	p.Stop(ctx)

	points := writer.all()
	is.Equal(len(points), 2)

	_, first := points[0].Fields["duration_in_state_seconds"]
	is.Equal(first, false) // no prior state known

	is.Equal(points[1].Fields["duration_in_state_seconds"], 330.0)
}

func TestPipelinePublishesHealthTransitionOnce(t *testing.T) {
	is := is.New(t)

	var mu sync.Mutex
	published := []messaging.TopicMessage{}
	messenger := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			mu.Lock()
			published = append(published, message)
			mu.Unlock()
			return nil
		},
	}

	p := NewPipeline(Config{}, capabilities.NewStore(), nil, nil, &capturingWriter{}, NewCollector(), messenger, clock.Fixed(testTime))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Handle(ctx, rawEvent("light.bedroom", "on"))
	p.Handle(ctx, rawEvent("light.bedroom_", "on")) // valid rate drops to 50%
	p.Handle(ctx, rawEvent("light.bedroom_", "on")) // stays unhealthy, no repeat
	p.Stop(ctx)

	mu.Lock()
	defer mu.Unlock()
	is.Equal(len(published), 1)
	is.Equal(published[0].TopicName(), "events.ingestDegraded")
}

func TestHandleDropsOldestOnOverflow(t *testing.T) {
	is := is.New(t)

	// tiny queue, pipeline not started so nothing drains
	p, writer, _ := newTestPipeline(Config{QueueSize: 2}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Handle(ctx, rawEvent("light.a", "on"))
	p.Handle(ctx, rawEvent("light.b", "on"))
	p.Handle(ctx, rawEvent("light.c", "on")) // evicts light.a

	is.Equal(p.QueueDepth(), 2)

	p.Start(ctx)
	p.Stop(ctx)

	points := writer.all()
	is.Equal(len(points), 2)
	is.Equal(points[0].Tags["entity_id"], "light.b")
	is.Equal(points[1].Tags["entity_id"], "light.c")
}
