package enrichment

import (
	"context"
	"sync"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/homelab-tools/home-intel/internal/pkg/application/calendar"
	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/application/events"
	"github.com/homelab-tools/home-intel/internal/pkg/application/weather"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/timeseries"
	"github.com/homelab-tools/home-intel/pkg/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	DefaultQueueSize       = 10_000
	DefaultDurationMapSize = 50_000
)

type Config struct {
	QueueSize       int `yaml:"queuesize"`
	DurationMapSize int `yaml:"durationmapsize"`
}

// Pipeline receives raw events from the session manager, normalizes and
// enriches them, and hands points to the timeseries writer. A bounded
// queue decouples it from the receive path; on overflow the oldest queued
// event is dropped so the hub session never blocks.
type Pipeline struct {
	cfg      Config
	norm     *Normalizer
	weather  weather.WeatherService
	calendar calendar.CalendarService
	writer   timeseries.EventWriter
	quality  *Collector
	clk      clock.Clock

	messenger  messaging.MsgContext
	lastRating string

	in chan types.Event

	// lastState backs duration_in_state_seconds. Single writer (the
	// pipeline goroutine); capped with LRU eviction.
	lastState *lru.Cache[string, time.Time]

	done     chan struct{}
	stopOnce sync.Once
	drained  chan struct{}

	dropped  metric.Int64Counter
	enriched metric.Int64Counter
}

func NewPipeline(
	cfg Config,
	caps capabilities.Store,
	ws weather.WeatherService,
	cs calendar.CalendarService,
	writer timeseries.EventWriter,
	quality *Collector,
	messenger messaging.MsgContext,
	clk clock.Clock,
) *Pipeline {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.DurationMapSize <= 0 {
		cfg.DurationMapSize = DefaultDurationMapSize
	}

	lastState, _ := lru.New[string, time.Time](cfg.DurationMapSize)

	meter := otel.Meter("home-intel/enrichment")
	dropped, _ := meter.Int64Counter("enrichment.events.dropped")
	enriched, _ := meter.Int64Counter("enrichment.events.enriched")

	return &Pipeline{
		cfg:        cfg,
		norm:       NewNormalizer(caps, clk),
		weather:    ws,
		calendar:   cs,
		writer:     writer,
		quality:    quality,
		messenger:  messenger,
		clk:        clk,
		lastRating: HealthHealthy,
		in:         make(chan types.Event, cfg.QueueSize),
		lastState:  lastState,
		done:       make(chan struct{}),
		drained:    make(chan struct{}),
		dropped:    dropped,
		enriched:   enriched,
	}
}

// Handle is the session manager's event callback. It never blocks: when
// the queue is full the oldest queued event is discarded to make room.
func (p *Pipeline) Handle(ctx context.Context, e types.Event) {
	select {
	case p.in <- e:
		return
	default:
	}

	select {
	case old := <-p.in:
		p.dropped.Add(ctx, 1)
		logging.GetFromContext(ctx).Warn("event queue full, dropping oldest",
			"entity_id", old.EntityID, "event_type", old.EventType, "queue_size", p.cfg.QueueSize)
	default:
	}

	select {
	case p.in <- e:
	default:
		p.dropped.Add(ctx, 1)
	}
}

func (p *Pipeline) Start(ctx context.Context) {
	go p.run(ctx)
}

// Stop drains queued events before returning so that a clean shutdown
// loses nothing the session already delivered.
func (p *Pipeline) Stop(ctx context.Context) {
	p.stopOnce.Do(func() { close(p.done) })

	select {
	case <-p.drained:
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (p *Pipeline) QueueDepth() int {
	return len(p.in)
}

func (p *Pipeline) run(ctx context.Context) {
	defer close(p.drained)

	for {
		select {
		case e := <-p.in:
			p.process(ctx, e)
		case <-p.done:
			for {
				select {
				case e := <-p.in:
					p.process(ctx, e)
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) process(ctx context.Context, e types.Event) {
	log := logging.GetFromContext(ctx)

	norm, res := p.norm.Normalize(ctx, e)
	p.quality.Record(ctx, res)
	p.watchHealth(ctx)

	if !res.IsValid {
		log.Debug("invalid event dropped", "domain", res.Domain, "errors", len(res.Errors))
		return
	}

	enriched := types.EnrichedEvent{NormalizedEvent: norm}

	if p.weather != nil {
		enriched.Weather = p.weather.Current(ctx)
	}
	if p.calendar != nil {
		enriched.Occupancy = p.calendar.CurrentOccupancy(ctx)
	}

	if norm.EventType == "state_changed" {
		if last, ok := p.lastState.Get(norm.EntityID); ok {
			if d := norm.TimeFired.Sub(last).Seconds(); d >= 0 {
				enriched.DurationInState = &d
			}
		}
		p.lastState.Add(norm.EntityID, norm.TimeFired)
	}

	point, err := timeseries.NewEventPoint(enriched)
	if err != nil {
		log.Error("point construction failed", "entity_id", norm.EntityID, "err", err.Error())
		return
	}

	err = p.writer.Write(ctx, point)
	if err != nil {
		log.Error("write failed", "entity_id", norm.EntityID, "err", err.Error())
		return
	}

	p.enriched.Add(ctx, 1)
}

// watchHealth publishes on rating transitions only. Runs on the pipeline
// goroutine, so lastRating needs no locking.
func (p *Pipeline) watchHealth(ctx context.Context) {
	rating := p.quality.HealthRating()
	if rating == p.lastRating {
		return
	}
	p.lastRating = rating

	if p.messenger == nil {
		return
	}

	err := p.messenger.PublishOnTopic(ctx, &events.IngestDegraded{Rating: rating, Timestamp: p.clk.Now()})
	if err != nil {
		logging.GetFromContext(ctx).Warn("could not publish health transition", "rating", rating, "err", err.Error())
	}
}
