package patterns

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/internal/pkg/application/events"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/timeseries"
	"github.com/homelab-tools/home-intel/pkg/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("home-intel/patterns")

// persistenceFloor is the minimum confidence any pattern needs to be
// stored, independent of per-detector thresholds.
const persistenceFloor = 0.5

type PatternStore interface {
	AddPattern(ctx context.Context, p types.Pattern) error
}

// Runner executes all registered detectors over a look-back window on a
// bounded worker pool and persists what they find.
type Runner struct {
	detectors []Detector
	reader    timeseries.EventReader
	store     PatternStore
	messenger messaging.MsgContext
	clk       clock.Clock

	workers int
}

func NewRunner(detectors []Detector, reader timeseries.EventReader, store PatternStore, messenger messaging.MsgContext, clk clock.Clock) *Runner {
	workers := runtime.NumCPU() - 1
	if workers < 2 {
		workers = 2
	}

	return &Runner{
		detectors: detectors,
		reader:    reader,
		store:     store,
		messenger: messenger,
		clk:       clk,
		workers:   workers,
	}
}

// Run queries events fired in [start, stop) once and fans the snapshot out
// to every detector. Returns per-detector stats for the scheduler to log.
func (r *Runner) Run(ctx context.Context, start, stop time.Time) ([]Stats, error) {
	ctx, span := tracer.Start(ctx, "detection-sweep")
	defer span.End()

	log := logging.GetFromContext(ctx)

	evts, err := r.reader.QueryEvents(ctx, start, stop)
	if err != nil {
		return nil, err
	}
	sortEvents(evts)

	jobs := make(chan Detector)
	results := make(chan Stats, len(r.detectors))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				results <- r.runDetector(ctx, d, evts)
			}
		}()
	}

	for _, d := range r.detectors {
		jobs <- d
	}
	close(jobs)
	wg.Wait()
	close(results)

	stats := make([]Stats, 0, len(r.detectors))
	for s := range results {
		log.Info("detector finished",
			"detector", s.Detector,
			"patterns", s.TotalPatterns,
			"events", s.EventsExamined,
			"processing_time_ms", s.ProcessingTimeMS.Milliseconds(),
		)
		stats = append(stats, s)
	}

	return stats, nil
}

func (r *Runner) runDetector(ctx context.Context, d Detector, evts []types.EnrichedEvent) Stats {
	log := logging.GetFromContext(ctx)
	started := r.clk.Now()

	found, err := d.Detect(ctx, evts)
	if err != nil {
		log.Error("detector failed", "detector", d.Type(), "err", err.Error())
		return Stats{Detector: d.Type(), EventsExamined: len(evts), ProcessingTimeMS: r.clk.Now().Sub(started)}
	}

	stored := 0
	for _, p := range found {
		if p.Confidence < persistenceFloor || p.Confidence > 1.0 {
			continue
		}

		err = r.store.AddPattern(ctx, p)
		if err != nil {
			log.Error("could not store pattern", "pattern_id", p.PatternID, "err", err.Error())
			continue
		}
		stored++

		if r.messenger != nil {
			err = r.messenger.PublishOnTopic(ctx, &events.PatternDiscovered{Pattern: p, Timestamp: r.clk.Now()})
			if err != nil {
				log.Warn("could not publish pattern discovery", "pattern_id", p.PatternID, "err", err.Error())
			}
		}
	}

	return Stats{
		Detector:         d.Type(),
		TotalPatterns:    stored,
		EventsExamined:   len(evts),
		ProcessingTimeMS: r.clk.Now().Sub(started),
	}
}
