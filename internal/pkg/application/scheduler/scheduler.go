package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("home-intel/scheduler")

type Config struct {
	DetectionInterval  time.Duration `yaml:"detectioninterval"`
	RollupInterval     time.Duration `yaml:"rollupinterval"`
	CapabilityInterval time.Duration `yaml:"capabilityinterval"`
	WeatherInterval    time.Duration `yaml:"weatherinterval"`

	// LookBack is the event window a detection sweep examines.
	LookBack time.Duration `yaml:"lookback"`
}

func (c Config) WithDefaults() Config {
	if c.DetectionInterval <= 0 {
		c.DetectionInterval = 6 * time.Hour
	}
	if c.RollupInterval <= 0 {
		c.RollupInterval = time.Hour
	}
	if c.CapabilityInterval <= 0 {
		c.CapabilityInterval = 24 * time.Hour
	}
	if c.WeatherInterval <= 0 {
		c.WeatherInterval = 6 * time.Hour
	}
	if c.LookBack <= 0 {
		c.LookBack = 7 * 24 * time.Hour
	}
	return c
}

// JobFunc is one periodic unit of work.
type JobFunc func(ctx context.Context) error

// job wraps a JobFunc so a tick that fires while the previous run is still
// going is skipped instead of piling up.
type job struct {
	name    string
	run     JobFunc
	ctx     context.Context
	running atomic.Bool
	skipped metric.Int64Counter
}

func (j *job) Run() {
	log := logging.GetFromContext(j.ctx)

	if !j.running.CompareAndSwap(false, true) {
		j.skipped.Add(j.ctx, 1, metric.WithAttributes(attribute.String("job", j.name)))
		log.Warn("previous run still in progress, skipping tick", "job", j.name, "reason", "skipped_overlap")
		return
	}
	defer j.running.Store(false)

	started := time.Now()

	err := j.run(j.ctx)
	if err != nil {
		log.Error("job failed", "job", j.name, "err", err.Error())
		return
	}

	log.Debug("job finished", "job", j.name, "duration", time.Since(started).String())
}

// Scheduler runs the periodic jobs on their configured intervals.
type Scheduler struct {
	cron *cron.Cron
	jobs []*job
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Register schedules fn to run every interval under the given name.
func (s *Scheduler) Register(ctx context.Context, name string, interval time.Duration, fn JobFunc) {
	skipped, _ := meter.Int64Counter("scheduler.jobs.skipped_overlap")

	j := &job{name: name, run: fn, ctx: ctx, skipped: skipped}
	s.jobs = append(s.jobs, j)
	s.cron.Schedule(cron.Every(interval), j)
}

func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()
}

func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()

	select {
	case <-stopped.Done():
	case <-time.After(5 * time.Second):
	case <-ctx.Done():
	}
}

// RunOnce runs every registered job a single time, in registration order.
// Used by the --once flag for one-shot sweeps.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	for _, j := range s.jobs {
		err := j.run(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}
