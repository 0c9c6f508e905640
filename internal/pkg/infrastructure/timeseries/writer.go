package timeseries

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	lineprotocol "github.com/influxdata/line-protocol/v2/lineprotocol"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("home-intel/timeseries")

const (
	DefaultBatchSize     = 500
	DefaultFlushInterval = 1000 * time.Millisecond

	defaultWriteTimeout = 5 * time.Second
	maxWriteAttempts    = 5
)

var ErrRetryable = errors.New("transient write failure")

type Config struct {
	URL    string
	Token  string
	Org    string
	Bucket string

	BatchSize     int
	FlushInterval time.Duration
	SpillPath     string
}

//go:generate moq -rm -out writer_mock.go . EventWriter
type EventWriter interface {
	Write(ctx context.Context, point Point) error
	Flush(ctx context.Context) error
	Start(ctx context.Context)
	Stop(ctx context.Context)
	Healthy() bool
}

type writer struct {
	cfg    Config
	client *http.Client
	spill  *spillQueue

	mu    sync.Mutex
	batch []Point

	done     chan struct{}
	stopOnce sync.Once

	// degraded is read by the readiness probe while flushes run on other
	// goroutines, so it is atomic rather than guarded by mu.
	degraded atomic.Bool

	written metric.Int64Counter
	dropped metric.Int64Counter
	spilled metric.Int64Counter
}

func New(cfg Config) (EventWriter, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	if _, err := url.Parse(cfg.URL); err != nil || cfg.URL == "" {
		return nil, fmt.Errorf("invalid timeseries url %q", cfg.URL)
	}

	spill, err := newSpillQueue(cfg.SpillPath)
	if err != nil {
		return nil, err
	}

	written, _ := meter.Int64Counter("timeseries.points.written")
	dropped, _ := meter.Int64Counter("timeseries.points.dropped")
	spilled, _ := meter.Int64Counter("timeseries.batches.spilled")

	return &writer{
		cfg:     cfg,
		client:  &http.Client{Timeout: defaultWriteTimeout},
		spill:   spill,
		batch:   make([]Point, 0, cfg.BatchSize),
		done:    make(chan struct{}),
		written: written,
		dropped: dropped,
		spilled: spilled,
	}, nil
}

// Write buffers a point. The batch is flushed when it reaches BatchSize
// points or FlushInterval elapses, whichever comes first. Schema violations
// have already been rejected by NewEventPoint; defensive revalidation here
// drops the point rather than poison the batch.
func (w *writer) Write(ctx context.Context, point Point) error {
	if point.Measurement == "" || len(point.Fields) == 0 {
		w.dropped.Add(ctx, 1)
		return ErrSchemaViolation
	}

	w.mu.Lock()
	w.batch = append(w.batch, point)
	full := len(w.batch) >= w.cfg.BatchSize
	w.mu.Unlock()

	if full {
		return w.Flush(ctx)
	}

	return nil
}

func (w *writer) Start(ctx context.Context) {
	go func() {
		log := logging.GetFromContext(ctx)

		// drain anything a previous run spilled
		if err := w.drainSpill(ctx); err != nil {
			log.Warn("could not drain spill queue on startup", "err", err.Error())
		}

		ticker := time.NewTicker(w.cfg.FlushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case <-ticker.C:
				if err := w.Flush(ctx); err != nil {
					log.Error("periodic flush failed", "err", err.Error())
				}
			}
		}
	}()
}

func (w *writer) Stop(ctx context.Context) {
	w.stopOnce.Do(func() { close(w.done) })
	w.Flush(ctx)
}

func (w *writer) Healthy() bool {
	return !w.degraded.Load()
}

func (w *writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if len(w.batch) == 0 {
		w.mu.Unlock()
		return nil
	}
	batch := w.batch
	w.batch = make([]Point, 0, w.cfg.BatchSize)
	w.mu.Unlock()

	log := logging.GetFromContext(ctx)

	encoded, dropped := encodeBatch(batch)
	if dropped > 0 {
		w.dropped.Add(ctx, int64(dropped))
		log.Warn("dropped points that failed line protocol encoding", "count", dropped)
	}

	if len(encoded) == 0 {
		return nil
	}

	err := w.send(ctx, encoded)
	if err != nil {
		// persistent failure: spill and keep accepting events
		w.degraded.Store(true)
		w.spilled.Add(ctx, 1)
		log.Error("write failed after retries, spilling batch", "points", len(batch), "err", err.Error())
		return w.spill.Append(encoded)
	}

	// only one of several concurrent flushes gets to drain on recovery
	if w.degraded.CompareAndSwap(true, false) {
		if err := w.drainSpill(ctx); err != nil {
			log.Warn("could not drain spill queue after recovery", "err", err.Error())
		}
	}

	w.written.Add(ctx, int64(len(batch)-dropped))

	return nil
}

// send posts one line protocol batch, retrying transient failures with
// exponential backoff from 100ms up to 30s, at most five attempts. Order
// within the batch is preserved since the payload is sent as a whole.
func (w *writer) send(ctx context.Context, body []byte) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 30 * time.Second

	return backoff.Retry(func() error {
		err := w.post(ctx, body)
		if err != nil {
			var fatal *fatalWriteError
			if errors.As(err, &fatal) {
				return backoff.Permanent(err)
			}
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, maxWriteAttempts-1), ctx))
}

type fatalWriteError struct {
	status int
	body   string
}

func (e *fatalWriteError) Error() string {
	return fmt.Sprintf("write rejected with status %d: %s", e.status, e.body)
}

func (w *writer) post(ctx context.Context, body []byte) error {
	u := fmt.Sprintf("%s/api/v2/write?org=%s&bucket=%s&precision=ms",
		w.cfg.URL, url.QueryEscape(w.cfg.Org), url.QueryEscape(w.cfg.Bucket))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Token "+w.cfg.Token)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRetryable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return &fatalWriteError{status: resp.StatusCode, body: string(b)}
	}

	return fmt.Errorf("%w: status %d", ErrRetryable, resp.StatusCode)
}

func (w *writer) drainSpill(ctx context.Context) error {
	return w.spill.Drain(ctx, func(batch []byte) error {
		return w.send(ctx, batch)
	})
}

// encodeBatch renders points to line protocol with millisecond precision.
// Points that fail encoding are skipped and counted, never block the batch.
func encodeBatch(points []Point) ([]byte, int) {
	var enc lineprotocol.Encoder
	enc.SetPrecision(lineprotocol.Millisecond)

	dropped := 0

	for _, p := range points {
		enc.StartLine(p.Measurement)

		for _, k := range p.sortedTagKeys() {
			enc.AddTag(k, p.Tags[k])
		}

		for _, k := range p.sortedFieldKeys() {
			v, ok := lineprotocol.NewValue(p.Fields[k])
			if !ok {
				continue
			}
			enc.AddField(k, v)
		}

		enc.EndLine(p.Timestamp)

		if err := enc.Err(); err != nil {
			enc.ClearErr()
			dropped++
		}
	}

	return enc.Bytes(), dropped
}
