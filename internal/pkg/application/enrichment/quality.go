package enrichment

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ErrClassMissingField  = "missing_field"
	ErrClassInvalidFormat = "invalid_format"
	ErrClassInvalidType   = "invalid_type"
	ErrClassOutOfRange    = "out_of_range"
	ErrClassTimestamp     = "timestamp_error"
	ErrClassInvalidState  = "invalid_state"
	ErrClassOther         = "other"
)

const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

type Issue struct {
	Class   string `json:"class"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult is produced by every normalize call, valid or not.
type ValidationResult struct {
	IsValid        bool          `json:"is_valid"`
	Errors         []Issue       `json:"errors,omitempty"`
	Warnings       []Issue       `json:"warnings,omitempty"`
	Domain         string        `json:"domain,omitempty"`
	ValidationTime time.Duration `json:"validation_time_ms"`
}

func (r *ValidationResult) addError(class, field, msg string) {
	r.IsValid = false
	r.Errors = append(r.Errors, Issue{Class: class, Field: field, Message: msg})
}

func (r *ValidationResult) addWarning(class, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Class: class, Field: field, Message: msg})
}

type DomainStats struct {
	Total           uint64            `json:"total"`
	Valid           uint64            `json:"valid"`
	ErrorsByClass   map[string]uint64 `json:"errorsByClass,omitempty"`
	WarningsByClass map[string]uint64 `json:"warningsByClass,omitempty"`
}

func (d DomainStats) ValidRate() float64 {
	if d.Total == 0 {
		return 1.0
	}
	return float64(d.Valid) / float64(d.Total)
}

// Collector aggregates validation outcomes per domain. It is fed from the
// single pipeline goroutine; the lock only guards concurrent health reads.
type Collector struct {
	mu      sync.RWMutex
	domains map[string]*DomainStats

	validated metric.Int64Counter
	failed    metric.Int64Counter
}

func NewCollector() *Collector {
	meter := otel.Meter("home-intel/enrichment")

	validated, _ := meter.Int64Counter("enrichment.events.validated")
	failed, _ := meter.Int64Counter("enrichment.events.invalid")

	return &Collector{
		domains:   map[string]*DomainStats{},
		validated: validated,
		failed:    failed,
	}
}

func (c *Collector) Record(ctx context.Context, res ValidationResult) {
	domain := res.Domain
	if domain == "" {
		domain = "unknown"
	}

	c.mu.Lock()

	d, ok := c.domains[domain]
	if !ok {
		d = &DomainStats{ErrorsByClass: map[string]uint64{}, WarningsByClass: map[string]uint64{}}
		c.domains[domain] = d
	}

	d.Total++
	if res.IsValid {
		d.Valid++
	}
	for _, e := range res.Errors {
		d.ErrorsByClass[e.Class]++
	}
	for _, w := range res.Warnings {
		d.WarningsByClass[w.Class]++
	}

	c.mu.Unlock()

	attrs := metric.WithAttributes(attribute.String("domain", domain))
	if res.IsValid {
		c.validated.Add(ctx, 1, attrs)
	} else {
		c.failed.Add(ctx, 1, attrs)
	}
}

func (c *Collector) Snapshot() map[string]DomainStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]DomainStats, len(c.domains))
	for domain, d := range c.domains {
		copied := DomainStats{
			Total:           d.Total,
			Valid:           d.Valid,
			ErrorsByClass:   map[string]uint64{},
			WarningsByClass: map[string]uint64{},
		}
		for k, v := range d.ErrorsByClass {
			copied.ErrorsByClass[k] = v
		}
		for k, v := range d.WarningsByClass {
			copied.WarningsByClass[k] = v
		}
		out[domain] = copied
	}

	return out
}

// HealthRating grades the overall valid-rate: 95% is healthy, 90% is
// degraded, anything below is unhealthy.
func (c *Collector) HealthRating() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total, valid uint64
	for _, d := range c.domains {
		total += d.Total
		valid += d.Valid
	}

	return rate(total, valid)
}

func (c *Collector) DomainHealth(domain string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.domains[domain]
	if !ok {
		return HealthHealthy
	}
	return rate(d.Total, d.Valid)
}

func rate(total, valid uint64) string {
	if total == 0 {
		return HealthHealthy
	}

	r := float64(valid) / float64(total)
	switch {
	case r >= 0.95:
		return HealthHealthy
	case r >= 0.90:
		return HealthDegraded
	default:
		return HealthUnhealthy
	}
}
