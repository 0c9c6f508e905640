package enrichment

import (
	"context"
	"testing"

	"github.com/matryer/is"
)

func record(c *Collector, domain string, valid bool, n int) {
	for i := 0; i < n; i++ {
		res := ValidationResult{IsValid: valid, Domain: domain}
		if !valid {
			res.Errors = []Issue{{Class: ErrClassInvalidFormat, Field: "entity_id"}}
		}
		c.Record(context.Background(), res)
	}
}

func TestHealthRatingThresholds(t *testing.T) {
	is := is.New(t)

	c := NewCollector()
	is.Equal(c.HealthRating(), HealthHealthy) // no data is healthy

	record(c, "light", true, 95)
	record(c, "light", false, 5)
	is.Equal(c.HealthRating(), HealthHealthy) // exactly 95% is inclusive

	record(c, "light", false, 5)
	is.Equal(c.HealthRating(), HealthDegraded)

	record(c, "light", false, 20)
	is.Equal(c.HealthRating(), HealthUnhealthy)
}

func TestPerDomainAccounting(t *testing.T) {
	is := is.New(t)

	c := NewCollector()
	record(c, "light", true, 10)
	record(c, "sensor", false, 3)

	snap := c.Snapshot()
	is.Equal(snap["light"].Valid, uint64(10))
	is.Equal(snap["sensor"].Total, uint64(3))
	is.Equal(snap["sensor"].ErrorsByClass[ErrClassInvalidFormat], uint64(3))

	is.Equal(c.DomainHealth("light"), HealthHealthy)
	is.Equal(c.DomainHealth("sensor"), HealthUnhealthy)
	is.Equal(c.DomainHealth("climate"), HealthHealthy) // unseen domain
}

func TestSnapshotIsACopy(t *testing.T) {
	is := is.New(t)

	c := NewCollector()
	record(c, "light", true, 1)

	snap := c.Snapshot()
	snap["light"].ErrorsByClass["bogus"] = 99

	is.Equal(c.Snapshot()["light"].ErrorsByClass["bogus"], uint64(0))
}
