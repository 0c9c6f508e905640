package clock

import "time"

// Clock lets the pipeline, detectors and test harness be driven by a fake
// time source in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func New() Clock {
	return systemClock{}
}

// Fixed returns a clock frozen at t. The returned pointer can be advanced
// with Advance between assertions.
func Fixed(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

type FakeClock struct {
	now time.Time
}

func (f *FakeClock) Now() time.Time { return f.now }

func (f *FakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }
