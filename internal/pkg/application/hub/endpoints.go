package hub

import (
	"sync"
	"time"
)

const (
	flapWindow     = 60 * time.Second
	flapThreshold  = 2
	demotionPeriod = 5 * time.Minute
)

// endpointSet holds the primary endpoint and its ordered fallbacks and
// applies flap damping: an endpoint failing twice inside the window is
// demoted for five minutes.
type endpointSet struct {
	mu        sync.Mutex
	endpoints []*endpoint
}

type endpoint struct {
	url          string
	failures     []time.Time
	demotedUntil time.Time
	authFailed   bool
}

func newEndpointSet(urls []string) *endpointSet {
	s := &endpointSet{}
	for _, u := range urls {
		s.endpoints = append(s.endpoints, &endpoint{url: u})
	}
	return s
}

// Next returns the highest-priority endpoint that is currently usable.
func (s *endpointSet) Next(now time.Time) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.endpoints {
		if e.authFailed {
			continue
		}
		if now.Before(e.demotedUntil) {
			continue
		}
		return e.url, true
	}

	return "", false
}

func (s *endpointSet) MarkFailure(url string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.find(url)
	if e == nil {
		return
	}

	recent := e.failures[:0]
	for _, t := range e.failures {
		if now.Sub(t) < flapWindow {
			recent = append(recent, t)
		}
	}
	e.failures = append(recent, now)

	if len(e.failures) >= flapThreshold {
		e.demotedUntil = now.Add(demotionPeriod)
		e.failures = nil
	}
}

func (s *endpointSet) MarkSuccess(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.find(url); e != nil {
		e.failures = nil
		e.demotedUntil = time.Time{}
	}
}

// MarkAuthFailed permanently removes an endpoint from rotation for this
// process lifetime; the token will not become valid by retrying.
func (s *endpointSet) MarkAuthFailed(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.find(url); e != nil {
		e.authFailed = true
	}
}

// AllUnavailable reports whether no endpoint can currently be attempted.
func (s *endpointSet) AllUnavailable(now time.Time) bool {
	_, ok := s.Next(now)
	return !ok
}

func (s *endpointSet) find(url string) *endpoint {
	for _, e := range s.endpoints {
		if e.url == url {
			return e
		}
	}
	return nil
}
