package calendar

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/pkg/types"
)

// RawEvent is a calendar entry as delivered by the upstream calendar feed.
// Either DateTime or Date is set; Date marks an all-day event.
type RawEvent struct {
	Summary     string   `json:"summary"`
	Start       RawTime  `json:"start"`
	End         RawTime  `json:"end"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
}

type RawTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type Event struct {
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
}

// Parse normalizes a raw calendar event. All-day dates become start of day
// UTC; timed entries are converted to UTC.
func Parse(raw RawEvent) (Event, error) {
	start, allDay, err := parseTime(raw.Start)
	if err != nil {
		return Event{}, fmt.Errorf("invalid start: %w", err)
	}

	end, _, err := parseTime(raw.End)
	if err != nil {
		return Event{}, fmt.Errorf("invalid end: %w", err)
	}

	return Event{
		Summary:     raw.Summary,
		Location:    raw.Location,
		Description: raw.Description,
		Start:       start,
		End:         end,
		IsAllDay:    allDay,
	}, nil
}

func parseTime(raw RawTime) (time.Time, bool, error) {
	if raw.Date != "" {
		t, err := time.Parse("2006-01-02", raw.Date)
		if err != nil {
			return time.Time{}, false, err
		}
		return t.UTC(), true, nil
	}

	if raw.DateTime == "" {
		return time.Time{}, false, fmt.Errorf("neither dateTime nor date present")
	}

	t, err := time.Parse(time.RFC3339, raw.DateTime)
	if err != nil {
		return time.Time{}, false, err
	}

	return t.UTC(), false, nil
}

var (
	wfhClass  = regexp.MustCompile(`(?i)\bwfh\b|work from home|home office|remote work`)
	homeClass = regexp.MustCompile(`(?i)\bhome\b|\bhouse\b|\bresidence\b|\bapartment\b`)
	awayClass = regexp.MustCompile(`(?i)\boffice\b|\bwork\b|\btravel\b|\btrip\b|\bvacation\b|out of town|\bbusiness\b`)
)

// DetectOccupancy classifies an event into home/wfh/away with a confidence
// score. WFH implies home regardless of any away match.
func DetectOccupancy(e Event) types.Occupancy {
	text := e.Summary + " " + e.Location + " " + e.Description

	wfh := wfhClass.MatchString(text)
	home := homeClass.MatchString(text)
	away := awayClass.MatchString(text)

	o := types.Occupancy{Confidence: 0.5}

	switch {
	case wfh:
		o.IsHome = true
		o.IsWFH = true
		o.Confidence = 0.85
		if home {
			o.Confidence += 0.1
		}
	case home:
		o.IsHome = true
		o.Confidence = 0.85
	case away:
		o.IsAway = true
		o.Confidence = 0.75
	}

	if o.Confidence > 0.95 {
		o.Confidence = 0.95
	}

	return o
}

//go:generate moq -rm -out source_mock.go . Source
type Source interface {
	Fetch(ctx context.Context) ([]RawEvent, error)
}

//go:generate moq -rm -out calendarservice_mock.go . CalendarService
type CalendarService interface {
	// CurrentOccupancy inspects the active events set. A nil result means
	// no calendar evidence either way.
	CurrentOccupancy(ctx context.Context) *types.Occupancy
	Refresh(ctx context.Context) error
	Start(ctx context.Context)
	Stop(ctx context.Context)
}

type Config struct {
	RefreshInterval time.Duration `yaml:"refreshinterval"`
}

type service struct {
	cfg    Config
	source Source
	clock  clock.Clock

	mu     sync.RWMutex
	events []Event

	done     chan struct{}
	stopOnce sync.Once
}

func New(cfg Config, source Source, c clock.Clock) CalendarService {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 15 * time.Minute
	}

	return &service{
		cfg:    cfg,
		source: source,
		clock:  c,
		done:   make(chan struct{}),
	}
}

func (s *service) Start(ctx context.Context) {
	go func() {
		log := logging.GetFromContext(ctx)

		if err := s.Refresh(ctx); err != nil {
			log.Warn("initial calendar refresh failed", "err", err.Error())
		}

		ticker := time.NewTicker(s.cfg.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-ticker.C:
				if err := s.Refresh(ctx); err != nil {
					log.Warn("calendar refresh failed", "err", err.Error())
				}
			}
		}
	}()
}

func (s *service) Stop(ctx context.Context) {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *service) Refresh(ctx context.Context) error {
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return err
	}

	events := make([]Event, 0, len(raw))
	for _, r := range raw {
		e, err := Parse(r)
		if err != nil {
			logging.GetFromContext(ctx).Debug("skipping unparseable calendar event", "summary", r.Summary, "err", err.Error())
			continue
		}
		events = append(events, e)
	}

	s.mu.Lock()
	s.events = events
	s.mu.Unlock()

	return nil
}

func (s *service) CurrentOccupancy(ctx context.Context) *types.Occupancy {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *types.Occupancy

	for _, e := range s.events {
		if now.Before(e.Start) || !now.Before(e.End) {
			continue
		}

		o := DetectOccupancy(e)
		if best == nil || o.Confidence > best.Confidence {
			best = &o
		}
	}

	return best
}
