package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/pkg/types"
)

const (
	DefaultCacheTTL = 300 * time.Second
	providerTimeout = 10 * time.Second
)

type Config struct {
	APIKey    string        `yaml:"apikey"`
	BaseURL   string        `yaml:"baseurl"`
	Latitude  float64       `yaml:"latitude"`
	Longitude float64       `yaml:"longitude"`
	Units     string        `yaml:"units"`
	Location  string        `yaml:"location"`
	CacheTTL  time.Duration `yaml:"cachettl"`
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("weather api key must not be empty")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v is out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v is out of range", c.Longitude)
	}
	return nil
}

//go:generate moq -rm -out weatherservice_mock.go . WeatherService
type WeatherService interface {
	// Current returns the cached observation, or nil when nothing usable is
	// cached. It never blocks on the provider; a stale cache entry triggers
	// a background refresh.
	Current(ctx context.Context) *types.WeatherInfo
	// Refresh fetches from the provider synchronously. Used by the
	// scheduler and on startup.
	Refresh(ctx context.Context) error
}

type service struct {
	cfg    Config
	client *http.Client
	clock  clock.Clock

	mu         sync.Mutex
	cached     *types.WeatherInfo
	fetchedAt  time.Time
	refreshing bool
}

func New(cfg Config, c clock.Clock) WeatherService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org"
	}
	if cfg.Units == "" {
		cfg.Units = "metric"
	}

	return &service{
		cfg:    cfg,
		client: &http.Client{Timeout: providerTimeout},
		clock:  c,
	}
}

func (s *service) Current(ctx context.Context) *types.WeatherInfo {
	s.mu.Lock()
	cached := s.cached
	stale := s.cached == nil || s.clock.Now().Sub(s.fetchedAt) > s.cfg.CacheTTL
	shouldRefresh := stale && !s.refreshing
	if shouldRefresh {
		s.refreshing = true
	}
	s.mu.Unlock()

	if shouldRefresh {
		go func() {
			defer func() {
				s.mu.Lock()
				s.refreshing = false
				s.mu.Unlock()
			}()

			refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), providerTimeout)
			defer cancel()

			if err := s.Refresh(refreshCtx); err != nil {
				logging.GetFromContext(ctx).Debug("background weather refresh failed", "err", err.Error())
			}
		}()
	}

	return cached
}

func (s *service) Refresh(ctx context.Context) error {
	info, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cached = info
	s.fetchedAt = s.clock.Now()
	s.mu.Unlock()

	return nil
}

type observation struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

func (s *service) fetch(ctx context.Context) (*types.WeatherInfo, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", s.cfg.Latitude))
	q.Set("lon", fmt.Sprintf("%f", s.cfg.Longitude))
	q.Set("units", s.cfg.Units)
	q.Set("appid", s.cfg.APIKey)

	u := s.cfg.BaseURL + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var obs observation
	err = json.NewDecoder(resp.Body).Decode(&obs)
	if err != nil {
		return nil, err
	}

	info := &types.WeatherInfo{
		Temperature: obs.Main.Temp,
		Humidity:    obs.Main.Humidity,
		Pressure:    obs.Main.Pressure,
		WindSpeed:   obs.Wind.Speed,
		Location:    s.location(obs.Name),
	}

	if len(obs.Weather) > 0 {
		info.Condition = obs.Weather[0].Main
		info.Description = obs.Weather[0].Description
	}

	return info, nil
}

func (s *service) location(name string) string {
	if s.cfg.Location != "" {
		return s.cfg.Location
	}
	return name
}
