package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/homelab-tools/home-intel/internal/pkg/application/enrichment"
	"github.com/homelab-tools/home-intel/internal/pkg/application/hub"
	"github.com/homelab-tools/home-intel/internal/pkg/application/patterns"
	"github.com/homelab-tools/home-intel/internal/pkg/application/safety"
	"github.com/homelab-tools/home-intel/internal/pkg/application/scheduler"
	"github.com/homelab-tools/home-intel/internal/pkg/application/weather"
	"gopkg.in/yaml.v2"
)

// duration lets config files spell intervals as "30s" or "6h". yaml.v2 has
// no native time.Duration support.
type duration time.Duration

func (d *duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	err := unmarshal(&s)
	if err != nil {
		return err
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = duration(v)
	return nil
}

func (d duration) std() time.Duration {
	return time.Duration(d)
}

type hubConfig struct {
	URL            string   `yaml:"url"`
	FallbackURLs   []string `yaml:"fallbackurls"`
	Token          string   `yaml:"token"`
	EventTypes     []string `yaml:"eventtypes"`
	ReconnectDelay duration `yaml:"reconnectdelay"`

	// RESTBaseURL is the http(s) endpoint for automation config calls.
	// Empty derives it from URL by swapping the scheme.
	RESTBaseURL string `yaml:"restbaseurl"`
}

func (c hubConfig) sessionConfig() hub.Config {
	return hub.Config{
		URL:            c.URL,
		FallbackURLs:   c.FallbackURLs,
		Token:          c.Token,
		EventTypes:     c.EventTypes,
		ReconnectDelay: c.ReconnectDelay.std(),
	}
}

func (c hubConfig) restBaseURL() string {
	if c.RESTBaseURL != "" {
		return c.RESTBaseURL
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}

	switch u.Scheme {
	case "wss":
		u.Scheme = "https"
	default:
		u.Scheme = "http"
	}
	u.Path = ""

	return u.String()
}

type weatherConfig struct {
	APIKey    string   `yaml:"apikey"`
	BaseURL   string   `yaml:"baseurl"`
	Latitude  float64  `yaml:"latitude"`
	Longitude float64  `yaml:"longitude"`
	Units     string   `yaml:"units"`
	Location  string   `yaml:"location"`
	CacheTTL  duration `yaml:"cachettl"`
}

func (c weatherConfig) enabled() bool {
	return c.APIKey != ""
}

func (c weatherConfig) serviceConfig() weather.Config {
	return weather.Config{
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Units:     c.Units,
		Location:  c.Location,
		CacheTTL:  c.CacheTTL.std(),
	}
}

type calendarConfig struct {
	URL             string   `yaml:"url"`
	Token           string   `yaml:"token"`
	RefreshInterval duration `yaml:"refreshinterval"`
}

func (c calendarConfig) enabled() bool {
	return c.URL != ""
}

type influxConfig struct {
	URL           string   `yaml:"url"`
	Token         string   `yaml:"token"`
	Org           string   `yaml:"org"`
	Bucket        string   `yaml:"bucket"`
	BatchSize     int      `yaml:"batchsize"`
	FlushInterval duration `yaml:"flushinterval"`
	SpillPath     string   `yaml:"spillpath"`
}

type llmConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`
}

type detectionConfig struct {
	patterns.Options `yaml:",inline"`

	SequenceWindow     duration `yaml:"sequencewindow"`
	CoOccurrenceWindow duration `yaml:"cooccurrencewindow"`
	AnomalyThreshold   float64  `yaml:"anomalythreshold"`
}

type safetyConfig struct {
	Level     string `yaml:"level"`
	BulkWidth int    `yaml:"bulkwidth"`
}

func (c safetyConfig) level() safety.Level {
	if c.Level == "" {
		return safety.LevelModerate
	}
	return safety.Level(c.Level)
}

type schedulerConfig struct {
	DetectionInterval  duration `yaml:"detectioninterval"`
	RollupInterval     duration `yaml:"rollupinterval"`
	CapabilityInterval duration `yaml:"capabilityinterval"`
	WeatherInterval    duration `yaml:"weatherinterval"`
	LookBack           duration `yaml:"lookback"`
}

func (c schedulerConfig) config() scheduler.Config {
	return scheduler.Config{
		DetectionInterval:  c.DetectionInterval.std(),
		RollupInterval:     c.RollupInterval.std(),
		CapabilityInterval: c.CapabilityInterval.std(),
		WeatherInterval:    c.WeatherInterval.std(),
		LookBack:           c.LookBack.std(),
	}
}

type harnessConfig struct {
	TestDuration duration `yaml:"testduration"`
}

type suggestionsConfig struct {
	QualityFloor float64 `yaml:"qualityfloor"`
}

type appConfig struct {
	Hub         hubConfig         `yaml:"hub"`
	Weather     weatherConfig     `yaml:"weather"`
	Calendar    calendarConfig    `yaml:"calendar"`
	InfluxDB    influxConfig      `yaml:"influxdb"`
	LLM         llmConfig         `yaml:"llm"`
	Enrichment  enrichment.Config `yaml:"enrichment"`
	Detection   detectionConfig   `yaml:"detection"`
	Safety      safetyConfig      `yaml:"safety"`
	Scheduler   schedulerConfig   `yaml:"scheduler"`
	Harness     harnessConfig     `yaml:"harness"`
	Suggestions suggestionsConfig `yaml:"suggestions"`
}

// loadConfigDir reads every *.yaml/*.yml file in dir in lexical order into
// one appConfig. Components may live in a single config.yaml or in one file
// per component; later files override earlier ones field by field.
func loadConfigDir(dir string) (*appConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read config dir: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no configuration files in %s", dir)
	}

	cfg := &appConfig{}
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		err = parseConfigFile(f, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	return cfg, nil
}

func parseConfigFile(r io.ReadCloser, cfg *appConfig) error {
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(b, cfg)
}

// Validate rejects a configuration that cannot possibly work before any
// connection is attempted.
func (cfg *appConfig) Validate() error {
	err := cfg.Hub.sessionConfig().Validate()
	if err != nil {
		return err
	}

	if cfg.InfluxDB.URL == "" || cfg.InfluxDB.Token == "" {
		return errors.New("influxdb url and token must not be empty")
	}
	if cfg.InfluxDB.Org == "" || cfg.InfluxDB.Bucket == "" {
		return errors.New("influxdb org and bucket must not be empty")
	}

	if cfg.Weather.enabled() {
		err = cfg.Weather.serviceConfig().Validate()
		if err != nil {
			return err
		}
	}

	switch cfg.Safety.level() {
	case safety.LevelStrict, safety.LevelModerate, safety.LevelPermissive:
	default:
		return fmt.Errorf("unknown safety level %q", cfg.Safety.Level)
	}

	if cfg.LLM.URL == "" {
		return errors.New("llm url must not be empty")
	}

	return nil
}
