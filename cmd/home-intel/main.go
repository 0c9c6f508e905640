package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	k8shandlers "github.com/diwise/service-chassis/pkg/infrastructure/net/http/handlers"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/internal/pkg/application/calendar"
	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/application/enrichment"
	"github.com/homelab-tools/home-intel/internal/pkg/application/hub"
	"github.com/homelab-tools/home-intel/internal/pkg/application/patterns"
	"github.com/homelab-tools/home-intel/internal/pkg/application/safety"
	"github.com/homelab-tools/home-intel/internal/pkg/application/scheduler"
	"github.com/homelab-tools/home-intel/internal/pkg/application/suggestions"
	"github.com/homelab-tools/home-intel/internal/pkg/application/testharness"
	"github.com/homelab-tools/home-intel/internal/pkg/application/weather"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/hubapi"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/llm"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/storage"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/timeseries"
)

const serviceName string = "home-intel"

const (
	exitOK = iota
	exitInvalidConfig
	exitConnectivity
	exitPartialSuccess
)

type flagType int
type flagMap map[flagType]string

const (
	configDir flagType = iota
	logLevel
	dryRun
	runOnce
	listenAddress
	controlPort

	dbHost
	dbUser
	dbPassword
	dbPort
	dbName
	dbSSLMode
)

func defaultFlags() flagMap {
	return flagMap{
		configDir: "/opt/home-intel/config",
		logLevel:  "info",
		dryRun:    "false",
		runOnce:   "false",

		listenAddress: "0.0.0.0",
		controlPort:   "8000",

		dbHost:     "",
		dbUser:     "",
		dbPassword: "",
		dbPort:     "5432",
		dbName:     "homeintel",
		dbSSLMode:  "disable",
	}
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := buildinfo.SourceVersion()
	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, "json")

	code := run(ctx, flags, logger)

	cleanup()
	os.Exit(code)
}

func run(ctx context.Context, flags flagMap, logger *slog.Logger) int {
	cfg, err := loadConfigDir(flags[configDir])
	if err != nil {
		logger.Error("could not load configuration", "dir", flags[configDir], "err", err.Error())
		return exitInvalidConfig
	}

	applyEnvOverrides(ctx, cfg)

	err = cfg.Validate()
	if err != nil {
		logger.Error("configuration invalid", "err", err.Error())
		return exitInvalidConfig
	}

	if flags[dryRun] == "true" {
		logger.Info("configuration valid", "dir", flags[configDir])
		return exitOK
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := initialize(ctx, flags, cfg)
	if err != nil {
		logger.Error("initialization failed", "err", err.Error())
		return exitConnectivity
	}

	if flags[runOnce] == "true" {
		return app.runJobsOnce(ctx)
	}

	app.start(ctx, flags)

	<-ctx.Done()
	logger.Info("shutting down")

	app.shutdown(context.WithoutCancel(ctx))
	return exitOK
}

type app struct {
	store     *storage.Storage
	messenger messaging.MsgContext
	writer    timeseries.EventWriter
	quality   *enrichment.Collector
	pipeline  *enrichment.Pipeline
	session   hub.SessionManager
	weather   weather.WeatherService
	calendar  calendar.CalendarService
	suggester *suggestions.Service
	janitor   *testharness.Janitor
	scheduler *scheduler.Scheduler
	control   *http.Server
}

func initialize(ctx context.Context, flags flagMap, cfg *appConfig) (*app, error) {
	log := logging.GetFromContext(ctx)
	clk := clock.New()

	store, err := storage.New(ctx, storage.NewConfig(
		flags[dbHost], flags[dbUser], flags[dbPassword], flags[dbPort], flags[dbName], flags[dbSSLMode],
	))
	if err != nil {
		return nil, err
	}

	err = store.Initialize(ctx)
	if err != nil {
		return nil, err
	}

	messenger, err := messaging.Initialize(ctx, messaging.LoadConfiguration(ctx, serviceName, log))
	if err != nil {
		return nil, err
	}

	tsCfg := timeseries.Config{
		URL:           cfg.InfluxDB.URL,
		Token:         cfg.InfluxDB.Token,
		Org:           cfg.InfluxDB.Org,
		Bucket:        cfg.InfluxDB.Bucket,
		BatchSize:     cfg.InfluxDB.BatchSize,
		FlushInterval: cfg.InfluxDB.FlushInterval.std(),
		SpillPath:     cfg.InfluxDB.SpillPath,
	}

	writer, err := timeseries.New(tsCfg)
	if err != nil {
		return nil, err
	}
	reader := timeseries.NewReader(tsCfg)

	caps := capabilities.NewStore()

	var ws weather.WeatherService
	if cfg.Weather.enabled() {
		ws = weather.New(cfg.Weather.serviceConfig(), clk)
	}

	var cs calendar.CalendarService
	if cfg.Calendar.enabled() {
		cs = calendar.New(
			calendar.Config{RefreshInterval: cfg.Calendar.RefreshInterval.std()},
			calendar.NewHTTPSource(cfg.Calendar.URL, cfg.Calendar.Token),
			clk,
		)
	}

	quality := enrichment.NewCollector()
	pipeline := enrichment.NewPipeline(cfg.Enrichment, caps, ws, cs, writer, quality, messenger, clk)

	session := hub.New(cfg.Hub.sessionConfig(), caps, pipeline.Handle, clk)

	hubClient := hubapi.New(cfg.Hub.restBaseURL(), cfg.Hub.Token)
	oracle := llm.New(llm.Config{URL: cfg.LLM.URL, Token: cfg.LLM.Token, Model: cfg.LLM.Model})
	validator := safety.NewValidator(cfg.Safety.BulkWidth)

	sugOpts := []suggestions.Option{suggestions.WithSafetyLevel(cfg.Safety.level())}
	if cfg.Suggestions.QualityFloor > 0 {
		sugOpts = append(sugOpts, suggestions.WithQualityFloor(cfg.Suggestions.QualityFloor))
	}
	suggester := suggestions.New(store, oracle, caps, hubClient, validator, messenger, clk, sugOpts...)

	harnessOpts := []testharness.Option{}
	if cfg.Harness.TestDuration > 0 {
		harnessOpts = append(harnessOpts, testharness.WithTestDuration(cfg.Harness.TestDuration.std()))
	}
	harness := testharness.New(hubClient, oracle, validator, store, clk, harnessOpts...)
	janitor := testharness.NewJanitor(hubClient, store, messenger, clk)

	detectors := []patterns.Detector{
		patterns.NewTimeOfDayDetector(cfg.Detection.Options),
		patterns.NewSequenceDetector(cfg.Detection.Options, cfg.Detection.SequenceWindow.std()),
		patterns.NewCoOccurrenceDetector(cfg.Detection.Options, cfg.Detection.CoOccurrenceWindow.std()),
		patterns.NewDurationDetector(cfg.Detection.Options),
		patterns.NewAnomalyDetector(cfg.Detection.Options, cfg.Detection.AnomalyThreshold),
		patterns.NewContextualDetector(cfg.Detection.Options),
	}
	runner := patterns.NewRunner(detectors, reader, store, messenger, clk)

	schedCfg := cfg.Scheduler.config().WithDefaults()
	sched := scheduler.New()
	sched.Register(ctx, "detection-sweep", schedCfg.DetectionInterval,
		scheduler.DetectionJob(runner, suggester, clk, schedCfg.LookBack))
	sched.Register(ctx, "aggregate-rollup", schedCfg.RollupInterval,
		scheduler.RollupJob(reader, writer, clk))
	sched.Register(ctx, "capability-refresh", schedCfg.CapabilityInterval,
		scheduler.CapabilityRefreshJob(session))
	if ws != nil {
		sched.Register(ctx, "weather-scan", schedCfg.WeatherInterval,
			scheduler.WeatherScanJob(ws, store, messenger, clk))
	}

	a := &app{
		store:     store,
		messenger: messenger,
		writer:    writer,
		quality:   quality,
		pipeline:  pipeline,
		session:   session,
		weather:   ws,
		calendar:  cs,
		suggester: suggester,
		janitor:   janitor,
		scheduler: sched,
	}

	err = a.registerHandlers(ctx, harness, store)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) registerHandlers(ctx context.Context, harness *testharness.Harness, store *storage.Storage) error {
	err := a.suggester.RegisterTopicMessageHandlers(ctx)
	if err != nil {
		return err
	}

	return a.messenger.RegisterTopicMessageHandler(
		"harness.cmd.test", testharness.NewTestRequestHandler(harness, store, a.messenger),
	)
}

func (a *app) start(ctx context.Context, flags flagMap) {
	a.messenger.Start()
	a.writer.Start(ctx)
	if a.calendar != nil {
		a.calendar.Start(ctx)
	}
	a.pipeline.Start(ctx)
	a.session.Start(ctx)
	a.janitor.Start(ctx)
	a.scheduler.Start(ctx)

	a.control = newControlServer(a, flags[listenAddress]+":"+flags[controlPort])
	go func() {
		err := a.control.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.GetFromContext(ctx).Error("control server failed", "err", err.Error())
		}
	}()
}

func (a *app) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if a.control != nil {
		_ = a.control.Shutdown(ctx)
	}

	a.scheduler.Stop(ctx)
	a.session.Stop(ctx)
	a.pipeline.Stop(ctx)
	if a.calendar != nil {
		a.calendar.Stop(ctx)
	}
	a.writer.Stop(ctx)
	a.messenger.Close()
	a.store.Close()
}

// runJobsOnce drives a single pass over the scheduled jobs and exits.
// A job failure after earlier jobs succeeded is reported as partial.
func (a *app) runJobsOnce(ctx context.Context) int {
	log := logging.GetFromContext(ctx)

	a.writer.Start(ctx)

	err := a.scheduler.RunOnce(ctx)

	a.writer.Stop(ctx)
	a.messenger.Close()
	a.store.Close()

	if err != nil {
		log.Error("job run incomplete", "err", err.Error())
		return exitPartialSuccess
	}

	log.Info("all jobs completed")
	return exitOK
}

func newControlServer(a *app, addr string) *http.Server {
	probes := map[string]k8shandlers.ServiceProber{
		"hub": func(context.Context) (string, error) {
			if !a.session.Connected() {
				return "", errors.New("hub session not active")
			}
			return "ok", nil
		},
		"influxdb": func(context.Context) (string, error) {
			if !a.writer.Healthy() {
				return "", errors.New("writer is spilling to disk")
			}
			return "ok", nil
		},
		"timescale": func(ctx context.Context) (string, error) {
			return "ok", a.store.Ping(ctx)
		},
		"ingest": func(context.Context) (string, error) {
			rating := a.quality.HealthRating()
			if rating == enrichment.HealthUnhealthy {
				return "", errors.New("validation health is " + rating)
			}
			return rating, nil
		},
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		code := http.StatusOK
		for name, probe := range probes {
			_, err := probe(r.Context())
			if err != nil {
				logging.GetFromContext(r.Context()).Warn("readiness probe failed", "probe", name, "err", err.Error())
				code = http.StatusServiceUnavailable
			}
		}
		w.WriteHeader(code)
	})

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &http.Server{Addr: addr, Handler: mux}
}

func applyEnvOverrides(ctx context.Context, cfg *appConfig) {
	envOrDef := env.GetVariableOrDefault

	cfg.Hub.Token = envOrDef(ctx, "HUB_TOKEN", cfg.Hub.Token)
	cfg.Weather.APIKey = envOrDef(ctx, "WEATHER_API_KEY", cfg.Weather.APIKey)
	cfg.Calendar.Token = envOrDef(ctx, "CALENDAR_TOKEN", cfg.Calendar.Token)
	cfg.InfluxDB.Token = envOrDef(ctx, "INFLUXDB_TOKEN", cfg.InfluxDB.Token)
	cfg.LLM.Token = envOrDef(ctx, "LLM_TOKEN", cfg.LLM.Token)
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault

	flags[configDir] = envOrDef(ctx, "CONFIG_DIR", flags[configDir])
	flags[logLevel] = envOrDef(ctx, "LOG_LEVEL", flags[logLevel])
	flags[listenAddress] = envOrDef(ctx, "LISTEN_ADDRESS", flags[listenAddress])
	flags[controlPort] = envOrDef(ctx, "CONTROL_PORT", flags[controlPort])

	flags[dbHost] = envOrDef(ctx, "POSTGRES_HOST", flags[dbHost])
	flags[dbPort] = envOrDef(ctx, "POSTGRES_PORT", flags[dbPort])
	flags[dbName] = envOrDef(ctx, "POSTGRES_DBNAME", flags[dbName])
	flags[dbUser] = envOrDef(ctx, "POSTGRES_USER", flags[dbUser])
	flags[dbPassword] = envOrDef(ctx, "POSTGRES_PASSWORD", flags[dbPassword])
	flags[dbSSLMode] = envOrDef(ctx, "POSTGRES_SSLMODE", flags[dbSSLMode])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	set := func(f flagType) func(string) error {
		return func(string) error {
			flags[f] = "true"
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("config-dir", "directory holding the yaml configuration files", apply(configDir))
	flag.Func("log-level", "minimum log level", apply(logLevel))
	flag.BoolFunc("dry-run", "validate configuration and exit", set(dryRun))
	flag.BoolFunc("once", "run the scheduled jobs a single time and exit", set(runOnce))
	flag.Parse()

	os.Setenv("LOG_LEVEL", flags[logLevel])

	return ctx, flags
}
