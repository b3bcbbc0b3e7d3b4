package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
	"github.com/myrjola/cyclefit/internal/difficulty"
	"github.com/myrjola/cyclefit/internal/envstruct"
	"github.com/myrjola/cyclefit/internal/errors"
	"github.com/myrjola/cyclefit/internal/flightrecorder"
	"github.com/myrjola/cyclefit/internal/logging"
	"github.com/myrjola/cyclefit/internal/sqlite"
	"github.com/myrjola/cyclefit/internal/workout"
)

type application struct {
	logger         *slog.Logger
	templates      templateCache
	workoutService *workout.Service
	metricsEnabled bool
	rateLimit      int
	rateWindow     time.Duration
	exportDir      string
	// flightRecorder is nil unless CYCLEFIT_TRACES_DIR is set.
	flightRecorder *flightrecorder.Recorder
	slowRequest    time.Duration
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"CYCLEFIT_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"CYCLEFIT_SQLITE_URL" envDefault:"./cyclefit.sqlite3"`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"CYCLEFIT_TEMPLATE_PATH" envDefault:""`
	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `env:"CYCLEFIT_METRICS_ENABLED" envDefault:"true"`
	// RateLimit is the number of API requests a client IP may make per RateLimitWindow. Zero disables limiting.
	RateLimit       int           `env:"CYCLEFIT_RATE_LIMIT" envDefault:"120"`
	RateLimitWindow time.Duration `env:"CYCLEFIT_RATE_LIMIT_WINDOW" envDefault:"1m"`
	// Seed makes exercise sampling reproducible. Zero seeds every plan randomly.
	Seed uint64 `env:"CYCLEFIT_SEED" envDefault:"0"`
	// ExportDir receives the temporary user data exports. Empty uses the OS temp directory.
	ExportDir string `env:"CYCLEFIT_EXPORT_DIR" envDefault:""`
	// TracesDir enables the flight recorder. Timed out and slow requests dump an execution trace there.
	TracesDir   string        `env:"CYCLEFIT_TRACES_DIR" envDefault:""`
	SlowRequest time.Duration `env:"CYCLEFIT_SLOW_REQUEST" envDefault:"1s"`

	MenstrualDays    int `env:"CYCLEFIT_MENSTRUAL_DAYS" envDefault:"5"`
	FollicularEndDay int `env:"CYCLEFIT_FOLLICULAR_END_DAY" envDefault:"14"`
	OvulationEndDay  int `env:"CYCLEFIT_OVULATION_END_DAY" envDefault:"17"`
	CycleLengthDays  int `env:"CYCLEFIT_CYCLE_LENGTH_DAYS" envDefault:"28"`
}

func (c config) boundaries() cycle.Boundaries {
	return cycle.Boundaries{
		MenstrualDays:    c.MenstrualDays,
		FollicularEndDay: c.FollicularEndDay,
		OvulationEndDay:  c.OvulationEndDay,
		CycleLengthDays:  c.CycleLengthDays,
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	boundaries := cfg.boundaries()
	if err = boundaries.Validate(); err != nil {
		return errors.Wrap(err, "cycle boundaries")
	}

	var htmlTemplatePath string
	if htmlTemplatePath, err = resolveAndVerifyTemplatePath(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	templates, err := parseTemplates(os.DirFS(htmlTemplatePath))
	if err != nil {
		return errors.Wrap(err, "parse templates", slog.String("path", htmlTemplatePath))
	}

	engine, err := newEngine(cfg.Seed)
	if err != nil {
		return err
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(context.WithoutCancel(ctx), slog.LevelError, "failed to close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = os.TempDir()
	}

	var recorder *flightrecorder.Recorder
	if cfg.TracesDir != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:   logger,
			Dir:      cfg.TracesDir,
			Window:   0,
			MaxBytes: 0,
			Cooldown: 0,
		}); err != nil {
			return errors.Wrap(err, "create flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(context.WithoutCancel(ctx))
	}

	app := application{
		logger:         logger,
		templates:      templates,
		workoutService: workout.NewService(db, engine, logger, workout.WithBoundaries(boundaries)),
		metricsEnabled: cfg.MetricsEnabled,
		rateLimit:      cfg.RateLimit,
		rateWindow:     cfg.RateLimitWindow,
		exportDir:      exportDir,
		flightRecorder: recorder,
		slowRequest:    cfg.SlowRequest,
	}

	handler, err := app.routes()
	if err != nil {
		return errors.Wrap(err, "setup routes")
	}
	if err = app.configureAndStartServer(ctx, cfg.Addr, handler); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

// newEngine loads the embedded catalog and tables and fits the difficulty classifier.
func newEngine(seed uint64) (*workout.Engine, error) {
	exercises, err := catalog.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	tables, err := workout.LoadTables()
	if err != nil {
		return nil, errors.Wrap(err, "load adjustment tables")
	}
	var opts []workout.EngineOption
	if seed != 0 {
		opts = append(opts, workout.WithSeed(seed))
	}
	return workout.NewEngine(exercises, tables, difficulty.NewClassifier(), opts...), nil
}

func main() {
	ctx := context.Background()
	level, levelErr := logging.ParseLevel(os.Getenv("CYCLEFIT_LOG_LEVEL"))
	logger := logging.NewLogger(os.Stdout, level)
	if levelErr != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "invalid log level, using info", errors.SlogError(levelErr))
	}
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
