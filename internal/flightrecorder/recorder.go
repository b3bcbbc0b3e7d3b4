// Package flightrecorder keeps a rolling in-memory execution trace and writes it to disk when a
// request times out or runs slow.
package flightrecorder

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"strings"
	"sync/atomic"
	"time"
)

const (
	defaultWindow   = time.Minute
	defaultMaxBytes = 16 * 1024 * 1024 // 16MB
	defaultCooldown = 10 * time.Minute
)

// Recorder wraps a runtime/trace flight recorder. It is safe for concurrent use.
type Recorder struct {
	logger      *slog.Logger
	fr          *trace.FlightRecorder
	dir         string
	cooldown    time.Duration
	lastCapture atomic.Int64
	now         func() time.Time
}

// Config configures a Recorder. Zero durations and sizes use the defaults.
type Config struct {
	Logger *slog.Logger
	// Dir receives the trace files. It is created when missing.
	Dir string
	// Window is how far back the trace reaches.
	Window   time.Duration
	MaxBytes uint64
	// Cooldown is the minimum time between two captures.
	Cooldown time.Duration
}

// New creates a stopped Recorder.
func New(cfg Config) (*Recorder, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Dir == "" {
		return nil, errors.New("traces directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil { //nolint:mnd // rwxr-x---
		return nil, fmt.Errorf("create traces directory: %w", err)
	}
	if stat, err := os.Stat(cfg.Dir); err != nil {
		return nil, fmt.Errorf("stat traces directory: %w", err)
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("traces path is not a directory: %s", cfg.Dir)
	}

	window := cfg.Window
	if window == 0 {
		window = defaultWindow
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = defaultCooldown
	}

	return &Recorder{
		logger:      cfg.Logger,
		fr:          trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: window, MaxBytes: maxBytes}),
		dir:         cfg.Dir,
		cooldown:    cooldown,
		lastCapture: atomic.Int64{},
		now:         time.Now,
	}, nil
}

// Start begins recording. Only one recorder can be active in a process.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.fr.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("dir", r.dir), slog.Duration("cooldown", r.cooldown))
	return nil
}

// Stop ends recording.
func (r *Recorder) Stop(ctx context.Context) {
	if !r.fr.Enabled() {
		return
	}
	r.fr.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the recorded window to a new file named after reason and returns its path. Captures
// within the cooldown of the previous one are skipped and return false.
func (r *Recorder) Capture(ctx context.Context, reason string) (string, bool) {
	if !r.fr.Enabled() {
		return "", false
	}
	now := r.now()
	last := r.lastCapture.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < r.cooldown {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.String("reason", reason), slog.Time("last_capture", time.Unix(0, last)))
		return "", false
	}
	if !r.lastCapture.CompareAndSwap(last, now.UnixNano()) {
		// Another request captured first.
		return "", false
	}

	name := fmt.Sprintf("%s-%s-%s.trace", reason, now.UTC().Format("20060102-150405"),
		strings.ToLower(rand.Text()[:6]))
	path := filepath.Join(r.dir, name)
	file, err := os.Create(path)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to create trace file",
			slog.String("file", path), slog.Any("error", err))
		return "", false
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to close trace file",
				slog.String("file", path), slog.Any("error", closeErr))
		}
	}()

	n, err := r.fr.WriteTo(file)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to write trace",
			slog.String("file", path), slog.Any("error", err))
		return "", false
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace",
		slog.String("reason", reason), slog.String("file", path), slog.Int64("bytes", n))
	return path, true
}
