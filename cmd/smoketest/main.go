package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/myrjola/cyclefit/internal/e2etest"
	"github.com/myrjola/cyclefit/internal/logging"
	"github.com/myrjola/cyclefit/internal/testhelpers"
)

func testWorkoutFlow(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	user, err := e2etest.CreateUser(ctx, client, "smoke-"+strings.ToLower(rand.Text()[:10]), 3) //nolint:mnd // mid level
	if err != nil {
		return err
	}
	if err = e2etest.LogCycle(ctx, client, user.ID, 0); err != nil {
		return err
	}
	if err = e2etest.WorkoutScenario(ctx, client, user.ID, 3); err != nil { //nolint:mnd // neutral rating
		return fmt.Errorf("workout scenario: %w", err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err := testWorkoutFlow(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing workout flow", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
