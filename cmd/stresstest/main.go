package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/myrjola/cyclefit/internal/e2etest"
	"github.com/myrjola/cyclefit/internal/logging"
	"github.com/myrjola/cyclefit/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	userSetupTimeout        = 30 * time.Second
	scenarioTimeout         = 30 * time.Second
	historyTimeout          = 5 * time.Minute
	maxConcurrentSetups     = 10
	maxConcurrentOperations = 20
	numUsers                = 10
	historyWorkouts         = 12
	cycleLengthDays         = 28
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
	maxRating               = 5
)

// SetupUsers creates numUsers users, each in a different day of their cycle.
func SetupUsers(ctx context.Context, client *e2etest.Client, logger *slog.Logger) ([]e2etest.ScenarioUser, error) {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting user setup", slog.Int("num_users", numUsers))

	var (
		users   = make([]e2etest.ScenarioUser, 0, numUsers)
		usersMu sync.Mutex
		prefix  = strings.ToLower(rand.Text()[:8])
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSetups)
	for i := range numUsers {
		g.Go(func() error {
			setupCtx, cancel := context.WithTimeout(gctx, userSetupTimeout)
			defer cancel()

			user, err := e2etest.CreateUser(setupCtx, client, fmt.Sprintf("stress-%s-%d", prefix, i), i%maxRating+1)
			if err != nil {
				return fmt.Errorf("user %d: %w", i, err)
			}
			// Spread the users over the cycle so that every phase gets traffic.
			if err = e2etest.LogCycle(setupCtx, client, user.ID, i*cycleLengthDays/numUsers); err != nil {
				return fmt.Errorf("user %d: %w", i, err)
			}

			usersMu.Lock()
			users = append(users, user)
			usersMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return users, fmt.Errorf("setup users: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "All users set up successfully", slog.Int("total_users", len(users)))
	return users, nil
}

// GenerateHistory fills the plan history of every user.
func GenerateHistory(ctx context.Context, client *e2etest.Client, users []e2etest.ScenarioUser,
	logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSetups)
	for _, user := range users {
		g.Go(func() error {
			historyCtx, cancel := context.WithTimeout(gctx, historyTimeout)
			defer cancel()

			for i := range historyWorkouts {
				if err := e2etest.WorkoutScenario(historyCtx, client, user.ID, i%maxRating+1); err != nil {
					return fmt.Errorf("user %s: %w", user.Username, err)
				}
			}
			logger.LogAttrs(historyCtx, slog.LevelDebug, "Generated workout history",
				slog.String("username", user.Username))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("generate history: %w", err)
	}
	return nil
}

// RunLoadTest runs one workout scenario per user concurrently and fails below the success threshold.
func RunLoadTest(ctx context.Context, client *e2etest.Client, users []e2etest.ScenarioUser,
	logger *slog.Logger) error {
	userCount := len(users)
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_users", userCount))

	var successCount, failureCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)
	for _, user := range users {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(gctx, scenarioTimeout)
			defer cancel()

			if err := e2etest.WorkoutScenario(scenarioCtx, client, user.ID, maxRating); err != nil {
				failureCount.Add(1)
				// A failing scenario must not stop the others.
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.String("username", user.Username), slog.Any("error", err))
				return nil
			}
			successCount.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount.Load()) / float64(userCount) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount.Load()),
		slog.Int64("failed", failureCount.Load()),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
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

	setupStart := time.Now()
	users, err := SetupUsers(ctx, client, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to setup users", slog.Any("error", err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "User setup completed",
		slog.Duration("setup_duration", time.Since(setupStart)),
		slog.Int("users", len(users)))

	historyStart := time.Now()
	if err = GenerateHistory(ctx, client, users, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "some workout history generation failed, continuing with load test",
			slog.Any("error", err))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Workout history generation completed",
		slog.Duration("history_duration", time.Since(historyStart)),
		slog.Int("workouts_per_user", historyWorkouts))

	loadTestStart := time.Now()
	if err = RunLoadTest(ctx, client, users, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Stress test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Duration("load_test_duration", time.Since(loadTestStart)),
		slog.Int("users_tested", len(users)))
}
