package main

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/myrjola/cyclefit/internal/e2etest"
	"github.com/myrjola/cyclefit/internal/testhelpers"
	"github.com/myrjola/cyclefit/internal/workout"
)

func testLookupEnv(t *testing.T, overrides map[string]string) func(string) (string, bool) {
	t.Helper()
	env := map[string]string{
		"CYCLEFIT_SQLITE_URL": ":memory:",
		"CYCLEFIT_ADDR":       "localhost:0",
		"CYCLEFIT_SEED":       "42",
		"CYCLEFIT_RATE_LIMIT": "0",
		"CYCLEFIT_EXPORT_DIR": t.TempDir(),
	}
	for k, v := range overrides {
		env[k] = v
	}
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func startTestServer(t *testing.T, overrides map[string]string) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv(t, overrides), run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	return server
}

var userCounter atomic.Int64 //nolint:gochecknoglobals // unique usernames across tests

// createTestUser creates a user through the API.
func createTestUser(t *testing.T, client *e2etest.Client, goal string, level int, equipment ...string) workout.User {
	t.Helper()
	n := userCounter.Add(1)
	req := map[string]any{
		"username":            fmt.Sprintf("user%d", n),
		"email":               fmt.Sprintf("user%d@example.com", n),
		"fitness_goal":        goal,
		"fitness_level":       level,
		"available_equipment": equipment,
	}
	var user workout.User
	if err := client.PostJSON(t.Context(), "/api/users", req, http.StatusCreated, &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// wantStatus asserts that err is a *e2etest.StatusError with status code want.
func wantStatus(t *testing.T, err error, want int) *e2etest.StatusError {
	t.Helper()
	var statusErr *e2etest.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want status %d", err, want)
	}
	if statusErr.StatusCode != want {
		t.Fatalf("status = %d, want %d: %s", statusErr.StatusCode, want, statusErr.Body)
	}
	return statusErr
}
