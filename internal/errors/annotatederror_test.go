package errors_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/cyclefit/internal/errors"
	"github.com/myrjola/cyclefit/internal/testhelpers"
)

func TestAnnotatedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sentinel",
			err:  errors.NewSentinel("plan not found"),
			want: "plan not found",
		},
		{
			name: "annotated",
			err:  errors.Wrap(errors.NewSentinel("plan not found"), "get workout", slog.String("planID", "p1")),
			want: "get workout: plan not found",
		},
		{
			name: "nested",
			err: errors.Wrap(
				errors.Wrap(errors.NewSentinel("plan not found"), "get workout"),
				"render workout",
			),
			want: "render workout: get workout: plan not found",
		},
		{
			name: "nil cause",
			err:  errors.Wrap(nil, "populate config"),
			want: "populate config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAsUnwrap(t *testing.T) {
	notFound := errors.NewSentinel("not found")
	wrapped := errors.Wrap(fmt.Errorf("query user: %w", notFound), "get user")

	if !errors.Is(wrapped, notFound) {
		t.Error("Is() = false, want true for wrapped sentinel")
	}
	if errors.Is(wrapped, errors.NewSentinel("not found")) {
		t.Error("Is() = true, want false for a different sentinel with the same message")
	}
	if errors.Unwrap(notFound) != nil {
		t.Error("Unwrap(sentinel) != nil")
	}

	root := &validationError{field: "fitness_level"}
	var target *validationError
	if !errors.As(errors.Wrap(root, "create user"), &target) || target != root {
		t.Errorf("As() target = %v, want %v", target, root)
	}
}

type validationError struct {
	field string
}

func (e *validationError) Error() string {
	return "invalid " + e.field
}

func TestSlogError(t *testing.T) {
	err := errors.Wrap(errors.NewSentinel("disk full"), "persist plan", slog.String("planID", "p1"), slog.Int("userID", 7))
	err = errors.Wrap(err, "generate workout", slog.String("goal", "Toning"))
	var buf bytes.Buffer
	l := testhelpers.NewLogger(&buf)
	l.Info("test", errors.SlogError(err))
	logLine := buf.String()
	expectedContent := []string{
		`error.message="generate workout: persist plan: disk full"`,
		"error.annotations.planID=p1",
		"error.annotations.userID=7",
		"error.annotations.goal=Toning",
		"annotatederror_test.go:84",
	}
	for _, content := range expectedContent {
		if !strings.Contains(logLine, content) {
			t.Errorf("expected log line %s to contain %s", logLine, content)
		}
	}
	if strings.Contains(logLine, "annotatederror.go") {
		t.Fatal("expected annotatederror.go NOT to be in log line")
	}

	// None of these may panic.
	errors.SlogError(errors.Join(nil, nil, errors.NewSentinel("sentinel"), errors.New("test")))
	errors.SlogError(fmt.Errorf("test: %w", errors.NewSentinel("sentinel")))
	errors.SlogError(errors.Wrap(nil, "wrap error"))
	errors.SlogError(errors.Wrap(errors.Join(nil, nil), "wrap error"))

	if attr := errors.SlogError(nil); !attr.Equal(slog.Attr{}) {
		t.Errorf("SlogError(nil) = %v, want empty attr", attr)
	}
}

func TestDecoratePanic(t *testing.T) {
	if errors.DecoratePanic(nil) != nil {
		t.Error("DecoratePanic(nil) != nil")
	}

	defer func() {
		err := errors.DecoratePanic(recover())
		if err == nil {
			t.Fatal("expected error")
		}
		if got, want := err.Error(), "panic: catalog missing"; got != want {
			t.Errorf("err.Error(): got %q, want %q", got, want)
		}
		attr := errors.SlogError(err)
		if got, contains := attr.String(), "annotatederror_test.go:135"; !strings.Contains(got, contains) {
			t.Errorf("attr.String(): expected %q to contain %q", got, contains)
		}
	}()
	panic("catalog missing")
}
