package contexthelpers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/myrjola/cyclefit/internal/contexthelpers"
	"github.com/myrjola/cyclefit/internal/i18n"
)

func TestRequestValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/exercises", nil)
	if got := contexthelpers.CurrentPath(r.Context()); got != "" {
		t.Errorf("CurrentPath() = %q before set", got)
	}
	if got := contexthelpers.Language(r.Context()); got != i18n.DefaultLanguage {
		t.Errorf("Language() = %q before set", got)
	}

	r = contexthelpers.SetCurrentPath(r, "/exercises")
	r = contexthelpers.SetCSPNonce(r, "nonce")
	r = r.WithContext(contexthelpers.WithTraceID(r.Context(), "trace"))
	r = contexthelpers.SetLanguage(r, i18n.Finnish)

	if got := contexthelpers.CurrentPath(r.Context()); got != "/exercises" {
		t.Errorf("CurrentPath() = %q", got)
	}
	if got := contexthelpers.CSPNonce(r.Context()); got != "nonce" {
		t.Errorf("CSPNonce() = %q", got)
	}
	if got := contexthelpers.TraceID(r.Context()); got != "trace" {
		t.Errorf("TraceID() = %q", got)
	}
	if got := contexthelpers.Language(r.Context()); got != i18n.Finnish {
		t.Errorf("Language() = %q", got)
	}
}
