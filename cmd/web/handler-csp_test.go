package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/myrjola/cyclefit/internal/logging"
)

func Test_application_cspViolation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		logContains []string
	}{
		{
			name: "full report",
			body: `{"csp-report": {"document-uri": "https://example.com/exercises", ` +
				`"violated-directive": "script-src", "blocked-uri": "https://evil.com/script.js", ` +
				`"line-number": 42, "disposition": "enforce"}}`,
			wantStatus:  http.StatusNoContent,
			logContains: []string{"CSP violation detected", "script-src", "https://evil.com/script.js", "line_number=42"},
		},
		{
			name:        "minimal report",
			body:        `{"csp-report": {"violated-directive": "img-src"}}`,
			wantStatus:  http.StatusNoContent,
			logContains: []string{"CSP violation detected", "img-src"},
		},
		{
			name:        "invalid JSON",
			body:        `{"csp-report": `,
			wantStatus:  http.StatusBadRequest,
			logContains: []string{"invalid CSP violation report"},
		},
		{
			name:        "missing directive",
			body:        `{"csp-report": {}}`,
			wantStatus:  http.StatusBadRequest,
			logContains: []string{"invalid CSP violation report"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			app := &application{ //nolint:exhaustruct // only the logger is needed
				logger: logging.NewLogger(&logs, nil),
			}

			req := httptest.NewRequest(http.MethodPost, "/api/csp-violation-report", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/csp-report")
			w := httptest.NewRecorder()

			app.cspViolation(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusNoContent && w.Body.Len() != 0 {
				t.Errorf("expected an empty body, got %q", w.Body.String())
			}
			for _, want := range tt.logContains {
				if !strings.Contains(logs.String(), want) {
					t.Errorf("log does not contain %q:\n%s", want, logs.String())
				}
			}
		})
	}
}
