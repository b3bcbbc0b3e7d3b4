package main

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/myrjola/cyclefit/internal/errors"
)

// cspReport is the body browsers send to the report-uri of the Content-Security-Policy.
type cspReport struct {
	CSPReport struct {
		DocumentURI       string `json:"document-uri"`
		ViolatedDirective string `json:"violated-directive"`
		BlockedURI        string `json:"blocked-uri"`
		SourceFile        string `json:"source-file"`
		LineNumber        int    `json:"line-number"`
		Disposition       string `json:"disposition"`
	} `json:"csp-report"`
}

const maxCSPReportBytes = 64 << 10

// cspViolation logs the CSP violations reported by browsers.
func (app *application) cspViolation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCSPReportBytes))
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to read CSP violation report", errors.SlogError(err))
		app.writeAPIError(w, r, http.StatusBadRequest, codeBadRequest, "unreadable body")
		return
	}

	var report cspReport
	if err = json.Unmarshal(body, &report); err != nil || report.CSPReport.ViolatedDirective == "" {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "invalid CSP violation report", slog.Int("body_bytes", len(body)))
		app.writeAPIError(w, r, http.StatusBadRequest, codeBadRequest, "invalid CSP report")
		return
	}

	v := report.CSPReport
	app.logger.LogAttrs(ctx, slog.LevelWarn, "CSP violation detected",
		slog.String("document_uri", v.DocumentURI),
		slog.String("violated_directive", v.ViolatedDirective),
		slog.String("blocked_uri", v.BlockedURI),
		slog.String("source_file", v.SourceFile),
		slog.Int("line_number", v.LineNumber),
		slog.String("disposition", v.Disposition),
		slog.String("user_agent", r.Header.Get("User-Agent")))
	w.WriteHeader(http.StatusNoContent)
}
