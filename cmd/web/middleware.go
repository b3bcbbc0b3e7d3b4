package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/trace"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	"github.com/myrjola/cyclefit/internal/contexthelpers"
	"github.com/myrjola/cyclefit/internal/errors"
	"github.com/myrjola/cyclefit/internal/logging"
	"github.com/myrjola/cyclefit/internal/metrics"
)

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		headerWritten:  false,
	}
}

func (mw *statusResponseWriter) WriteHeader(statusCode int) {
	mw.ResponseWriter.WriteHeader(statusCode)

	if !mw.headerWritten {
		mw.statusCode = statusCode
		mw.headerWritten = true
	}
}

func (mw *statusResponseWriter) Write(b []byte) (int, error) {
	mw.headerWritten = true
	written, err := mw.ResponseWriter.Write(b)
	if err != nil {
		return written, fmt.Errorf("write response: %w", err)
	}
	return written, nil
}

func (mw *statusResponseWriter) Unwrap() http.ResponseWriter {
	return mw.ResponseWriter
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Generate a random nonce for use in CSP and set it in the context so that it can be added to the script tags.
		cspNonce := rand.Text()
		csp := fmt.Sprintf(`default-src 'none';
script-src 'nonce-%s' 'strict-dynamic' 'unsafe-inline' https: http:;
connect-src 'self';
img-src 'self';
style-src 'nonce-%s' 'self' 'unsafe-inline';
frame-ancestors 'self';
form-action 'self';
font-src 'none';
object-src 'none';
manifest-src 'self';
base-uri 'none';
report-uri /api/csp-violation-report;`, cspNonce, cspNonce)

		w.Header().Set("Content-Security-Policy", csp)
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")

		r = contexthelpers.SetCSPNonce(r, cspNonce)

		next.ServeHTTP(w, r)
	})
}

func cacheForever(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

		next.ServeHTTP(w, r)
	})
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}

// logAndTraceRequest logs the request, tags the context with a trace id and records the HTTP metrics under the
// matched route pattern.
func (app *application) logAndTraceRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
			route  = r.Pattern
		)
		if route == "" {
			route = "unmatched"
		}

		ctx := r.Context()
		traceID := rand.Text()
		ctx = contexthelpers.WithTraceID(ctx, traceID)
		ctx = logging.WithAttrs(
			ctx,
			slog.Any("trace_id", traceID),
			slog.String("proto", proto),
			slog.String("method", method),
			slog.String("uri", uri),
		)
		r = r.WithContext(ctx)
		w.Header().Set("X-Trace-Id", traceID)

		start := time.Now()
		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request")
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		sw := newStatusResponseWriter(w)

		if !trace.IsEnabled() {
			next.ServeHTTP(sw, r)
		} else {
			taskName := fmt.Sprintf("HTTP %s %s", method, route)
			traceCtx, task := trace.NewTask(ctx, taskName)
			trace.Log(traceCtx, "request", fmt.Sprintf("method=%s path=%s proto=%s", method, r.URL.Path, proto))
			trace.Log(traceCtx, "trace_id", traceID)

			defer func() {
				trace.Log(traceCtx, "response", fmt.Sprintf("status=%d duration=%v", sw.statusCode, time.Since(start)))
				task.End()
			}()

			r = r.WithContext(traceCtx)
			next.ServeHTTP(sw, r)
		}

		duration := time.Since(start)
		metrics.RecordHTTPRequest(method, route, sw.statusCode, duration)
		app.captureTrace(r.Context(), sw.statusCode, duration)

		level := slog.LevelInfo
		if sw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		app.logger.LogAttrs(r.Context(), level, "request completed",
			slog.Int("status_code", sw.statusCode), slog.Duration("duration", duration))
	})
}

// captureTrace dumps the flight recorder when the request timed out or exceeded the slow request threshold.
func (app *application) captureTrace(ctx context.Context, status int, duration time.Duration) {
	if app.flightRecorder == nil {
		return
	}
	switch {
	case status == http.StatusServiceUnavailable:
		app.flightRecorder.Capture(ctx, "timeout")
	case app.slowRequest > 0 && duration >= app.slowRequest:
		app.flightRecorder.Capture(ctx, "slow-request")
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if excp := recover(); excp != nil {
				err := errors.DecoratePanic(excp)
				w.Header().Set("Connection", "close")
				if isAPIRequest(r) {
					app.serviceError(w, r, err, "")
					return
				}
				app.serverError(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCurrentPath(r, r.URL.Path)
		r = contexthelpers.SetLanguage(r, requestLanguage(r))
		next.ServeHTTP(w, r)
	})
}

// crossOriginProtection implements CSRF protection using Go 1.25's CrossOriginProtection.
func (app *application) crossOriginProtection(next http.Handler) http.Handler {
	protection := http.NewCrossOriginProtection()
	return protection.Handler(next)
}

// timeout times out the request and cancels the context using http.TimeoutHandler.
func (app *application) timeout(next http.Handler) http.Handler {
	// Writing the response takes time so leave a margin before the server write timeout.
	return http.TimeoutHandler(next, defaultTimeout-200*time.Millisecond, "timed out") //nolint:mnd // 200ms
}

// rateLimiter limits API requests per client IP. A non-positive limit disables limiting.
func (app *application) rateLimiter() func(http.Handler) http.Handler {
	if app.rateLimit <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		app.rateLimit,
		app.rateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			app.writeAPIError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
		}),
	)
}
