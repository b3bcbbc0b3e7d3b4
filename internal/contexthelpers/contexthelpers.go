// Package contexthelpers stores request scoped values in the request context.
package contexthelpers

import (
	"context"
	"net/http"

	"github.com/myrjola/cyclefit/internal/i18n"
)

type contextKey string

const (
	currentPathContextKey = contextKey("currentPath")
	cspNonceContextKey    = contextKey("cspNonce")
	traceIDContextKey     = contextKey("traceID")
	languageContextKey    = contextKey("language")
)

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentPathContextKey, currentPath))
}

func CurrentPath(ctx context.Context) string {
	currentPath, _ := ctx.Value(currentPathContextKey).(string)
	return currentPath
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), cspNonceContextKey, cspNonce))
}

func CSPNonce(ctx context.Context) string {
	cspNonce, _ := ctx.Value(cspNonceContextKey).(string)
	return cspNonce
}

// WithTraceID returns ctx carrying the trace id of the current request.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDContextKey, traceID)
}

// TraceID returns the trace id of the current request or an empty string.
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDContextKey).(string)
	return traceID
}

func SetLanguage(r *http.Request, language i18n.Language) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), languageContextKey, language))
}

// Language returns the interface language of the request, defaulting to i18n.DefaultLanguage.
func Language(ctx context.Context) i18n.Language {
	if language, ok := ctx.Value(languageContextKey).(i18n.Language); ok {
		return language
	}
	return i18n.DefaultLanguage
}
