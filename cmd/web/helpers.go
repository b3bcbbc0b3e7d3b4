package main

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/myrjola/cyclefit/internal/errors"
	"github.com/myrjola/cyclefit/internal/validation"
	"github.com/myrjola/cyclefit/internal/workout"
)

const maxRequestBodyBytes = 1 << 20

// API error codes.
const (
	codeBadRequest = "BAD_REQUEST"
	codeNotFound   = "NOT_FOUND"
	codeConflict   = "CONFLICT"
	codeInternal   = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.render(w, r, http.StatusInternalServerError, "error", newBaseTemplateData(r))
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusNotFound, "not-found", newBaseTemplateData(r))
}

// redirect detects if the request is originating from a fetch API call or a top-level navigation and points the user
// to the correct URL.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("Sec-Fetch-Dest") == "empty" {
		w.Header().Set("Content-Location", path)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, path, http.StatusSeeOther)
}

// writeJSON encodes v as the response body.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to marshal JSON response", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "failed to write JSON response", errors.SlogError(err))
	}
}

func (app *application) writeAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	app.writeJSON(w, r, status, apiError{Code: code, Message: message})
}

// serviceError maps err returned by the workout service to an API error response.
func (app *application) serviceError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, workout.ErrNotFound):
		app.writeAPIError(w, r, http.StatusNotFound, codeNotFound, notFoundMessage)
	case errors.Is(err, workout.ErrConflict):
		app.writeAPIError(w, r, http.StatusConflict, codeConflict, "username or email already taken")
	default:
		app.logger.LogAttrs(r.Context(), slog.LevelError, "api error", errors.SlogError(err))
		app.writeAPIError(w, r, http.StatusInternalServerError, codeInternal, http.StatusText(http.StatusInternalServerError))
	}
}

// decodeJSON decodes and validates the request body into dst. It writes the error response and returns false on
// failure.
func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelInfo, "invalid request body", errors.SlogError(err))
		app.writeAPIError(w, r, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		app.writeJSON(w, r, http.StatusBadRequest, verr.ToAPIError())
		return false
	}
	return true
}

// validateQuery validates params parsed from the query string.
func (app *application) validateQuery(w http.ResponseWriter, r *http.Request, params any) bool {
	if verr := validation.ValidateStruct(params); verr != nil {
		app.writeJSON(w, r, http.StatusBadRequest, verr.ToAPIError())
		return false
	}
	return true
}

// parseIDParam parses the positive integer path parameter name. On failure, it sends an API 404 response.
func (app *application) parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		app.writeAPIError(w, r, http.StatusNotFound, codeNotFound, name+" not found")
		return 0, false
	}
	return id, true
}
