// Package errors extends the standard errors package with errors that carry slog attributes and
// the source location where they were annotated.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// Re-exports so that callers need one errors import.
//
//nolint:gochecknoglobals // aliases of standard library functions.
var (
	New    = stderrors.New
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)

// NewSentinel creates an error meant to be compared with Is. It has no source location.
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	// source is file:line of the annotation, empty when unknown.
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// Wrap annotates err with msg, attrs and the location of the caller.
//
// A nil err is wrapped as well so that the annotation is not lost.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    err,
		attrs:  attrs,
		source: callerSource(3), //nolint:mnd // runtime.Callers, callerSource and Wrap.
	}
}

// DecoratePanic converts a value returned by recover into an error located at the panic site.
// It returns nil when v is nil.
func DecoratePanic(v any) error {
	if v == nil {
		return nil
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("%v", v)
	}
	source := panicSource()
	if source == "" {
		source = callerSource(3) //nolint:mnd // runtime.Callers, callerSource and DecoratePanic.
	}
	return &annotatedError{
		msg:    "panic",
		err:    err,
		attrs:  nil,
		source: source,
	}
}

// SlogError returns an "error" group with the message, the annotations of every wrapped
// annotatedError and the source of the innermost one.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		annotations []slog.Attr
		source      string
	)
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		ae, ok := e.(*annotatedError)
		if !ok {
			continue
		}
		annotations = append(annotations, ae.attrs...)
		if ae.source != "" {
			source = ae.source
		}
	}

	attrs := []slog.Attr{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

func callerSource(skip int) string {
	var pcs [8]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames(pcs[:n]).Next()
	return frameSource(frame)
}

// panicSource finds the first frame outside the runtime below runtime.gopanic.
func panicSource() string {
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return frameSource(frame)
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			return ""
		}
	}
}

func frameSource(frame runtime.Frame) string {
	if frame.File == "" {
		return ""
	}
	return frame.File + ":" + strconv.Itoa(frame.Line)
}
