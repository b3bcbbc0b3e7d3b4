package testhelpers

import (
	"io"
	"strings"
	"sync/atomic"
	"testing"
)

// Writer writes every log line to t.Log so that logs only show up for failed tests.
type Writer struct {
	t    *testing.T
	done atomic.Bool
}

// NewWriter creates a Writer for t.
//
// Writing after t has finished panics. That usually means a server or background goroutine
// outlived its test.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{t: t}
	t.Cleanup(func() {
		w.done.Store(true)
	})
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.done.Load() {
		panic("testwriter: write after test completion, was the server shut down in t.Cleanup?")
	}
	if output := strings.TrimSuffix(string(p), "\n"); output != "" {
		w.t.Log(output)
	}
	return len(p), nil
}
