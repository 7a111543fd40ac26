package responses

import (
	"encoding/json"
	"io"
	"net/http"
)

// ListWriter incrementally emits a `{"<root>":[...]}` JSON document,
// one element per WriteRecord call, without buffering the full list.
// The status line and document opening are deferred until the first
// record (or a clean Close), so a producer that fails before emitting
// anything can still answer with an error envelope instead. It is
// single-pass and non-restartable. Once started, Close always emits
// the closing brackets, so the document stays well-formed even when
// the producer stops early.
type ListWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	status  int
	root    string
	started bool
	wrote   bool
	closed  bool
	err     error
}

// NewListWriter prepares a writer for the elements of root. Nothing is
// written until the first WriteRecord or Close. The caller must Close
// unless it abandons the response before Started reports true.
func NewListWriter(w http.ResponseWriter, status int, root string) *ListWriter {
	lw := &ListWriter{w: w, status: status, root: root}
	if flusher, ok := w.(http.Flusher); ok {
		lw.flusher = flusher
	}
	return lw
}

// Started reports whether the status line has been committed. While it
// is false the underlying ResponseWriter is still untouched and free
// for an error response.
func (lw *ListWriter) Started() bool {
	return lw.started
}

func (lw *ListWriter) begin() {
	lw.started = true
	lw.w.Header().Set("Content-Type", "application/json")
	lw.w.WriteHeader(lw.status)

	head, _ := json.Marshal(lw.root)
	if _, err := lw.w.Write(append(append([]byte{'{'}, head...), ':', '[')); err != nil {
		lw.err = err
	}
}

// WriteRecord appends one JSON-encoded element to the list, committing
// the response on the first call. Once a call fails, the writer is
// poisoned and every later call reports the same error.
func (lw *ListWriter) WriteRecord(record any) error {
	if lw.err != nil {
		return lw.err
	}
	if lw.closed {
		return io.ErrClosedPipe
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		lw.err = err
		return err
	}

	if !lw.started {
		lw.begin()
		if lw.err != nil {
			return lw.err
		}
	}

	if lw.wrote {
		if _, err := lw.w.Write([]byte{','}); err != nil {
			lw.err = err
			return err
		}
	}
	if _, err := lw.w.Write(encoded); err != nil {
		lw.err = err
		return err
	}
	lw.wrote = true

	if lw.flusher != nil {
		lw.flusher.Flush()
	}
	return nil
}

// Close terminates the list and the document, committing an empty one
// when nothing was streamed. Safe to call more than once; once started,
// the brackets are written exactly once, a poisoned writer included, so
// a truncated stream still parses. A writer poisoned before the first
// record leaves the response untouched.
func (lw *ListWriter) Close() error {
	if lw.closed {
		return lw.err
	}
	lw.closed = true

	if !lw.started {
		if lw.err != nil {
			return lw.err
		}
		lw.begin()
		if lw.err != nil {
			return lw.err
		}
	}

	if _, err := lw.w.Write([]byte("]}")); err != nil && lw.err == nil {
		lw.err = err
	}
	if lw.flusher != nil {
		lw.flusher.Flush()
	}
	return lw.err
}
