package capture

import (
	"bufio"
	"io"
	"net"
	"net/http"
)

// OnStatus is a callback invoked exactly once, when the wrapped handler
// commits a status code either through WriteHeader or implicitly through
// the first Write.  Handlers that never write anything, including handlers
// that panic before writing, do not trigger these callbacks.
type OnStatus func(statusCode int)

// Writer is an http.ResponseWriter that records what the handler did with
// it.  Instances are created with New and are consumed by the access log
// and metrics middleware, which need the final status and body size after
// the inner handler returns.
type Writer interface {
	http.ResponseWriter

	// Status returns the committed status code, or zero if no header
	// has been written yet.  Callers observing zero after the handler
	// returned should treat the response as an implicit http.StatusOK.
	Status() int

	// BytesWritten returns the count of body bytes written so far.  The
	// Content-Length header is not consulted.
	BytesWritten() int64

	// OnStatus registers callbacks for the moment the status code is
	// committed.  If a status has already been committed, the callbacks
	// run immediately.
	OnStatus(...OnStatus)
}

// recorder is the base http.ResponseWriter decoration.
type recorder struct {
	http.ResponseWriter

	committed bool
	status    int
	written   int64
	onStatus  []OnStatus
}

func (r *recorder) Status() int {
	return r.status
}

func (r *recorder) BytesWritten() int64 {
	return r.written
}

func (r *recorder) OnStatus(c ...OnStatus) {
	if r.committed {
		for _, f := range c {
			f(r.status)
		}

		return
	}

	r.onStatus = append(r.onStatus, c...)
}

func (r *recorder) WriteHeader(statusCode int) {
	if !r.committed {
		r.status = statusCode
		for _, f := range r.onStatus {
			f(statusCode)
		}
	}

	// a second WriteHeader is a handler bug; let net/http report it
	r.committed = true
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *recorder) Write(p []byte) (int, error) {
	if !r.committed {
		r.WriteHeader(http.StatusOK)
	}

	n, err := r.ResponseWriter.Write(p)
	r.written += int64(n)
	return n, err
}

// the optional interface decorations below keep capabilities of the
// delegate visible through the recorder

type flusher struct {
	*recorder
}

func (f flusher) Flush() {
	if !f.committed {
		f.WriteHeader(http.StatusOK)
	}

	f.ResponseWriter.(http.Flusher).Flush()
}

type hijacker struct {
	*recorder
}

func (h hijacker) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return h.ResponseWriter.(http.Hijacker).Hijack()
}

type readerFrom struct {
	*recorder
}

func (rf readerFrom) ReadFrom(src io.Reader) (int64, error) {
	if !rf.committed {
		rf.WriteHeader(http.StatusOK)
	}

	n, err := rf.ResponseWriter.(io.ReaderFrom).ReadFrom(src)
	rf.written += n
	return n, err
}

const (
	maskFlusher = 1 << iota
	maskHijacker
	maskReaderFrom
)

// wrappers builds a Writer for each combination of optional interfaces
// the delegate supports.  Indexed by the bit mask above.
var wrappers = [8]func(*recorder) Writer{
	func(r *recorder) Writer { return r },
	func(r *recorder) Writer {
		return struct {
			*recorder
			http.Flusher
		}{r, flusher{r}}
	},
	func(r *recorder) Writer {
		return struct {
			*recorder
			http.Hijacker
		}{r, hijacker{r}}
	},
	func(r *recorder) Writer {
		return struct {
			*recorder
			http.Flusher
			http.Hijacker
		}{r, flusher{r}, hijacker{r}}
	},
	func(r *recorder) Writer {
		return struct {
			*recorder
			io.ReaderFrom
		}{r, readerFrom{r}}
	},
	func(r *recorder) Writer {
		return struct {
			*recorder
			http.Flusher
			io.ReaderFrom
		}{r, flusher{r}, readerFrom{r}}
	},
	func(r *recorder) Writer {
		return struct {
			*recorder
			http.Hijacker
			io.ReaderFrom
		}{r, hijacker{r}, readerFrom{r}}
	},
	func(r *recorder) Writer {
		return struct {
			*recorder
			http.Flusher
			http.Hijacker
			io.ReaderFrom
		}{r, flusher{r}, hijacker{r}, readerFrom{r}}
	},
}

// New wraps a delegate http.ResponseWriter in a Writer.  If the delegate
// is already a Writer it is returned unmodified, so stacking capture-aware
// middleware does not double-count anything.
//
// The returned Writer preserves the delegate's http.Flusher, http.Hijacker,
// and io.ReaderFrom implementations when present.
func New(delegate http.ResponseWriter) Writer {
	if w, ok := delegate.(Writer); ok {
		return w
	}

	r := &recorder{
		ResponseWriter: delegate,
	}

	mask := 0
	if _, ok := delegate.(http.Flusher); ok {
		mask |= maskFlusher
	}

	if _, ok := delegate.(http.Hijacker); ok {
		mask |= maskHijacker
	}

	if _, ok := delegate.(io.ReaderFrom); ok {
		mask |= maskReaderFrom
	}

	return wrappers[mask](r)
}
