package accesslog

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/norvik-labs/httptrail"
	"github.com/norvik-labs/httptrail/capture"
	"github.com/norvik-labs/httptrail/reqid"
)

// Logger emits one Record per request through a Formatter to a sink.
// Construct with New; a Logger is immutable afterward and safe for
// concurrent use.
type Logger struct {
	cfg       httptrail.Config
	formatter Formatter
	diag      *slog.Logger
	now       func() time.Time

	sinkMu sync.Mutex
	sink   io.Writer
}

// Option configures a Logger beyond what Config covers.
type Option interface {
	apply(*Logger)
}

type optionFunc func(*Logger)

func (of optionFunc) apply(l *Logger) { of(l) }

// WithFormatter replaces the default Line formatter.
func WithFormatter(f Formatter) Option {
	return optionFunc(func(l *Logger) {
		if f != nil {
			l.formatter = f
		}
	})
}

// WithSink redirects log lines away from os.Stdout.  Writes to the sink
// are serialized by the Logger, one line per Write call.
func WithSink(w io.Writer) Option {
	return optionFunc(func(l *Logger) {
		if w != nil {
			l.sink = w
		}
	})
}

// WithDiagnostics sets the slog logger that receives sink-write failures.
func WithDiagnostics(d *slog.Logger) Option {
	return optionFunc(func(l *Logger) {
		if d != nil {
			l.diag = d
		}
	})
}

// WithClock overrides the time source.  Tests use this to produce
// deterministic timestamps and elapsed values.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(l *Logger) {
		if now != nil {
			l.now = now
		}
	})
}

// New builds a Logger from the process configuration.  cfg.LogEnabled and
// cfg.ShowTimestamps are honored; everything else defaults to the Line
// formatter writing to os.Stdout.
func New(cfg httptrail.Config, options ...Option) *Logger {
	l := &Logger{
		cfg:       cfg,
		formatter: Line{},
		sink:      os.Stdout,
		diag:      slog.Default(),
		now:       time.Now,
	}

	for _, o := range options {
		o.apply(l)
	}

	return l
}

// Then is the logging middleware.  It times the inner handler, reads the
// final status and body size through a capture.Writer, and emits exactly
// one record per request.  When logging is disabled by configuration, the
// next handler is returned as is and no per-request work happens at all.
func (l *Logger) Then(next http.Handler) http.Handler {
	if !l.cfg.LogEnabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := l.now()
		cw := capture.New(w)

		next.ServeHTTP(cw, r)

		elapsed := l.now().Sub(start)
		if elapsed < 0 {
			elapsed = 0
		}

		status := cw.Status()
		if status == 0 {
			// the handler wrote nothing; net/http sends an implicit 200
			status = http.StatusOK
		}

		rec := Record{
			Method:       r.Method,
			Status:       status,
			Path:         r.URL.Path,
			Elapsed:      elapsed,
			BytesWritten: cw.BytesWritten(),
			RequestID:    reqid.FromContext(r.Context()),
		}

		if l.cfg.ShowTimestamps {
			rec.Timestamp = start
		}

		if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.HasTraceID() {
			rec.TraceID = sc.TraceID().String()
		}

		l.emit(rec)
	})
}

// emit formats and writes one record.  The line goes out in a single
// serialized Write so concurrent requests cannot interleave within a
// line.  Failures are reported to the diagnostic logger; the response has
// already been sent and is unaffected.
func (l *Logger) emit(rec Record) {
	line := append([]byte(l.formatter.Format(rec)), '\n')

	l.sinkMu.Lock()
	_, err := l.sink.Write(line)
	l.sinkMu.Unlock()

	if err != nil {
		l.diag.Error("access log write failed",
			slog.String("method", rec.Method),
			slog.String("path", rec.Path),
			slog.Any("error", err),
		)
	}
}
