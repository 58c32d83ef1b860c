package accesslog

import (
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Record is a single access-log entry.  A Record is built once per request,
// after the inner handler finished, and is immutable from the formatter's
// point of view.
type Record struct {
	// Method is the request method.
	Method string

	// Status is the final response status, after error dispatch.
	Status int

	// Path is the request URL path.
	Path string

	// Timestamp is when handling started.  It is the zero time when
	// timestamps are disabled, and formatters omit it in that case.
	Timestamp time.Time

	// Elapsed is the total handling duration.  Never negative.
	Elapsed time.Duration

	// BytesWritten is the response body size.
	BytesWritten int64

	// RequestID correlates this record with error payloads and
	// diagnostics.  Empty when the reqid middleware is not installed.
	RequestID string

	// TraceID is the active trace identifier, when the request carries
	// a sampled OpenTelemetry span.
	TraceID string
}

// Formatter renders a Record as a single log line, without a trailing
// newline.  Formatters must be safe for concurrent use; the provided
// implementations are stateless.
type Formatter interface {
	Format(rec Record) string
}

// Line is the default Formatter.  It produces
//
//	<METHOD> <STATUS> <PATH> <TIMESTAMP> (<ELAPSED>)
//
// with the timestamp segment omitted for zero timestamps, for example
//
//	GET 200 / 2024-01-01T00:00:00Z (27.0µs)
//	GET 200 / (27.0µs)
type Line struct{}

func (Line) Format(rec Record) string {
	var b strings.Builder
	b.WriteString(rec.Method)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(rec.Status))
	b.WriteByte(' ')
	b.WriteString(rec.Path)
	if !rec.Timestamp.IsZero() {
		b.WriteByte(' ')
		b.WriteString(rec.Timestamp.UTC().Format(time.RFC3339))
	}

	b.WriteString(" (")
	b.WriteString(Elapsed(rec.Elapsed))
	b.WriteByte(')')
	return b.String()
}

// JSON renders records as single-line JSON objects for log shippers.
type JSON struct{}

func (JSON) Format(rec Record) string {
	entry := struct {
		Method    string `json:"method"`
		Status    int    `json:"status"`
		Path      string `json:"path"`
		Timestamp string `json:"timestamp,omitempty"`
		Elapsed   string `json:"elapsed"`
		Bytes     int64  `json:"bytes"`
		RequestID string `json:"requestId,omitempty"`
		TraceID   string `json:"traceId,omitempty"`
	}{
		Method:    rec.Method,
		Status:    rec.Status,
		Path:      rec.Path,
		Elapsed:   Elapsed(rec.Elapsed),
		Bytes:     rec.BytesWritten,
		RequestID: rec.RequestID,
		TraceID:   rec.TraceID,
	}

	if !rec.Timestamp.IsZero() {
		entry.Timestamp = rec.Timestamp.UTC().Format(time.RFC3339)
	}

	line, err := sonic.Marshal(entry)
	if err != nil {
		// entry contains only strings and integers; this cannot happen
		return ""
	}

	return string(line)
}

// Elapsed renders a duration at a human-legible scale: microseconds with
// one decimal below a millisecond, milliseconds with one decimal below a
// second, seconds with two decimals above.  Negative durations are
// clamped to zero.
func Elapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Millisecond:
		return strconv.FormatFloat(float64(d.Nanoseconds())/1e3, 'f', 1, 64) + "µs"

	case d < time.Second:
		return strconv.FormatFloat(float64(d.Nanoseconds())/1e6, 'f', 1, 64) + "ms"

	default:
		return strconv.FormatFloat(d.Seconds(), 'f', 2, 64) + "s"
	}
}
