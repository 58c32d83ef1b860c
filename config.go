package httptrail

// Mode identifies the environment a process was configured for.  The mode
// only influences configuration defaults; nothing in this library inspects
// it at request time.
type Mode int

const (
	// Development is the default mode.  Debug output is enabled and
	// access-log timestamps are suppressed for readability.
	Development Mode = iota

	// Production enables timestamps and disables debug output.
	Production

	// Test disables access-log emission entirely so test output
	// stays quiet.
	Test
)

// String returns a human readable name for this mode.
func (m Mode) String() string {
	switch m {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// Config is the process-wide static configuration shared by the access log
// and the error dispatcher.  A Config is built once at startup, typically
// via New, and is read-only from then on.  Because it is never mutated
// during request handling, it may be shared freely across goroutines.
type Config struct {
	// Mode records the environment this configuration was built for.
	Mode Mode

	// ShowTimestamps controls whether access-log lines carry the
	// request timestamp.
	ShowTimestamps bool

	// LogEnabled controls whether access-log records are emitted at all.
	// When false the logging middleware is a no-op passthrough.
	LogEnabled bool

	// DebugOutput switches error responses between developer-facing
	// diagnostics (message, class, stack trace) and minimal generic
	// payloads.
	DebugOutput bool
}

// NewConfig produces the default configuration for the given mode:
//
//   - timestamps are shown only in Production
//   - access logging is on everywhere except Test
//   - debug output is on everywhere except Production
//
// Callers may adjust individual fields on the returned value before
// handing it to the middleware constructors.
func NewConfig(m Mode) Config {
	return Config{
		Mode:           m,
		ShowTimestamps: m == Production,
		LogEnabled:     m != Test,
		DebugOutput:    m != Production,
	}
}
