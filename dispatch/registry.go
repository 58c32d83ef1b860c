package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/norvik-labs/httptrail/reqid"
)

// Handler renders an error as a complete HTTP response.  The request is
// supplied for context: content negotiation, correlation identifiers, and
// so on.  Handlers must not write to the live response; they return a
// Response instead.
//
// A handler that cannot produce a response returns a non-nil error, which
// sends the request to the fixed last-resort response.
type Handler func(request *http.Request, err error) (Response, error)

// App is an application HTTP handler that may return an error instead of
// rendering its own failure response.  Returned errors are routed through
// the Registry that adapted the App.
type App func(http.ResponseWriter, *http.Request) error

// Observer is notified of every completed dispatch with the name of the
// error's class and the final response status.  The metrics package
// provides an Observer that feeds Prometheus counters.
type Observer func(class string, statusCode int)

// ErrNoFallback is returned by Builder.Build when no handler was
// registered for Generic.
var ErrNoFallback = errors.New("dispatch: no fallback handler registered for the generic class")

// Builder accumulates handler registrations.  Registration order is
// significant only when the same class is registered more than once, in
// which case the first registration wins.
//
// A Builder is not safe for concurrent use; build the Registry during
// startup and share that instead.
type Builder struct {
	rules     []rule
	observers []Observer
	logger    *slog.Logger
}

type rule struct {
	class   *Class
	handler Handler
}

// NewBuilder starts an empty registration set.
func NewBuilder() *Builder {
	return &Builder{}
}

// On registers a handler for a class.  The handler is selected for any
// error whose class chain reaches the given class before reaching any
// other registered class.
func (b *Builder) On(class *Class, h Handler) *Builder {
	b.rules = append(b.rules, rule{class: class, handler: h})
	return b
}

// Fallback registers the handler for Generic, which receives every error
// no more specific registration matches.  Registering a fallback, either
// through this method or On(Generic, ...), is required.
func (b *Builder) Fallback(h Handler) *Builder {
	return b.On(Generic, h)
}

// Observe adds observers notified after each dispatch.
func (b *Builder) Observe(obs ...Observer) *Builder {
	b.observers = append(b.observers, obs...)
	return b
}

// Logger sets the slog logger used for dispatch diagnostics.  When unset,
// slog.Default() is used.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Build validates the registrations and produces an immutable Registry.
// It fails with ErrNoFallback when Generic has no handler, and with a
// descriptive error for nil classes or handlers.  Validation happens here,
// at startup, so that request-time resolution can never come up empty.
func (b *Builder) Build() (*Registry, error) {
	handlers := make(map[*Class]Handler, len(b.rules))
	for i, r := range b.rules {
		if r.class == nil {
			return nil, fmt.Errorf("dispatch: rule %d has a nil class", i)
		}

		if r.handler == nil {
			return nil, fmt.Errorf("dispatch: rule %d (%s) has a nil handler", i, r.class.Name())
		}

		// first registration for a class wins
		if _, dup := handlers[r.class]; !dup {
			handlers[r.class] = r.handler
		}
	}

	if _, ok := handlers[Generic]; !ok {
		return nil, ErrNoFallback
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		handlers:  handlers,
		observers: append([]Observer{}, b.observers...),
		logger:    logger,
	}, nil
}

// Registry resolves errors to handlers and writes their responses.  A
// Registry is immutable and safe for concurrent use.
type Registry struct {
	handlers  map[*Class]Handler
	observers []Observer
	logger    *slog.Logger
}

// resolve walks the error's class chain and returns the first registered
// handler.  Build guarantees the walk terminates at Generic with a hit.
func (reg *Registry) resolve(err error) (Handler, *Class) {
	for cls := ClassOf(err); cls != nil; cls = cls.parent {
		if h, ok := reg.handlers[cls]; ok {
			return h, cls
		}
	}

	return reg.handlers[Generic], Generic
}

// Dispatch resolves the most specific handler for err and writes the
// response it produces.  The status defaults to StatusFor(err) when the
// handler leaves it unset, and headers carried by the error itself are
// merged in.  If the handler returns an error or panics, the fixed
// last-resort 500 response is written and no second dispatch occurs.
//
// Dispatch assumes nothing has been written to the response yet.
func (reg *Registry) Dispatch(w http.ResponseWriter, request *http.Request, err error) {
	h, matched := reg.resolve(err)
	response, herr := invoke(h, request, err)
	if herr != nil {
		reg.logger.Error("error handler failed",
			slog.String("class", matched.Name()),
			slog.String("request_id", reqid.FromContext(request.Context())),
			slog.Any("error", herr),
		)

		reg.lastResort(w)
		reg.observed(matched, http.StatusInternalServerError)
		return
	}

	if response.StatusCode == 0 {
		response.StatusCode = StatusFor(err)
	}

	for name, values := range headersFor(err) {
		w.Header()[http.CanonicalHeaderKey(name)] = values
	}

	reg.logger.Log(request.Context(), levelFor(response.StatusCode), "request failed",
		slog.String("class", matched.Name()),
		slog.Int("status", response.StatusCode),
		slog.String("request_id", reqid.FromContext(request.Context())),
		slog.Any("error", err),
	)

	if werr := response.write(w); werr != nil {
		// the response is already committed; this is diagnostic only
		reg.logger.Error("error response write failed", slog.Any("error", werr))
	}

	reg.observed(matched, response.StatusCode)
}

// Then adapts an App into an http.Handler.  Errors returned by the app are
// dispatched through this registry, and panics are recovered, logged with
// their stack, and dispatched as PanicError values under the Panic class.
//
// If the app wrote response headers before failing, the dispatched status
// cannot take effect; net/http logs the superfluous WriteHeader call.
// Apps should fail before writing.
func (reg *Registry) Then(app App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {
		err := reg.serve(app, w, request)
		if err != nil {
			reg.Dispatch(w, request, err)
		}
	})
}

// serve runs the app with a recover guard, converting panics to errors.
func (reg *Registry) serve(app App, w http.ResponseWriter, request *http.Request) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := debug.Stack()
			reg.logger.Error("panic recovered",
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("request_id", reqid.FromContext(request.Context())),
				slog.Any("panic", rec),
				slog.String("stack", string(stack)),
			)

			err = &PanicError{
				Value: rec,
				Stack: stack,
			}
		}
	}()

	return app(w, request)
}

// invoke runs an error handler behind a recover guard so a panicking
// handler is reported as a handler failure instead of killing the request
// goroutine.
func invoke(h Handler, request *http.Request, err error) (response Response, herr error) {
	defer func() {
		if rec := recover(); rec != nil {
			herr = fmt.Errorf("dispatch: handler panic: %v", rec)
		}
	}()

	return h(request, err)
}

// lastResortBody is deliberately static: the last resort must not depend
// on anything that can fail.
var lastResortBody = []byte("internal server error\n")

func (reg *Registry) lastResort(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(lastResortBody)
}

func (reg *Registry) observed(matched *Class, statusCode int) {
	for _, obs := range reg.observers {
		obs(matched.Name(), statusCode)
	}
}

func levelFor(statusCode int) slog.Level {
	if statusCode >= http.StatusInternalServerError {
		return slog.LevelError
	}

	return slog.LevelWarn
}
