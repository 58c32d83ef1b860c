package httptrail

import "net/http"

// Middleware is a decorator for HTTP handlers.  All server-side constructors
// in this module return values assignable to this type so they compose with
// each other and with third-party chains.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware into a single Middleware.  The first element
// is outermost: Chain(a, b, c)(h) serves requests as a(b(c(h))).
//
// The conventional full stack for this module is
//
//	Chain(reqid.Middleware, metrics.Middleware, accesslog middleware)(dispatch handler)
//
// so that every request is identified, measured, and logged with its final
// status, including statuses produced by error dispatch.
func Chain(mw ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}

		return next
	}
}
