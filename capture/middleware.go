package capture

import "net/http"

type captureHandler struct {
	next http.Handler
}

func (ch *captureHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	ch.next.ServeHTTP(New(response), request)
}

// Then is a server middleware guaranteeing that the next handler's
// http.ResponseWriter is a Writer.  It is idempotent: decorating an
// already-decorated handler returns it as is.
func Then(next http.Handler) http.Handler {
	if _, ok := next.(*captureHandler); ok {
		return next
	}

	return &captureHandler{
		next: next,
	}
}
