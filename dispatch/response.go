package dispatch

import (
	"net/http"
	"strconv"

	"github.com/norvik-labs/httptrail"
)

// Response is a complete HTTP response produced by a Handler.  Handlers
// build Response values instead of touching the http.ResponseWriter, which
// lets the dispatcher fill in defaults and guarantees that a failing
// handler leaves the response untouched.
type Response struct {
	// StatusCode is the response status.  A zero value means the handler
	// did not choose one, and the dispatcher substitutes StatusFor of the
	// dispatched error.
	StatusCode int

	// Header holds headers to set on the response.
	Header httptrail.Header

	// ContentType is the MIME type of Body.  It overrides any
	// Content-Type present in Header.
	ContentType string

	// Body is the response entity.  It is written with a single Write.
	Body []byte
}

// write renders this response.  The first write error is returned so the
// dispatcher can report it; by then the response is already committed and
// nothing further can be done for the client.
func (r Response) write(w http.ResponseWriter) error {
	r.Header.SetTo(w.Header())
	if len(r.Body) > 0 {
		w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
		if len(r.ContentType) > 0 {
			w.Header().Set("Content-Type", r.ContentType)
		}
	}

	w.WriteHeader(r.StatusCode)
	if len(r.Body) > 0 {
		_, err := w.Write(r.Body)
		return err
	}

	return nil
}
