package httptrail

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

// Error wraps a cause with the HTTP response information needed to render
// it.  It is the simplest way for application code to annotate an error
// with a status code and headers that the dispatch package will honor.
type Error struct {
	// Err is the cause of this error.  This field is required.
	Err error

	// Message is an optional, user-facing message.  When set it is
	// included in Error() output and in the JSON representation.
	Message string

	// Code is the response code for this error.  Values below 100 are
	// treated as unset, in which case http.StatusInternalServerError
	// is reported.
	Code int

	// Header holds optional response headers associated with this error.
	Header http.Header
}

// Unwrap returns the cause of this error.
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if len(e.Message) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}

	return e.Err.Error()
}

// StatusCode returns the Code field, substituting
// http.StatusInternalServerError when Code is unset or invalid.
func (e *Error) StatusCode() int {
	if e.Code < 100 {
		return http.StatusInternalServerError
	}

	return e.Code
}

// Headers returns the response headers associated with this error.
func (e *Error) Headers() http.Header {
	return e.Header
}

// MarshalJSON renders this error in the same shape the dispatch package
// uses for error payloads: the cause under "cause", the effective status
// under "code", and the message under "message" when one is set.
func (e *Error) MarshalJSON() ([]byte, error) {
	payload := struct {
		Code    int    `json:"code"`
		Cause   string `json:"cause"`
		Message string `json:"message,omitempty"`
	}{
		Code:    e.StatusCode(),
		Cause:   e.Err.Error(),
		Message: e.Message,
	}

	return sonic.Marshal(payload)
}
