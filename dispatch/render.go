package dispatch

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/norvik-labs/httptrail"
	"github.com/norvik-labs/httptrail/reqid"
)

const (
	jsonContentType = "application/json; charset=utf-8"
	htmlContentType = "text/html; charset=utf-8"
)

// WantsHTML reports whether the client prefers an HTML error page over a
// structured payload, based on the Accept header.  Absent or wildcard
// Accept values are treated as structured clients: browsers always send
// text/html explicitly.
func WantsHTML(request *http.Request) bool {
	return strings.Contains(request.Header.Get("Accept"), "text/html")
}

// errorPayload is the structured error representation.  Code and cause are
// always present; the rest appears only with debug output enabled.
type errorPayload struct {
	Code      int    `json:"code"`
	Cause     string `json:"cause"`
	Class     string `json:"class,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Stack     string `json:"stack,omitempty"`
}

// DefaultHandler builds the stock error Handler, suitable as the fallback
// registration.  With cfg.DebugOutput set, responses carry the error
// message, its class, the request ID, and a stack trace for recovered
// panics.  Otherwise the body is a minimal generic payload: the status
// line for HTML clients, code and status text for everyone else.
//
// The status is always resolved with StatusFor, so class and error
// annotations take effect without a dedicated handler.
func DefaultHandler(cfg httptrail.Config) Handler {
	return func(request *http.Request, err error) (Response, error) {
		statusCode := StatusFor(err)
		if WantsHTML(request) {
			return htmlResponse(cfg, request, statusCode, err)
		}

		return jsonResponse(cfg, request, statusCode, err)
	}
}

func jsonResponse(cfg httptrail.Config, request *http.Request, statusCode int, err error) (Response, error) {
	payload := errorPayload{
		Code:  statusCode,
		Cause: strings.ToLower(http.StatusText(statusCode)),
	}

	if cfg.DebugOutput {
		payload.Cause = err.Error()
		payload.Class = ClassOf(err).Name()
		payload.RequestID = reqid.FromContext(request.Context())
		payload.Stack = stackOf(err)
	}

	body, merr := sonic.Marshal(payload)
	if merr != nil {
		return Response{}, merr
	}

	return Response{
		StatusCode:  statusCode,
		ContentType: jsonContentType,
		Body:        body,
	}, nil
}

func htmlResponse(cfg httptrail.Config, request *http.Request, statusCode int, err error) (Response, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html><head><title>%d %s</title></head><body>\n",
		statusCode, http.StatusText(statusCode))
	fmt.Fprintf(&b, "<h1>%d %s</h1>\n", statusCode, http.StatusText(statusCode))

	if cfg.DebugOutput {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(err.Error()))
		fmt.Fprintf(&b, "<p>class: %s</p>\n", html.EscapeString(ClassOf(err).Name()))
		if id := reqid.FromContext(request.Context()); len(id) > 0 {
			fmt.Fprintf(&b, "<p>request: %s</p>\n", html.EscapeString(id))
		}

		if stack := stackOf(err); len(stack) > 0 {
			fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(stack))
		}
	}

	b.WriteString("</body></html>\n")

	return Response{
		StatusCode:  statusCode,
		ContentType: htmlContentType,
		Body:        []byte(b.String()),
	}, nil
}

// stackOf extracts the captured stack from a recovered panic, if err
// carries one.
func stackOf(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}

	return ""
}
