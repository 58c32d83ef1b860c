package dispatch

import (
	"errors"
	"fmt"
	"net/http"
)

// Class identifies a kind of error.  Classes form a single-parent chain
// rooted at Generic, and handler resolution walks that chain.  A class may
// carry a default status code consulted when neither the handler nor the
// error itself supplies one.
//
// Classes are intended to be package-level variables created during program
// initialization.  They must not be created or modified once requests are
// being served.
type Class struct {
	name   string
	parent *Class
	code   int
}

// Generic is the root of every class chain.  Errors with no class of their
// own resolve here, and a Registry refuses to build without a handler
// registered for it.
var Generic = &Class{name: "error"}

// Panic classifies errors produced by recovering a panic inside an
// application handler.  See Registry.Then.
var Panic = NewClass("panic", Generic)

// NewClass declares a new error class under the given parent.  A nil
// parent means Generic.
func NewClass(name string, parent *Class) *Class {
	if parent == nil {
		parent = Generic
	}

	return &Class{
		name:   name,
		parent: parent,
	}
}

// WithCode annotates this class with a default HTTP status code and
// returns the same class for declaration chaining:
//
//	var NotAuthorized = dispatch.NewClass("not_authorized", nil).WithCode(http.StatusForbidden)
//
// Like NewClass, this is initialization-time API only.
func (c *Class) WithCode(code int) *Class {
	c.code = code
	return c
}

// Name returns the declared name of this class.
func (c *Class) Name() string {
	return c.name
}

// Parent returns the declared parent, or nil for Generic.
func (c *Class) Parent() *Class {
	return c.parent
}

// Code returns the status code annotation on this class itself, or zero
// when unannotated.  Most callers want StatusFor, which also consults
// ancestors and the error value.
func (c *Class) Code() int {
	return c.code
}

// inheritedCode finds the nearest status annotation in the chain.
func (c *Class) inheritedCode() int {
	for k := c; k != nil; k = k.parent {
		if k.code >= 100 {
			return k.code
		}
	}

	return 0
}

// New creates an error belonging to this class.
func (c *Class) New(text string) error {
	return &classedError{
		class: c,
		err:   errors.New(text),
	}
}

// Errorf creates a formatted error belonging to this class.  The %w verb
// is supported.
func (c *Class) Errorf(format string, args ...interface{}) error {
	return &classedError{
		class: c,
		err:   fmt.Errorf(format, args...),
	}
}

// Wrap associates an existing error with this class.  Wrapping a nil
// error returns nil.
func (c *Class) Wrap(err error) error {
	if err == nil {
		return nil
	}

	return &classedError{
		class: c,
		err:   err,
	}
}

// Classer is implemented by errors that belong to a Class.  Errors created
// through Class.New, Class.Errorf, and Class.Wrap implement it, as does
// PanicError.
type Classer interface {
	ErrorClass() *Class
}

// StatusCoder can be implemented by errors to carry their own response
// code, overriding any class annotation.  httptrail.Error implements it.
type StatusCoder interface {
	StatusCode() int
}

// Headerer can be implemented by errors to contribute response headers.
// Headers found this way are merged into the dispatched response.
type Headerer interface {
	Headers() http.Header
}

type classedError struct {
	class *Class
	err   error
}

func (ce *classedError) Error() string {
	return ce.err.Error()
}

func (ce *classedError) Unwrap() error {
	return ce.err
}

func (ce *classedError) ErrorClass() *Class {
	return ce.class
}

// ClassOf determines the class of an error.  The error's chain is searched
// with errors.As for a Classer; errors with no class resolve to Generic.
// A nil error has no class, and this function returns nil for it.
func ClassOf(err error) *Class {
	if err == nil {
		return nil
	}

	var c Classer
	if errors.As(err, &c) {
		if cls := c.ErrorClass(); cls != nil {
			return cls
		}
	}

	return Generic
}

// StatusFor computes the effective response status for an error when the
// handler left the status unset:
//
//  1. a StatusCode() found via errors.As, when valid
//  2. the nearest status annotation in the error's class chain
//  3. http.StatusInternalServerError
func StatusFor(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 100 {
			return code
		}
	}

	if code := ClassOf(err).inheritedCode(); code >= 100 {
		return code
	}

	return http.StatusInternalServerError
}

// headersFor collects response headers the error carries, if any.
func headersFor(err error) http.Header {
	var h Headerer
	if errors.As(err, &h) {
		return h.Headers()
	}

	return nil
}
