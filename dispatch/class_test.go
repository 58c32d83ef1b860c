package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/norvik-labs/httptrail"
)

func TestClassOf(t *testing.T) {
	assert := assert.New(t)

	storage := NewClass("storage", nil)
	timeout := NewClass("storage_timeout", storage)

	assert.Nil(ClassOf(nil))
	assert.Equal(Generic, ClassOf(errors.New("plain")))
	assert.Equal(storage, ClassOf(storage.New("boom")))
	assert.Equal(timeout, ClassOf(timeout.New("slow")))

	// the class survives wrapping
	wrapped := fmt.Errorf("outer: %w", timeout.New("slow"))
	assert.Equal(timeout, ClassOf(wrapped))
}

func TestClassChain(t *testing.T) {
	assert := assert.New(t)

	parent := NewClass("parent", nil)
	child := NewClass("child", parent)

	assert.Equal("child", child.Name())
	assert.Equal(parent, child.Parent())
	assert.Equal(Generic, parent.Parent())
	assert.Nil(Generic.Parent())
}

func TestClassWrap(t *testing.T) {
	assert := assert.New(t)

	cls := NewClass("wrapper", nil)
	assert.Nil(cls.Wrap(nil))

	cause := errors.New("cause")
	err := cls.Wrap(cause)
	assert.Equal("cause", err.Error())
	assert.ErrorIs(err, cause)
	assert.Equal(cls, ClassOf(err))
}

func TestClassErrorf(t *testing.T) {
	assert := assert.New(t)

	cls := NewClass("formatted", nil)
	cause := errors.New("cause")
	err := cls.Errorf("context: %w", cause)

	assert.Equal("context: cause", err.Error())
	assert.ErrorIs(err, cause)
	assert.Equal(cls, ClassOf(err))
}

func TestStatusFor(t *testing.T) {
	var (
		notAuthorized = NewClass("not_authorized", nil).WithCode(http.StatusForbidden)
		expired       = NewClass("token_expired", notAuthorized)
		unannotated   = NewClass("unannotated", nil)
	)

	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"plain", errors.New("plain"), http.StatusInternalServerError},
		{"unannotated class", unannotated.New("no code anywhere"), http.StatusInternalServerError},
		{"class annotation", notAuthorized.New("nope"), http.StatusForbidden},
		{"inherited annotation", expired.New("stale"), http.StatusForbidden},
		{
			"status coder wins",
			notAuthorized.Wrap(&httptrail.Error{Err: errors.New("gone"), Code: http.StatusGone}),
			http.StatusGone,
		},
		{
			"invalid status coder falls through",
			notAuthorized.Wrap(&invalidStatusError{}),
			http.StatusForbidden,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, StatusFor(testCase.err))
		})
	}
}

type invalidStatusError struct{}

func (*invalidStatusError) Error() string   { return "invalid" }
func (*invalidStatusError) StatusCode() int { return 42 }

func TestPanicError(t *testing.T) {
	assert := assert.New(t)

	pe := &PanicError{
		Value: "boom",
		Stack: []byte("stack trace"),
	}

	assert.Equal("panic: boom", pe.Error())
	assert.Equal(Panic, ClassOf(pe))
	assert.Equal(Generic, Panic.Parent())
}
