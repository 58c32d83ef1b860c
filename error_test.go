package httptrail

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testErrorSimple(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		cause = errors.New("expected")
		err   = &Error{
			Err: cause,
		}
	)

	assert.Equal(cause, err.Unwrap())
	assert.Equal(http.StatusInternalServerError, err.StatusCode())
	assert.Empty(err.Headers())
	assert.Contains(err.Error(), "expected")

	msg, marshalErr := json.Marshal(err)
	require.NoError(marshalErr)
	assert.JSONEq(
		`{"code": 500, "cause": "expected"}`,
		string(msg),
	)
}

func testErrorWithCode(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		cause = errors.New("expected")
		err   = &Error{
			Err:  cause,
			Code: http.StatusNotFound,
			Header: http.Header{
				"Error": {"value"},
			},
		}
	)

	assert.Equal(http.StatusNotFound, err.StatusCode())
	assert.Equal(
		http.Header{
			"Error": {"value"},
		},
		err.Headers(),
	)

	msg, marshalErr := json.Marshal(err)
	require.NoError(marshalErr)
	assert.JSONEq(
		`{"code": 404, "cause": "expected"}`,
		string(msg),
	)
}

func testErrorWithMessage(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		cause = errors.New("expected")
		err   = &Error{
			Err:     cause,
			Message: "test",
			Code:    http.StatusNotFound,
		}
	)

	assert.Contains(err.Error(), "expected")
	assert.Contains(err.Error(), "test")

	msg, marshalErr := json.Marshal(err)
	require.NoError(marshalErr)
	assert.JSONEq(
		`{"code": 404, "message": "test", "cause": "expected"}`,
		string(msg),
	)
}

func TestError(t *testing.T) {
	t.Run("Simple", testErrorSimple)
	t.Run("WithCode", testErrorWithCode)
	t.Run("WithMessage", testErrorWithMessage)
}
