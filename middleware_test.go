package httptrail

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	assert := assert.New(t)

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Add("X-Order", name)
				next.ServeHTTP(w, r)
			})
		}
	}

	decorated := Chain(tag("outer"), tag("middle"), tag("inner"))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	response := httptest.NewRecorder()
	decorated.ServeHTTP(response, httptest.NewRequest("GET", "/", nil))

	assert.Equal(http.StatusNoContent, response.Code)
	assert.Equal([]string{"outer", "middle", "inner"}, response.Header().Values("X-Order"))
}

func TestChainEmpty(t *testing.T) {
	assert := assert.New(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	response := httptest.NewRecorder()
	Chain()(next).ServeHTTP(response, httptest.NewRequest("GET", "/", nil))
	assert.Equal(http.StatusTeapot, response.Code)
}
