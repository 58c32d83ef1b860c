package httptrail

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testHeaderEmpty(t *testing.T) {
	assert := assert.New(t)

	for _, h := range []Header{{}, NewHeader(nil), NewHeaders()} {
		assert.Zero(h.Len())

		dst := http.Header{"Existing": {"value"}}
		h.SetTo(dst)
		h.AddTo(dst)
		assert.Equal(http.Header{"Existing": {"value"}}, dst)
	}
}

func testHeaderSetTo(t *testing.T) {
	assert := assert.New(t)

	h := NewHeader(http.Header{
		"x-custom": {"1"},
		"Multi":    {"a", "b"},
	})

	assert.Equal(2, h.Len())

	dst := http.Header{"X-Custom": {"stale"}}
	h.SetTo(dst)
	assert.Equal(
		http.Header{
			"X-Custom": {"1"},
			"Multi":    {"a", "b"},
		},
		dst,
	)
}

func testHeaderAddTo(t *testing.T) {
	assert := assert.New(t)

	h := NewHeaders("X-Custom", "new")
	dst := http.Header{"X-Custom": {"existing"}}
	h.AddTo(dst)
	assert.Equal(
		http.Header{
			"X-Custom": {"existing", "new"},
		},
		dst,
	)
}

func testHeaderNewHeaders(t *testing.T) {
	assert := assert.New(t)

	h := NewHeaders("x-one", "1", "X-Two", "2", "x-one", "11", "Dangling")
	dst := make(http.Header)
	h.SetTo(dst)
	assert.Equal(
		http.Header{
			"X-One":    {"1", "11"},
			"X-Two":    {"2"},
			"Dangling": {""},
		},
		dst,
	)
}

func testHeaderExtend(t *testing.T) {
	assert := assert.New(t)

	first := NewHeaders("X-One", "1")
	second := NewHeaders("X-Two", "2")

	assert.Equal(first, first.Extend(Header{}))
	assert.Equal(second, Header{}.Extend(second))

	merged := first.Extend(second)
	assert.Equal(2, merged.Len())

	dst := make(http.Header)
	merged.SetTo(dst)
	assert.Equal(
		http.Header{
			"X-One": {"1"},
			"X-Two": {"2"},
		},
		dst,
	)

	// the originals are unchanged
	assert.Equal(1, first.Len())
	assert.Equal(1, second.Len())
}

func TestHeader(t *testing.T) {
	t.Run("Empty", testHeaderEmpty)
	t.Run("SetTo", testHeaderSetTo)
	t.Run("AddTo", testHeaderAddTo)
	t.Run("NewHeaders", testHeaderNewHeaders)
	t.Run("Extend", testHeaderExtend)
}
