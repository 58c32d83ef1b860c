package httptrail

import "net/http"

// emptyHeader is the canonical empty Header shared by all zero-length values.
var emptyHeader = Header{}

// Header is an immutable, precomputed set of HTTP headers.  Dispatch rules
// and error classes hold headers that are applied to many responses over a
// process's lifetime; canonicalizing the names once at construction avoids
// repeating that work on every request.
//
// The zero value is a valid, empty Header.
type Header struct {
	pairs []headerPair
}

type headerPair struct {
	name   string
	values []string
}

// NewHeader canonicalizes an http.Header into an immutable Header.
func NewHeader(src http.Header) Header {
	if len(src) == 0 {
		return emptyHeader
	}

	h := Header{
		pairs: make([]headerPair, 0, len(src)),
	}

	for name, values := range src {
		h.pairs = append(h.pairs, headerPair{
			name:   http.CanonicalHeaderKey(name),
			values: values,
		})
	}

	return h
}

// NewHeaders interprets a variadic list of strings as alternating header
// names and values.  Repeating a name produces a multivalued header.  A
// trailing name with no value is given the blank value.
func NewHeaders(namesAndValues ...string) Header {
	if len(namesAndValues) == 0 {
		return emptyHeader
	}

	src := make(http.Header, len(namesAndValues)/2)
	for i := 0; i < len(namesAndValues); i += 2 {
		if i+1 < len(namesAndValues) {
			src.Add(namesAndValues[i], namesAndValues[i+1])
		} else {
			src.Add(namesAndValues[i], "")
		}
	}

	return NewHeader(src)
}

// Len returns the count of distinct header names in this Header.
func (h Header) Len() int {
	return len(h.pairs)
}

// SetTo replaces each of this Header's names in the destination.
func (h Header) SetTo(dst http.Header) {
	for _, p := range h.pairs {
		// names were canonicalized at construction
		dst[p.name] = p.values
	}
}

// AddTo appends this Header's values to the destination, preserving any
// values already present under the same names.
func (h Header) AddTo(dst http.Header) {
	for _, p := range h.pairs {
		dst[p.name] = append(dst[p.name], p.values...)
	}
}

// Extend produces a new Header holding this Header's pairs followed by
// the other's.  Neither receiver is modified.
func (h Header) Extend(more Header) Header {
	if more.Len() == 0 {
		return h
	}

	if h.Len() == 0 {
		return more
	}

	merged := Header{
		pairs: make([]headerPair, 0, len(h.pairs)+len(more.pairs)),
	}

	merged.pairs = append(merged.pairs, h.pairs...)
	merged.pairs = append(merged.pairs, more.pairs...)
	return merged
}
