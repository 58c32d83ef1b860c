// SPDX-FileCopyrightText: 2025 Norvik Labs
// SPDX-License-Identifier: Apache-2.0

// Package reqid assigns each request an identifier that ties together its
// access-log record, its error payloads, and any diagnostics emitted while
// handling it.  Inbound identifiers are trusted and propagated; requests
// without one get a freshly minted ULID.
package reqid

import (
	"context"
	mathrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// HeaderName is the header carrying the request identifier, both inbound
// and mirrored on the response.
const HeaderName = "X-Request-Id"

type contextKey struct{}

// FromContext returns the request ID stored in the context, or the empty
// string when the request never passed through Middleware.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// NewContext returns a context carrying the given request ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New mints a request identifier.  ULIDs sort by creation time, which
// keeps grepping logs for a time window cheap.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Middleware propagates or mints the request ID, stores it in the request
// context, and mirrors it on the response so clients can quote it back.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderName)
		if id == "" {
			id = New()
		}

		w.Header().Set(HeaderName, id)
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
	})
}
