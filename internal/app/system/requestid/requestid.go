// Package requestid tags each request with a unique ID for log correlation.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header carries the request ID on responses and may supply one on
// requests from an upstream proxy.
const Header = "X-Request-Id"

type ctxKey struct{}

// FromContext returns the request ID, or "" when the middleware did not run.
func FromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKey{}).(string); ok {
		return s
	}
	return ""
}

// Middleware assigns a request ID, echoes it on the response header, and
// stores it in the request context. An inbound header value is reused so
// IDs stay stable across proxies.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
