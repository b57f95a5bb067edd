// internal/app/system/auth/testsupport.go
package auth

import (
	"context"
	"net/http"
)

// WithTestUser returns a request whose context carries u as the signed-in
// user, bypassing session decoding. Handler tests use this instead of
// priming a real session cookie.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestFlashes returns a request whose context carries the given flash
// messages, as if LoadSessionUser had popped them.
func WithTestFlashes(r *http.Request, fl []Flash) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), flashesKey, fl))
}
