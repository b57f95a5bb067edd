// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"encoding/gob"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey   = "is_authenticated"
	userIDKey   = "user_id"
	userNameKey = "user_name"
)

func init() {
	gob.Register(Flash{})
}

// Flash is a one-shot message stored in the session and shown on the next
// rendered page (after a redirect).
type Flash struct {
	Kind    string // "success" | "info" | "warning" | "danger"
	Message string
}

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID       string
	Username string
}

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	flashesKey     ctxKey = "flashes"
)

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// Flashes returns the one-shot messages popped from the session by
// LoadSessionUser for this request, in the order they were added.
func Flashes(r *http.Request) []Flash {
	fl, _ := r.Context().Value(flashesKey).([]Flash)
	return fl
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie session store. Handlers receive it
// explicitly; there is no package-level session state.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a SessionManager backed by a signed cookie store.
// The `secure` flag controls whether cookies are marked Secure and which
// SameSite mode is used: production (secure=true) uses Secure + SameSite=None,
// local dev over http://localhost uses Lax so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// GetSession returns the session for this request. A decode error still
// yields a usable fresh session, so callers may ignore the error when a
// blank session is acceptable.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// SignIn transitions the session to authenticated(user.ID) and saves it.
// Call only after credential verification has succeeded.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("session decode failed during sign-in, using fresh session",
			zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID.Hex()
	sess.Values[userNameKey] = u.Username
	return sess.Save(r, w)
}

// SignOut expires the session cookie. The deletion cookie must match the
// original store options or browsers keep the old one.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.GetSession(r)
	if err != nil {
		// A cookie we cannot decode still gets expired.
		m.log.Warn("session decode failed during sign-out", zap.Error(err))
	}

	if opts := m.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1

	return sess.Save(r, w)
}

// AddFlash queues a one-shot message for the next rendered page.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("session decode failed while adding flash", zap.Error(err))
	}
	sess.AddFlash(Flash{Kind: kind, Message: message})
	if err := sess.Save(r, w); err != nil {
		m.log.Error("save session failed while adding flash", zap.Error(err))
	}
}

// LoadSessionUser injects the user into context if they are logged in, and
// pops any queued flash messages into the request context.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.GetSession(r)

		ctx := r.Context()

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:       getString(sess, userIDKey),
				Username: getString(sess, userNameKey),
			}
			ctx = context.WithValue(ctx, currentUserKey, u)
		}

		if raw := sess.Flashes(); len(raw) > 0 {
			fl := make([]Flash, 0, len(raw))
			for _, v := range raw {
				if f, ok := v.(Flash); ok {
					fl = append(fl, f)
				}
			}
			// Flashes() removed them from the session; persist the removal.
			if err := sess.Save(r, w); err != nil {
				m.log.Warn("save session failed while popping flashes", zap.Error(err))
			}
			ctx = context.WithValue(ctx, flashesKey, fl)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		ret := url.QueryEscape(currentURI(r))

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", "/login?return="+ret)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// helpers

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
