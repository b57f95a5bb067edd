package register_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/features/register"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *register.Handler {
	t.Helper()
	logger := zap.NewNop()
	mgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "studyhub-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return register.NewHandler(db, mgr, uierrors.NewErrorLogger(logger), logger)
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestServeRegister_RedirectsWhenSignedIn(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/register", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Username: "alice"})
	rec := httptest.NewRecorder()

	h.ServeRegister(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want %q", loc, "/")
	}
}

func TestHandleRegisterPost_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	req := postForm("/register", url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	})
	rec := httptest.NewRecorder()

	h.HandleRegisterPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want %q", loc, "/")
	}

	// A session cookie is set; the user is signed in right away.
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie after registration")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := userstore.New(db).GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected user in database: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("Username: got %q, want %q", u.Username, "alice")
	}
	if u.PasswordHash == "secret123" {
		t.Error("password must not be stored in plaintext")
	}
}

func TestHandleRegisterPost_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "alice", "alice@example.com")

	h := newTestHandler(t, db)

	req := postForm("/register", url.Values{
		"username":         {"ALICE"},
		"email":            {"other@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	})
	rec := httptest.NewRecorder()

	// The duplicate path re-renders the form, which panics without an
	// initialized template engine.
	func() {
		defer func() { _ = recover() }()
		h.HandleRegisterPost(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("duplicate registration must not redirect to home")
	}
}

func TestHandleRegisterPost_ValidationFailure(t *testing.T) {
	h := newTestHandler(t, nil)

	req := postForm("/register", url.Values{
		"username":         {"alice"},
		"email":            {"not-an-email"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	})
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.HandleRegisterPost(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("invalid registration must not redirect to home")
	}
}

func TestHandleRegisterPost_PasswordMismatch(t *testing.T) {
	h := newTestHandler(t, nil)

	req := postForm("/register", url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"different"},
	})
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.HandleRegisterPost(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("mismatched passwords must not redirect to home")
	}
}

func TestHandleRegisterPost_RedirectsWhenSignedIn(t *testing.T) {
	h := newTestHandler(t, nil)

	req := postForm("/register", url.Values{})
	req = auth.WithTestUser(req, &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Username: "alice"})
	rec := httptest.NewRecorder()

	h.HandleRegisterPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
}
