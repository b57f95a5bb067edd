package home_test

import (
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/features/home"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.uber.org/zap"
)

func TestNewHandler(t *testing.T) {
	logger := zap.NewNop()
	h := home.NewHandler(nil, uierrors.NewErrorLogger(logger), logger)
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestServeRoot_WithGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "alice", "alice@example.com")
	group := fx.CreateGroup(ctx, "Math Club", "Math", alice.ID)
	fx.AddMembership(ctx, group.ID, alice.ID)

	logger := zap.NewNop()
	h := home.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	// Template rendering panics without an initialized engine; the handler
	// logic up to the render is what this exercises.
	func() {
		defer func() { _ = recover() }()
		h.ServeRoot(rec, req)
	}()
}

func TestServeRoot_EmptyListing(t *testing.T) {
	db := testutil.SetupTestDB(t)

	logger := zap.NewNop()
	h := home.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.ServeRoot(rec, req)
	}()
}
