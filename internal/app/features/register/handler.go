// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/authutil"
	"github.com/dalemusser/studyhub/internal/app/system/formutil"
	"github.com/dalemusser/studyhub/internal/app/system/inputval"
	"github.com/dalemusser/studyhub/internal/app/system/metrics"
	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
	}
}

type registerFormData struct {
	formutil.Base
	Username     string
	Email        string
	PasswordHint string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := registerFormData{PasswordHint: authutil.PasswordRules()}
	formutil.SetBase(&data.Base, r, "Register", "/")
	templates.Render(w, r, "register", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	username := normalize.Name(r.FormValue("username"))
	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if v := inputval.ValidateRegistration(username, email, password, confirm); v.HasErrors() {
		h.reRenderWithError(w, r, username, email, v.First())
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "A server error occurred.", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateUsername):
		h.reRenderWithError(w, r, username, email, "That username is already taken.")
		return
	case errors.Is(err, userstore.ErrDuplicateEmail):
		h.reRenderWithError(w, r, username, email, "That email is already registered.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB create user", err, "A server error occurred.", "/register")
		return
	}

	metrics.UsersRegistered.Inc()
	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("username", u.Username))

	// New accounts are signed in immediately.
	if err := h.SessionMgr.SignIn(w, r, &u); err != nil {
		h.ErrLog.LogServerError(w, r, "sign-in after registration", err, "A server error occurred.", "/login")
		return
	}
	h.SessionMgr.AddFlash(w, r, "success", "Welcome to StudyHub, "+u.Username+"!")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// reRenderWithError re-renders the registration form with a validation
// error and the previously posted values (passwords are never echoed).
func (h *Handler) reRenderWithError(w http.ResponseWriter, r *http.Request, username, email, msg string) {
	data := registerFormData{
		Username:     username,
		Email:        email,
		PasswordHint: authutil.PasswordRules(),
	}
	formutil.SetBase(&data.Base, r, "Register", "/")
	data.SetError(msg)
	templates.Render(w, r, "register", data)
}
