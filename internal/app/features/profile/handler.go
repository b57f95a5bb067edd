// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/store/queries/usergroups"
	"github.com/dalemusser/studyhub/internal/app/system/authz"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/viewdata"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
	}
}

type profileData struct {
	viewdata.BaseVM
	User          models.User
	CreatedGroups []models.StudyGroup
	JoinedGroups  []models.StudyGroup
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := userstore.New(h.DB).GetByID(ctx, uid)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		// Session references a deleted account.
		uierrors.RenderUnauthorized(w, r, "")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB load user", err, "A database error occurred.", "/")
		return
	}

	created, err := usergroups.GroupsCreatedBy(ctx, h.DB, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list created groups", err, "A database error occurred.", "/")
		return
	}
	joined, err := usergroups.GroupsJoinedBy(ctx, h.DB, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list joined groups", err, "A database error occurred.", "/")
		return
	}

	data := profileData{
		BaseVM:        viewdata.NewBaseVM(r, "Profile", "/"),
		User:          *user,
		CreatedGroups: created,
		JoinedGroups:  joined,
	}

	templates.Render(w, r, "profile", data)
}
