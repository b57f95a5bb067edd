// internal/app/features/groups/groupdetail.go
package groups

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/studyhub/internal/app/store/memberships"
	"github.com/dalemusser/studyhub/internal/app/store/queries/groupmembers"
	"github.com/dalemusser/studyhub/internal/app/system/authz"
	"github.com/dalemusser/studyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/studyhub/internal/app/system/metrics"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/viewdata"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type detailData struct {
	viewdata.BaseVM
	Group           models.StudyGroup
	DescriptionHTML template.HTML
	Members         []models.User
	MemberCount     int
	IsMember        bool
	IsCreator       bool
}

// groupFromPath resolves the {id} URL parameter to a group, rendering a
// not-found page and returning nil when it cannot.
func (h *Handler) groupFromPath(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.StudyGroup {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Study group not found.", "/")
		return nil
	}

	group, err := groupstore.New(h.DB).GetByID(ctx, id)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		uierrors.RenderNotFound(w, r, "Study group not found.", "/")
		return nil
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB load group", err, "A database error occurred.", "/")
		return nil
	}
	return group
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /group/{id} – public detail page                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group := h.groupFromPath(ctx, w, r)
	if group == nil {
		return
	}

	members, err := groupmembers.ListGroupMembers(ctx, h.DB, group.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list group members", err, "A database error occurred.", "/")
		return
	}

	data := detailData{
		BaseVM:          viewdata.NewBaseVM(r, group.Title, "/"),
		Group:           *group,
		DescriptionHTML: htmlsanitize.PrepareForDisplay(group.Description),
		Members:         members,
		MemberCount:     len(members),
	}

	if _, uid, ok := authz.UserCtx(r); ok {
		data.IsCreator = uid == group.CreatorID
		for _, m := range members {
			if m.ID == uid {
				data.IsMember = true
				break
			}
		}
	}

	templates.Render(w, r, "group_detail", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /group/{id} – action=join|leave                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleMembershipPost dispatches on the form's action value. Unknown
// actions change nothing; every outcome redirects back to the detail page
// so a refresh never re-submits.
func (h *Handler) HandleMembershipPost(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		h.SessionMgr.AddFlash(w, r, "warning", "Please log in to join or leave a group.")
		http.Redirect(w, r, "/login?return="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group := h.groupFromPath(ctx, w, r)
	if group == nil {
		return
	}
	back := "/group/" + group.ID.Hex()

	switch r.FormValue("action") {
	case "join":
		if !h.join(ctx, w, r, group, uid, back) {
			return
		}
	case "leave":
		if !h.leave(ctx, w, r, group, uid, back) {
			return
		}
	default:
		// Unknown action: fall through to the redirect.
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

// join adds uid to the group. Reports false when an error page was rendered.
func (h *Handler) join(ctx context.Context, w http.ResponseWriter, r *http.Request, group *models.StudyGroup, uid primitive.ObjectID, back string) bool {
	err := membershipstore.New(h.DB).Add(ctx, group.ID, uid)
	switch {
	case errors.Is(err, membershipstore.ErrDuplicateMembership):
		// Already a member; joining again changes nothing.
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB add membership", err, "A database error occurred.", back)
		return false
	default:
		metrics.MembershipChanges.WithLabelValues("join").Inc()
		h.Log.Info("member joined",
			zap.String("group_id", group.ID.Hex()),
			zap.String("user_id", uid.Hex()))
		h.SessionMgr.AddFlash(w, r, "success", "You joined "+group.Title+".")
	}
	return true
}

// leave removes uid from the group. Leaving a group you are not in is a
// no-op; the redirect is the same either way.
func (h *Handler) leave(ctx context.Context, w http.ResponseWriter, r *http.Request, group *models.StudyGroup, uid primitive.ObjectID, back string) bool {
	if err := membershipstore.New(h.DB).Remove(ctx, group.ID, uid); err != nil {
		h.ErrLog.LogServerError(w, r, "DB remove membership", err, "A database error occurred.", back)
		return false
	}

	metrics.MembershipChanges.WithLabelValues("leave").Inc()
	h.Log.Info("member left",
		zap.String("group_id", group.ID.Hex()),
		zap.String("user_id", uid.Hex()))
	h.SessionMgr.AddFlash(w, r, "info", "You left "+group.Title+".")
	return true
}
