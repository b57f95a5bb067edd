// internal/app/features/groups/groupnew.go
package groups

import (
	"context"
	"net/http"

	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/studyhub/internal/app/store/memberships"
	"github.com/dalemusser/studyhub/internal/app/system/authz"
	"github.com/dalemusser/studyhub/internal/app/system/formutil"
	"github.com/dalemusser/studyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/studyhub/internal/app/system/inputval"
	"github.com/dalemusser/studyhub/internal/app/system/metrics"
	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/txn"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type newGroupData struct {
	formutil.Base
	GroupTitle  string
	Subject     string
	Description string
	MeetingDate string
	MeetingTime string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /create_group                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	var data newGroupData
	formutil.SetBase(&data.Base, r, "New Study Group", "/")
	templates.Render(w, r, "group_new", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /create_group                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleNewPost(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/create_group")
		return
	}

	title := normalize.Name(r.FormValue("title"))
	subject := normalize.Name(r.FormValue("subject"))
	description := normalize.Name(r.FormValue("description"))
	meetingDate := r.FormValue("meeting_date")
	meetingTime := r.FormValue("meeting_time")

	if v := inputval.ValidateCreateGroup(title, subject, description); v.HasErrors() {
		h.reRenderNewWithError(w, r, newGroupData{
			GroupTitle:  title,
			Subject:     subject,
			Description: description,
			MeetingDate: meetingDate,
			MeetingTime: meetingTime,
		}, v.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	group := models.StudyGroup{
		Title:       title,
		Subject:     subject,
		Description: htmlsanitize.Sanitize(description),
		MeetingAt:   parseMeetingAt(meetingDate, meetingTime),
		CreatorID:   uid,
	}

	// The creator joins their own group in the same transaction, so a group
	// never appears without its creator in the member list.
	var created models.StudyGroup
	if err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		created, err = groupstore.New(h.DB).Create(ctx, group)
		if err != nil {
			return err
		}
		return membershipstore.New(h.DB).Add(ctx, created.ID, uid)
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "DB create group", err, "A server error occurred.", "/create_group")
		return
	}

	metrics.GroupsCreated.Inc()
	metrics.MembershipChanges.WithLabelValues("join").Inc()
	h.Log.Info("group created",
		zap.String("group_id", created.ID.Hex()),
		zap.String("creator_id", uid.Hex()))

	h.SessionMgr.AddFlash(w, r, "success", "Study group created.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// reRenderNewWithError re-renders the create form with a validation error
// and previously posted values.
func (h *Handler) reRenderNewWithError(w http.ResponseWriter, r *http.Request, data newGroupData, msg string) {
	formutil.SetBase(&data.Base, r, "New Study Group", "/")
	data.SetError(msg)
	templates.Render(w, r, "group_new", data)
}
