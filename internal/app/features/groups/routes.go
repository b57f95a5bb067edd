// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// NewRoutes serves the create-group form. Mounted at /create_group.
func NewRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeNew)
		pr.Post("/", h.HandleNewPost)
	})
	return r
}

// DetailRoutes serves group pages. Mounted at /group. The detail page is
// public; the membership POST checks authentication itself so it can flash
// a warning instead of using the blanket gate.
func DetailRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.ServeDetail)
	r.Post("/{id}", h.HandleMembershipPost)
	return r
}
