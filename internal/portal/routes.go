package portal

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) SetupRoutes() chi.Router {
	r := chi.NewRouter()

	// No session middleware here: an unauthenticated caller must get the
	// auth form view, not a 401.
	r.Get("/view", h.ViewHandler)

	return r
}
