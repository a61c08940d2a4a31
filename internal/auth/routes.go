package auth

import (
	"github.com/go-chi/chi/v5"
	"github.com/sirtec-dev/portal-backend/internal/middleware"
)

func (h *Handler) SetupRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.LoginHandler)
	r.Post("/register", h.RegisterHandler)
	r.Get("/session", h.SessionHandler)
	r.Get("/confirm", h.ConfirmHandler)
	r.With(middleware.SessionMiddleware(h.Bootstrapper)).Post("/logout", h.LogoutHandler)

	return r
}
