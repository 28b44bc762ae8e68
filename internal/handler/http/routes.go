package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/token", h.token)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)

		r.Get("/api/vault", h.listRecords)
		r.Put("/api/vault/{recordID}", h.putRecord)
		r.Delete("/api/vault/{recordID}", h.deleteRecord)
		r.Get("/api/vault/watch", h.watch)
	})

	return router
}
