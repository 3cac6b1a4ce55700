package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all investment routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/investments", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Post("/refresh-prices", h.HandleRefreshPrices)
		r.Get("/{id}", h.HandleGet)
		r.Delete("/{id}", h.HandleDelete)
	})
}
