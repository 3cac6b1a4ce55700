// Package handlers provides HTTP handlers for quote lookups.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/clients/brapi"
	"github.com/kevincoe/bankcore/internal/quotes"
)

// Handler handles quote HTTP requests
type Handler struct {
	service *quotes.Service
	log     zerolog.Logger
}

// NewHandler creates a new quote handler
func NewHandler(service *quotes.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "quotes").Logger(),
	}
}

// RegisterRoutes registers all quote routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.Get("/currency/usd-brl", h.HandleGetUSDBRL)
		r.Get("/cache/stats", h.HandleCacheStats)
		r.Delete("/cache", h.HandleClearCache)
		r.Get("/{symbol}", h.HandleGetQuote)
	})
}

// HandleGetQuote returns the (possibly cached) quote for a symbol
func (h *Handler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.GetQuote(chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

// HandleGetUSDBRL returns the (possibly cached) USD/BRL rate
func (h *Handler) HandleGetUSDBRL(w http.ResponseWriter, r *http.Request) {
	rate, err := h.service.GetUSDBRL()
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rate)
}

// HandleCacheStats reports cached entry counts per cache
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.CacheStats())
}

// HandleClearCache drops every cached quote and rate
func (h *Handler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// writeProviderError maps the provider taxonomy onto distinct responses.
// Quote errors are retryable notifications, never a fatal state.
func (h *Handler) writeProviderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, brapi.ErrSymbolNotFound):
		h.writeError(w, http.StatusNotFound, "symbol not found")
	case errors.Is(err, brapi.ErrRateLimited):
		h.writeError(w, http.StatusTooManyRequests, "quote provider rate limit reached, try again shortly")
	case errors.Is(err, brapi.ErrUnauthorized):
		h.writeError(w, http.StatusBadGateway, "quote provider rejected the API token")
	default:
		h.log.Error().Err(err).Msg("Quote lookup failed")
		h.writeError(w, http.StatusBadGateway, "quote provider unavailable")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
