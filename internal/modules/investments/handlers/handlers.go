// Package handlers provides HTTP handlers for investment management.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/clients/brapi"
	"github.com/kevincoe/bankcore/internal/domain"
	"github.com/kevincoe/bankcore/internal/modules/investments"
)

// Handler handles investment HTTP requests
type Handler struct {
	service *investments.Service
	log     zerolog.Logger
}

// NewHandler creates a new investment handler
func NewHandler(service *investments.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "investments").Logger(),
	}
}

// HandleList returns investments, filterable by ?accountId=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.URL.Query().Get("accountId"))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []domain.Investment{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleGet returns one investment by ID
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if inv == nil {
		h.writeError(w, http.StatusNotFound, "investment not found")
		return
	}
	h.writeJSON(w, http.StatusOK, inv)
}

// HandleCreate registers a new holding
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input investments.CreateInvestmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.service.Create(input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, inv)
}

// HandleDelete removes a holding
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleRefreshPrices updates current prices for all holdings
func (h *Handler) HandleRefreshPrices(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.RefreshPrices()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "refreshed",
		"updated": updated,
	})
}

// writeServiceError maps service errors onto HTTP responses. Provider
// failures keep their taxonomy so the UI can phrase each distinctly.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verrs.Fields(),
		})
		return
	}

	switch {
	case errors.Is(err, brapi.ErrSymbolNotFound):
		h.writeError(w, http.StatusNotFound, "symbol not found")
	case errors.Is(err, brapi.ErrRateLimited):
		h.writeError(w, http.StatusTooManyRequests, "quote provider rate limit reached, try again shortly")
	case errors.Is(err, brapi.ErrUnauthorized):
		h.writeError(w, http.StatusBadGateway, "quote provider rejected the API token")
	default:
		h.log.Error().Err(err).Msg("Investment operation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
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
