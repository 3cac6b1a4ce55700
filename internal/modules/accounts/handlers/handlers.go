// Package handlers provides HTTP handlers for account management.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/domain"
	"github.com/kevincoe/bankcore/internal/modules/accounts"
)

// Handler handles account HTTP requests
type Handler struct {
	service *accounts.Service
	log     zerolog.Logger
}

// NewHandler creates a new account handler
func NewHandler(service *accounts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "accounts").Logger(),
	}
}

// HandleList returns all accounts
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []domain.Account{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleGet returns one account by ID
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if account == nil {
		h.writeError(w, http.StatusNotFound, "account not found")
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// HandleCreate registers a new account
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input accounts.CreateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.Create(input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, account)
}

// HandleUpdate changes the mutable fields of an account
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input accounts.UpdateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.Update(chi.URLParam(r, "id"), input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if account == nil {
		h.writeError(w, http.StatusNotFound, "account not found")
		return
	}

	h.writeJSON(w, http.StatusOK, account)
}

// HandleSetStatus toggles an account between active and inactive
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.AccountStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.SetStatus(chi.URLParam(r, "id"), body.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if account == nil {
		h.writeError(w, http.StatusNotFound, "account not found")
		return
	}

	h.writeJSON(w, http.StatusOK, account)
}

// HandleDelete removes an account and its investments
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// writeServiceError maps service-layer errors onto HTTP responses:
// validation errors are field-scoped 400s, duplicate documents reject the
// create with a single 409 message.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verrs.Fields(),
		})
		return
	}

	var dup domain.DuplicateDocumentError
	if errors.As(err, &dup) {
		h.writeError(w, http.StatusConflict, dup.Error())
		return
	}

	h.log.Error().Err(err).Msg("Account operation failed")
	h.writeError(w, http.StatusInternalServerError, err.Error())
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
