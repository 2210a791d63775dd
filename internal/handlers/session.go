package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"summit-backend/internal/chat"
	"summit-backend/internal/models"
)

// SessionHandler exposes the in-memory session list and the turn controller
// over HTTP. Sessions are addressed by their position in the list; the list
// is append-only and never empty.
type SessionHandler struct {
	store      *chat.Store
	controller *chat.Controller
}

func NewSessionHandler(store *chat.Store, controller *chat.Controller) *SessionHandler {
	return &SessionHandler{store: store, controller: controller}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	index := h.store.Create()

	snap, err := h.store.Snapshot(index)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"index":   index,
		"session": snap,
	})
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshots())
}

func (h *SessionHandler) SelectCurrent(w http.ResponseWriter, r *http.Request) {
	var req models.SelectSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.store.Select(req.Index); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("OUT_OF_RANGE", "Session index out of range", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session selected"})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session index", r))
		return
	}

	snap, err := h.store.Snapshot(index)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session index", r))
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	reply, err := h.controller.SendMessage(r.Context(), index, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message content is required", r))
		case errors.Is(err, chat.ErrIndexOutOfRange):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		case errors.Is(err, chat.ErrTurnInFlight):
			writeJSON(w, http.StatusConflict, errorResp("TURN_IN_FLIGHT", "A turn is already in flight for this session", r))
		default:
			// The failure is already recorded in the session as an
			// assistant-role sentinel bubble.
			writeJSON(w, http.StatusBadGateway, models.ProxyResponse{Reply: reply})
		}
		return
	}

	writeJSON(w, http.StatusOK, models.ProxyResponse{Reply: reply})
}
