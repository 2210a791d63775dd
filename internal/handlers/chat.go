package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"summit-backend/internal/models"
	"summit-backend/internal/services"
)

// completer is the slice of the Claude service the proxy needs.
type completer interface {
	SendMessage(ctx context.Context, preprompt string, messages []models.ChatMessage) (string, error)
}

// ChatHandler is the pass-through proxy. Errors come back as bracketed
// sentinel replies with a 500 status so the caller can always render the
// reply field as chat content.
type ChatHandler struct {
	claude completer
}

func NewChatHandler(claude completer) *ChatHandler {
	return &ChatHandler{claude: claude}
}

func (h *ChatHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	var req models.ProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	reply, err := h.claude.SendMessage(r.Context(), req.Preprompt, req.Messages)
	if err != nil {
		var upstream *services.UpstreamError
		switch {
		case errors.Is(err, services.ErrMissingAPIKey):
			log.Println("[Claude Error] Missing API key")
			writeJSON(w, http.StatusInternalServerError, models.ProxyResponse{Reply: "[Missing API key]"})
		case errors.As(err, &upstream):
			log.Printf("[Claude API error] %s", upstream.Message)
			writeJSON(w, http.StatusInternalServerError, models.ProxyResponse{Reply: "[Claude Error] " + upstream.Message})
		default:
			log.Printf("[Claude API Error] %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ProxyResponse{Reply: "[Error connecting to Claude]"})
		}
		return
	}

	writeJSON(w, http.StatusOK, models.ProxyResponse{Reply: reply})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
