package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"summit-backend/internal/models"
)

const (
	anthropicURL     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"

	// ReplyNoResponse is returned as a successful reply when the upstream
	// response carries no usable text.
	ReplyNoResponse = "[No response]"
)

// ErrMissingAPIKey is returned before any network call when no credential is
// configured. The proxy route translates it into the [Missing API key]
// sentinel with a 500.
var ErrMissingAPIKey = errors.New("anthropic API key is not configured")

// UpstreamError is an error reported inside the upstream JSON body, e.g. a
// rate limit or an invalid model id.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "claude API error: " + e.Message
}

// ClaudeService talks to the Anthropic Messages API with a fixed model and
// token budget. No retries, no streaming; the whole reply is buffered.
type ClaudeService struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
}

func NewClaudeService(apiKey, model string, maxTokens int) *ClaudeService {
	return &ClaudeService{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   anthropicURL,
		// No explicit timeout: transport defaults apply, matching the
		// original behavior.
		client: &http.Client{},
	}
}

// SendMessage issues one chat completion. The system field is set to the
// preprompt (possibly empty) and messages pass through unmodified and
// un-validated; the upstream API enforces its own schema.
func (s *ClaudeService) SendMessage(ctx context.Context, preprompt string, messages []models.ChatMessage) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	payload := struct {
		Model     string               `json:"model"`
		MaxTokens int                  `json:"max_tokens"`
		System    string               `json:"system"`
		Messages  []models.ChatMessage `json:"messages"`
	}{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    preprompt,
		Messages:  messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode claude request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build claude request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode claude response: %w", err)
	}

	if parsed.Error != nil {
		return "", &UpstreamError{Message: parsed.Error.Message}
	}

	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return ReplyNoResponse, nil
	}

	return parsed.Content[0].Text, nil
}
