package models

// Message roles. The store only ever holds user and assistant messages;
// system framing travels separately as the preprompt.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProxyRequest is the payload accepted by the Claude proxy endpoint.
// Messages are forwarded to the upstream API verbatim.
type ProxyRequest struct {
	Messages  []ChatMessage `json:"messages"`
	Preprompt string        `json:"preprompt"`
}

// ProxyResponse carries the assistant reply. Error conditions are conveyed
// as bracketed sentinel strings in Reply alongside a 5xx status, so a client
// can always render Reply as chat content.
type ProxyResponse struct {
	Reply string `json:"reply"`
}

// SendMessageRequest is the payload for running one turn against a session.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SelectSessionRequest points the session list's current index at a session.
type SelectSessionRequest struct {
	Index int `json:"index"`
}
