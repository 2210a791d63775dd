package models

import "github.com/google/uuid"

// SessionSnapshot is the read-only view of one chat session handed to the
// HTTP layer. Messages are a copy; mutating a snapshot never touches the store.
type SessionSnapshot struct {
	ID       uuid.UUID     `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
	Loading  bool          `json:"loading"`
}

// SessionListSnapshot is the full session list plus the current index pointer.
type SessionListSnapshot struct {
	Sessions []SessionSnapshot `json:"sessions"`
	Current  int               `json:"current"`
}

// WSMessage is the envelope for frames pushed over the event stream.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ReplyEvent announces that an assistant reply was appended to a session.
type ReplyEvent struct {
	SessionIndex int    `json:"session_index"`
	Reply        string `json:"reply"`
}

// TitleEvent announces that a session's derived title settled.
type TitleEvent struct {
	SessionIndex int    `json:"session_index"`
	Title        string `json:"title"`
}
