package chat

import (
	"context"
	"errors"
	"log"
	"strings"

	"summit-backend/internal/config"
	"summit-backend/internal/models"
)

// ReplyFetchFailed is appended as an assistant message when the primary
// reply call fails, so the failure renders as a normal chat bubble.
const ReplyFetchFailed = "[Error fetching reply]"

// ErrEmptyMessage rejects inputs that trim to nothing before any state is
// touched.
var ErrEmptyMessage = errors.New("message content is empty")

// Completer is the slice of the Claude service the controller needs.
type Completer interface {
	SendMessage(ctx context.Context, preprompt string, messages []models.ChatMessage) (string, error)
}

// Publisher pushes session events to connected UI clients.
type Publisher interface {
	Publish(msg models.WSMessage)
}

// TitleQueue hands title derivation off to a background worker. Enqueue
// reports whether the job was accepted. When no queue is wired the
// controller derives titles inline, preserving the original strictly
// sequential two-call protocol.
type TitleQueue interface {
	Enqueue(sessionIndex int, input string) bool
}

// Controller orchestrates one user turn: optimistic user append, the primary
// reply call, and — on a session's first user message only — a second call
// that derives a short title.
type Controller struct {
	store   *Store
	claude  Completer
	persona config.Persona
	hub     Publisher
	titles  TitleQueue
}

func NewController(store *Store, claude Completer, persona config.Persona, hub Publisher) *Controller {
	return &Controller{
		store:   store,
		claude:  claude,
		persona: persona,
		hub:     hub,
	}
}

// SetTitleQueue wires the background title pool. The pool needs the
// controller to run jobs, so this is set after construction.
func (c *Controller) SetTitleQueue(q TitleQueue) {
	c.titles = q
}

// SendMessage runs one turn against the session at index. On success it
// returns the assistant reply. On a primary-call failure the returned reply
// is the ReplyFetchFailed sentinel, already appended to the session, and the
// underlying error is returned alongside it.
func (c *Controller) SendMessage(ctx context.Context, index int, input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}

	if err := c.store.BeginTurn(index); err != nil {
		return "", err
	}

	// Optimistic append: the user message lands before any network call.
	// Store errors below this point are discarded: the only failure mode is
	// an out-of-range index, and the list is append-only, so an index that
	// survived BeginTurn stays valid for the rest of the turn.
	c.store.Append(index, models.ChatMessage{Role: models.RoleUser, Content: trimmed})

	msgs, err := c.store.Messages(index)
	if err != nil {
		return "", err
	}

	userCount := 0
	outgoing := make([]models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == models.RoleUser {
			userCount++
		}
		if m.Role == models.RoleUser || m.Role == models.RoleAssistant {
			outgoing = append(outgoing, m)
		}
	}

	reply, err := c.claude.SendMessage(ctx, c.persona.Preprompt, outgoing)
	if err != nil {
		log.Printf("[Turn] reply call failed for session %d: %v", index, err)
		c.store.Append(index, models.ChatMessage{Role: models.RoleAssistant, Content: ReplyFetchFailed})
		c.store.FinishReply(index, false)
		return ReplyFetchFailed, err
	}

	c.store.Append(index, models.ChatMessage{Role: models.RoleAssistant, Content: reply})

	firstTurn := userCount == 1
	c.store.FinishReply(index, firstTurn)
	c.publish(models.WSMessage{
		Type:    "reply_appended",
		Payload: models.ReplyEvent{SessionIndex: index, Reply: reply},
	})

	if firstTurn {
		if c.titles != nil {
			if !c.titles.Enqueue(index, trimmed) {
				// Dropped job: no worker will ever call FinishTitle, so
				// settle the session here. It keeps its default title.
				c.store.FinishTitle(index)
			}
		} else {
			c.DeriveTitle(ctx, index, trimmed)
		}
	}

	return reply, nil
}

// DeriveTitle issues the summarization call for a session's first user input
// and stores the capped result. A failed title call keeps the existing title;
// either way the session returns to Idle.
func (c *Controller) DeriveTitle(ctx context.Context, index int, input string) error {
	defer c.store.FinishTitle(index)

	raw, err := c.claude.SendMessage(ctx, c.persona.TitlePreprompt,
		[]models.ChatMessage{{Role: models.RoleUser, Content: input}})
	if err != nil {
		log.Printf("[Turn] title call failed for session %d: %v", index, err)
		return err
	}

	title := CapTitle(raw, c.persona.TitleWordCap)
	if err := c.store.SetTitle(index, title); err != nil {
		return err
	}

	c.publish(models.WSMessage{
		Type:    "title_updated",
		Payload: models.TitleEvent{SessionIndex: index, Title: title},
	})
	return nil
}

// CapTitle strips quote and newline characters from a raw summary and
// enforces the word cap, appending an ellipsis when truncating.
func CapTitle(raw string, limit int) string {
	cleaned := strings.NewReplacer(`'`, "", `"`, "", "\n", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)

	words := strings.Fields(cleaned)
	if limit > 0 && len(words) > limit {
		return strings.Join(words[:limit], " ") + "..."
	}
	return cleaned
}

func (c *Controller) publish(msg models.WSMessage) {
	if c.hub != nil {
		c.hub.Publish(msg)
	}
}
