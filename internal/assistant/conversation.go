package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ngenohkevin/aura-explorer/internal/logging"
	"github.com/ngenohkevin/aura-explorer/internal/metrics"
)

var (
	// ErrBusy is returned while a previous message is still awaiting its reply
	ErrBusy = errors.New("assistant is still answering the previous message")
	// ErrBlankMessage is returned for empty or whitespace-only input
	ErrBlankMessage = errors.New("message is blank")
)

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Failed    bool      `json:"failed,omitempty"`
}

// Conversation is a chat transcript with at most one request in flight
type Conversation struct {
	mu        sync.Mutex
	responder Responder
	messages  []Message
	pending   bool
	now       func() time.Time
}

// NewConversation starts a conversation with a localized greeting
func NewConversation(responder Responder, lang Language) *Conversation {
	c := &Conversation{
		responder: responder,
		now:       time.Now,
	}
	c.messages = []Message{{Role: RoleAssistant, Text: Greeting(lang), Timestamp: c.now()}}
	return c
}

// Messages returns a copy of the transcript
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Pending reports whether a reply is awaited
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Send appends the user's text, asks the responder once and appends its
// reply. A failed request is answered with a localized error message, so
// the only errors returned are ErrBlankMessage and ErrBusy.
func (c *Conversation) Send(ctx context.Context, text, summary string, lang Language) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrBlankMessage
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return Message{}, ErrBusy
	}
	c.pending = true
	c.messages = append(c.messages, Message{Role: RoleUser, Text: text, Timestamp: c.now()})
	c.mu.Unlock()

	start := time.Now()
	reply, err := c.responder.Respond(ctx, text, summary, lang)
	metrics.RecordAssistantRequest(time.Since(start), err == nil)

	msg := Message{Role: RoleAssistant, Text: reply}
	if err != nil {
		logging.FromContext(ctx).Warn("assistant request failed",
			zap.String("language", string(lang)),
			zap.Error(err),
		)
		msg.Text = FailureText(lang, KindOf(err))
		msg.Failed = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	msg.Timestamp = c.now()
	c.messages = append(c.messages, msg)
	c.pending = false
	return msg, nil
}
