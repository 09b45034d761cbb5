package chat

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned by Ask while an earlier question is still pending.
var ErrBusy = errors.New("chat: a question is already pending")

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation.
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Completer answers questions.
type Completer interface {
	Complete(ctx context.Context, question string) (Answer, error)
}

// Conversation is an append-only transcript with at most one outstanding
// question.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
	typing   bool
	now      func() time.Time
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{now: time.Now}
}

// Ask appends question, waits for the answer and appends it. The transcript
// keeps the question when the call fails.
func (c *Conversation) Ask(ctx context.Context, client Completer, question string) (Answer, error) {
	c.mu.Lock()
	if c.typing {
		c.mu.Unlock()
		return Answer{}, ErrBusy
	}
	c.typing = true
	c.messages = append(c.messages, Message{Role: RoleUser, Text: question, At: c.now()})
	c.mu.Unlock()

	answer, err := client.Complete(ctx, question)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.typing = false
	if err != nil {
		return Answer{}, err
	}
	c.messages = append(c.messages, Message{Role: RoleAssistant, Text: answer.Text, At: c.now()})
	return answer, nil
}

// Typing reports whether a question is pending.
func (c *Conversation) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}
