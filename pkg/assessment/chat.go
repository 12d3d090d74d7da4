package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMessage is returned by Chat.Reply for blank messages.
var ErrEmptyMessage = errors.New("assessment: message is empty")

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one line of the assistant conversation.
type Message struct {
	Role    Role
	Content string
}

// Chat keeps the idea assistant conversation.
type Chat struct {
	history []Message
}

// Reply records message and the assistant answer, returning the answer.
func (c *Chat) Reply(ctx context.Context, message string) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	if strings.TrimSpace(message) == "" {
		return Message{}, ErrEmptyMessage
	}
	answer := Message{
		Role:    RoleAssistant,
		Content: fmt.Sprintf("Thank you for your message: \"%s\". How can I assist you further with your idea?", message),
	}
	c.history = append(c.history, Message{Role: RoleUser, Content: message}, answer)
	return answer, nil
}

// History returns the conversation so far.
func (c *Chat) History() []Message {
	return append([]Message(nil), c.history...)
}
