package chat

import (
	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation transcript. Text is mutable
// only while the message is the active streaming target.
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Conversation is an ordered, append-only message log with a mutable
// title derived from the first user message.
type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// seedText opens every new conversation before the first user message.
const seedText = "¡Hola! Soy tu tutor experto en legislación de la Seguridad Social. ¿En qué puedo ayudarte hoy?"

// errorText replaces the streaming target wholesale when the model call
// fails.
const errorText = "Lo siento, ha ocurrido un error. Por favor, inténtalo de nuevo."

// defaultTitle names conversations until the first user message arrives.
const defaultTitle = "Nueva conversación"

// titleLimit is the rune cap for titles derived from user messages.
const titleLimit = 30

// NewConversation creates a conversation holding exactly the seed
// assistant message.
func NewConversation() *Conversation {
	return &Conversation{
		ID:    uuid.NewString(),
		Title: defaultTitle,
		Messages: []Message{
			{ID: uuid.NewString(), Role: RoleAssistant, Text: seedText},
		},
	}
}

// DeriveTitle truncates text to the title limit, marking truncation with
// an ellipsis. Counted in runes so multibyte Spanish text is not split.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleLimit {
		return text
	}
	return string(runes[:titleLimit]) + "..."
}

// userMessageCount returns how many user messages the conversation holds.
func (c *Conversation) userMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}
