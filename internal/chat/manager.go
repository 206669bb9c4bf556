package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rmorales/opotutor/internal/llm"
	"github.com/rmorales/opotutor/internal/store"
)

const systemPrompt = `Eres un tutor experto en legislación de la Seguridad Social española, especializado en la preparación de oposiciones a la Administración de la Seguridad Social.

Reglas:
- Responde siempre en español, con terminología oficial.
- Cita el artículo o precepto aplicable cuando la pregunta trate de normativa concreta.
- Si una cuantía o porcentaje cambia cada año, indícalo y advierte al opositor de que compruebe el valor vigente.
- Sé claro y directo; el opositor estudia con tiempo limitado.`

// maxSessions bounds the live session registry.
const maxSessions = 16

var (
	// ErrBlankMessage rejects empty or whitespace-only sends.
	ErrBlankMessage = errors.New("message is blank")

	// ErrSendInFlight rejects a send while another is outstanding for
	// the same conversation.
	ErrSendInFlight = errors.New("a send is already in flight for this conversation")

	// ErrNoConversation rejects operations against an unknown
	// conversation id.
	ErrNoConversation = errors.New("no such conversation")
)

// Manager owns the conversation list, the live session registry and the
// streaming send flow. All methods are safe for concurrent use; sends
// against different conversations may overlap, sends against the same
// conversation are serialized by rejection.
type Manager struct {
	mu       sync.Mutex
	provider llm.Provider
	state    store.StateRepo

	conversations []*Conversation
	activeID      string
	inFlight      map[string]bool
	sessions      *sessionRegistry
}

// NewManager creates a Manager, restoring the conversation list from the
// state store if one was saved.
func NewManager(provider llm.Provider, state store.StateRepo) *Manager {
	m := &Manager{
		provider: provider,
		state:    state,
		inFlight: make(map[string]bool),
		sessions: newSessionRegistry(maxSessions),
	}

	var saved []*Conversation
	if state.Load(context.Background(), store.KeyChatConversations, &saved) && len(saved) > 0 {
		m.conversations = saved
		m.activeID = saved[0].ID
	}

	return m
}

// Conversations returns the conversation list, newest first.
func (m *Manager) Conversations() []*Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Conversation, len(m.conversations))
	copy(out, m.conversations)
	return out
}

// Active returns the active conversation, or nil when none exists.
func (m *Manager) Active() *Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(m.activeID)
}

// Transcript returns a copy of a conversation's title and messages,
// safe to read while a reply is streaming into it.
func (m *Manager) Transcript(conversationID string) (title string, messages []Message, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.findLocked(conversationID)
	if c == nil {
		return "", nil, false
	}
	out := make([]Message, len(c.Messages))
	copy(out, c.Messages)
	return c.Title, out, true
}

// CreateConversation prepends a new conversation with the seed assistant
// message and makes it active.
func (m *Manager) CreateConversation() *Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := NewConversation()
	m.conversations = append([]*Conversation{c}, m.conversations...)
	m.activeID = c.ID
	m.persistLocked()
	return c
}

// SelectConversation makes id the active conversation. No-op when id is
// already active or unknown.
func (m *Manager) SelectConversation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == m.activeID {
		return
	}
	if m.findLocked(id) != nil {
		m.activeID = id
	}
}

// DeleteConversation removes a conversation and disposes its session.
func (m *Manager) DeleteConversation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.conversations {
		if c.ID == id {
			m.conversations = append(m.conversations[:i], m.conversations[i+1:]...)
			break
		}
	}
	m.sessions.dispose(id)

	if m.activeID == id {
		m.activeID = ""
		if len(m.conversations) > 0 {
			m.activeID = m.conversations[0].ID
		}
	}
	m.persistLocked()
}

// SendMessage appends text as a user message, streams the assistant
// reply into a new message and persists the transcript. Each received
// fragment is also forwarded to emit (which may be nil) in arrival
// order. The call blocks until the stream completes.
//
// The target is resolved by conversation id at completion time as well
// as at call time: if the conversation was deleted while the call was
// outstanding, the result is discarded.
func (m *Manager) SendMessage(ctx context.Context, conversationID, text string, emit func(fragment string)) error {
	if strings.TrimSpace(text) == "" {
		return ErrBlankMessage
	}

	m.mu.Lock()
	c := m.findLocked(conversationID)
	if c == nil {
		m.mu.Unlock()
		return ErrNoConversation
	}
	if m.inFlight[conversationID] {
		m.mu.Unlock()
		return ErrSendInFlight
	}
	m.inFlight[conversationID] = true

	// First user message fixes the title.
	if c.userMessageCount() == 0 {
		c.Title = DeriveTitle(text)
	}
	c.Messages = append(c.Messages, Message{ID: uuid.NewString(), Role: RoleUser, Text: text})

	target := uuid.NewString()
	c.Messages = append(c.Messages, Message{ID: target, Role: RoleAssistant})

	sess := m.sessions.get(conversationID)
	sess.history = append(sess.history, llm.Message{Role: llm.RoleUser, Content: text})
	history := append([]llm.Message(nil), sess.history...)

	m.persistLocked()
	m.mu.Unlock()

	ctx = llm.WithPurpose(ctx, "chat")
	req := llm.Request{
		System:      systemPrompt,
		Messages:    history,
		MaxTokens:   4096,
		Temperature: 0.7,
	}

	resp, err := m.provider.GenerateStream(ctx, req, func(fragment string) {
		m.appendFragment(conversationID, target, fragment)
		if emit != nil {
			emit(fragment)
		}
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, conversationID)

	// Completion-time identity check: discard if the conversation is gone.
	c = m.findLocked(conversationID)
	if c == nil {
		return nil
	}

	if err != nil {
		m.setMessageTextLocked(c, target, errorText)
		m.persistLocked()
		return err
	}

	sess = m.sessions.get(conversationID)
	sess.history = append(sess.history, llm.Message{Role: llm.RoleAssistant, Content: string(resp.Content)})
	m.persistLocked()
	return nil
}

// AttachDocument injects document text into the conversation's model
// context so later questions can reference it, and records a visible
// notice in the transcript. The document itself is not displayed.
func (m *Manager) AttachDocument(conversationID, name, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrBlankMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.findLocked(conversationID)
	if c == nil {
		return ErrNoConversation
	}
	if m.inFlight[conversationID] {
		return ErrSendInFlight
	}

	sess := m.sessions.get(conversationID)
	sess.history = append(sess.history, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("Documento adjunto (%s), tenlo en cuenta en las siguientes preguntas:\n\n%s", name, text),
	})

	c.Messages = append(c.Messages, Message{
		ID:   uuid.NewString(),
		Role: RoleAssistant,
		Text: fmt.Sprintf("He leído el documento %q. Pregúntame lo que quieras sobre él.", name),
	})
	m.persistLocked()
	return nil
}

// InFlight reports whether a send is outstanding for the conversation.
func (m *Manager) InFlight(conversationID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight[conversationID]
}

func (m *Manager) appendFragment(conversationID, messageID, fragment string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.findLocked(conversationID)
	if c == nil {
		return
	}
	for i := range c.Messages {
		if c.Messages[i].ID == messageID {
			c.Messages[i].Text += fragment
			return
		}
	}
}

func (m *Manager) setMessageTextLocked(c *Conversation, messageID, text string) {
	for i := range c.Messages {
		if c.Messages[i].ID == messageID {
			c.Messages[i].Text = text
			return
		}
	}
}

func (m *Manager) findLocked(id string) *Conversation {
	for _, c := range m.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *Manager) persistLocked() {
	m.state.Save(context.Background(), store.KeyChatConversations, m.conversations)
}
