// Package chatview implements the tutor chat screen: a conversation
// list beside a streaming transcript with an input line.
package chatview

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/chat"
	"github.com/rmorales/opotutor/internal/ingest"
	"github.com/rmorales/opotutor/internal/screen"
	"github.com/rmorales/opotutor/internal/ui/components"
	"github.com/rmorales/opotutor/internal/ui/layout"
	"github.com/rmorales/opotutor/internal/ui/theme"
)

type focus int

const (
	focusList focus = iota
	focusInput
)

const sidebarWidth = 30

// ChatScreen lets the user talk to the tutor across multiple saved
// conversations.
type ChatScreen struct {
	manager *chat.Manager

	focus  focus
	cursor int
	input  components.TextInput
	notice string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates the chat screen. A conversation is created on first use
// when none exist.
func New(manager *chat.Manager) *ChatScreen {
	s := &ChatScreen{
		manager: manager,
		focus:   focusInput,
		input:   components.NewTextInput("Escribe tu pregunta...", false, 500),
	}
	if manager.Active() == nil {
		manager.CreateConversation()
	}
	return s
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Chat con el Tutor"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if s.focus == focusList {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Mover"},
			{Key: "Enter", Description: "Abrir"},
			{Key: "N", Description: "Nueva"},
			{Key: "D", Description: "Borrar"},
			{Key: "Tab", Description: "Escribir"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Enviar"},
		{Key: "Tab", Description: "Conversaciones"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *ChatScreen) send(conversationID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		err := s.manager.SendMessage(ctx, conversationID, text, nil)
		return sendDoneMsg{ConversationID: conversationID, Err: err}
	}
}

func (s *ChatScreen) attach(conversationID, source string) tea.Cmd {
	return func() tea.Msg {
		var text string
		var err error
		if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			text, err = ingest.FromURL(ctx, source)
		} else {
			text, err = ingest.FromFile(source)
		}
		if err != nil {
			return attachDoneMsg{ConversationID: conversationID, Err: err}
		}
		err = s.manager.AttachDocument(conversationID, filepath.Base(source), text)
		return attachDoneMsg{ConversationID: conversationID, Err: err}
	}
}

func (s *ChatScreen) streamTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return streamTickMsg(t)
	})
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sendDoneMsg:
		return s, nil

	case attachDoneMsg:
		if msg.Err != nil {
			s.notice = "No se pudo adjuntar el documento: " + msg.Err.Error()
		} else {
			s.notice = ""
		}
		return s, nil

	case streamTickMsg:
		active := s.manager.Active()
		if active != nil && s.manager.InFlight(active.ID) {
			return s, s.streamTick()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "tab" {
		if s.focus == focusList {
			s.focus = focusInput
			return s, s.input.Init()
		}
		s.focus = focusList
		return s, nil
	}

	if s.focus == focusList {
		return s.handleListKey(msg)
	}
	return s.handleInputKey(msg)
}

func (s *ChatScreen) handleListKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	conversations := s.manager.Conversations()

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(conversations)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(conversations) {
			s.manager.SelectConversation(conversations[s.cursor].ID)
			s.focus = focusInput
			return s, s.input.Init()
		}
	case "n", "N":
		s.manager.CreateConversation()
		s.cursor = 0
		s.focus = focusInput
		return s, s.input.Init()
	case "d", "D":
		if s.cursor < len(conversations) {
			s.manager.DeleteConversation(conversations[s.cursor].ID)
			if s.cursor > 0 {
				s.cursor--
			}
		}
	}
	return s, nil
}

func (s *ChatScreen) handleInputKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		active := s.manager.Active()
		if active == nil {
			active = s.manager.CreateConversation()
		}
		text := strings.TrimSpace(s.input.Value())
		if text == "" || s.manager.InFlight(active.ID) {
			return s, nil
		}
		s.input.Reset()
		s.notice = ""

		// "/doc <ruta-o-url>" attaches a document to the conversation.
		if rest, ok := strings.CutPrefix(text, "/doc "); ok {
			return s, tea.Batch(s.attach(active.ID, strings.TrimSpace(rest)), s.input.Init())
		}
		return s, tea.Batch(s.send(active.ID, text), s.streamTick(), s.input.Init())
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) View(width, height int) string {
	sidebar := s.renderSidebar(height)
	transcript := s.renderTranscript(width-sidebarWidth-2, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", transcript)
}

func (s *ChatScreen) renderSidebar(height int) string {
	conversations := s.manager.Conversations()
	active := s.manager.Active()

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Conversaciones") + "\n\n")
	for i, c := range conversations {
		label := c.Title
		if active != nil && c.ID == active.ID {
			label = "● " + label
		} else {
			label = "  " + label
		}
		if s.focus == focusList && i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ "+label) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+label) + "\n")
		}
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(b.String())
}

func (s *ChatScreen) renderTranscript(width, height int) string {
	active := s.manager.Active()
	if active == nil {
		return theme.Hint.Render("Crea una conversación con N")
	}

	_, messages, ok := s.manager.Transcript(active.ID)
	if !ok {
		return ""
	}

	msgWidth := width - 6
	if msgWidth < 20 {
		msgWidth = 20
	}

	var parts []string
	for _, m := range messages {
		var bubble string
		if m.Role == chat.RoleUser {
			bubble = lipgloss.NewStyle().
				Foreground(theme.Text).
				Background(theme.BgCard).
				Padding(0, 1).
				Width(msgWidth).
				Align(lipgloss.Right).
				Render(m.Text)
		} else {
			bubble = lipgloss.NewStyle().
				Foreground(theme.Text).
				Padding(0, 1).
				Width(msgWidth).
				Render(m.Text)
		}
		parts = append(parts, bubble)
	}

	if s.manager.InFlight(active.ID) {
		parts = append(parts, theme.Hint.Render("El tutor está escribiendo..."))
	}
	if s.notice != "" {
		parts = append(parts, theme.Incorrect.Render(s.notice))
	}

	transcript := strings.Join(parts, "\n\n")

	// Keep the tail visible: drop leading lines that overflow.
	inputView := s.input.View()
	available := height - lipgloss.Height(inputView) - 2
	lines := strings.Split(transcript, "\n")
	if available > 0 && len(lines) > available {
		lines = lines[len(lines)-available:]
	}
	transcript = strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render(transcript + "\n\n" + inputView)
}
