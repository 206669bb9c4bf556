package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/quiz"
	"github.com/rmorales/opotutor/internal/ui/theme"
)

// MultiChoice renders one quiz question and drives its answer state.
// The same component serves practical cases (two attempts, immediate
// reveal) and exams (one attempt, no reveal); the rules decide.
type MultiChoice struct {
	Question quiz.Question
	Rules    quiz.Rules
	State    *quiz.AnswerState
	Cursor   int
}

// NewMultiChoice creates the component around an answer state owned by
// the session.
func NewMultiChoice(q quiz.Question, rules quiz.Rules, state *quiz.AnswerState) MultiChoice {
	return MultiChoice{
		Question: q,
		Rules:    rules,
		State:    state,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles navigation and selection. It returns the selection
// result so the screen can log records and advance.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, quiz.Result) {
	var result quiz.Result

	if m.State.Resolved(m.Rules) {
		return m, result
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, result
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Question.Options)-1 {
			m.Cursor++
		}
	case "enter":
		if m.Cursor >= 0 && m.Cursor < len(m.Question.Options) {
			result = m.State.Select(m.Question, m.Rules, m.Question.Options[m.Cursor].ID)
		}
	}

	return m, result
}

// View renders the question, its options and, once resolved under
// immediate scoring, the explanation.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question.Text) + "\n\n"

	tried := make(map[string]bool, len(m.State.SelectedOptions))
	for _, id := range m.State.SelectedOptions {
		tried[id] = true
	}
	resolved := m.State.Resolved(m.Rules)
	reveal := m.State.ShowExplanation

	for i, opt := range m.Question.Options {
		prefix := "  "
		if i == m.Cursor && !resolved {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, opt.ID, opt.Text)

		switch {
		case reveal && opt.ID == m.Question.CorrectOptionID:
			s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
		case tried[opt.ID] && opt.ID != m.Question.CorrectOptionID:
			s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
		case i == m.Cursor && !resolved:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	if !resolved && m.State.Attempts > 0 && m.Rules.MaxAttempts > 1 {
		s += "\n" + lipgloss.NewStyle().Foreground(theme.Accent).
			Render("Respuesta incorrecta. Te queda un intento.") + "\n"
	}

	if reveal && m.Question.Explanation != "" {
		s += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render(m.Question.Explanation) + "\n"
	}

	return s
}
