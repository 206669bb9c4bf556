// Package caseview implements the practical-case study flow: pick a
// topic, generate a scenario, answer its questions with two attempts
// each, review the explanations.
package caseview

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/casegen"
	"github.com/rmorales/opotutor/internal/progress"
	"github.com/rmorales/opotutor/internal/quiz"
	"github.com/rmorales/opotutor/internal/screen"
	"github.com/rmorales/opotutor/internal/store"
	"github.com/rmorales/opotutor/internal/syllabus"
	"github.com/rmorales/opotutor/internal/ui/components"
	"github.com/rmorales/opotutor/internal/ui/layout"
	"github.com/rmorales/opotutor/internal/ui/theme"
)

type phase int

const (
	phaseTopics phase = iota
	phaseGenerating
	phaseQuestion
	phaseDone
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// CaseScreen drives one practical case from topic selection to review.
type CaseScreen struct {
	generator   *casegen.Generator
	progressSvc *progress.Service
	state       store.StateRepo

	phase    phase
	menu     components.Menu
	topic    string
	pcase    *casegen.PracticalCase
	answers  quiz.AnswerSet
	current  int
	choice   components.MultiChoice
	spinner  int
	errMsg   string
	resolved int
	correct  int
}

var _ screen.Screen = (*CaseScreen)(nil)
var _ screen.KeyHintProvider = (*CaseScreen)(nil)

// New creates the practical-case screen. A previously saved case, if
// present, can be resumed from the topic menu.
func New(generator *casegen.Generator, progressSvc *progress.Service, state store.StateRepo) *CaseScreen {
	s := &CaseScreen{
		generator:   generator,
		progressSvc: progressSvc,
		state:       state,
		answers:     quiz.AnswerSet{},
	}

	var saved savedCase
	items := []components.MenuItem{}
	if state != nil && state.Load(context.Background(), store.KeyPracticalCase, &saved) && saved.Case != nil {
		items = append(items, components.MenuItem{
			Label:  "Continuar caso anterior: " + saved.Case.Title,
			Action: func() tea.Cmd { return s.resume(saved) },
		})
	}
	for _, topic := range syllabus.Topics {
		topic := topic
		items = append(items, components.MenuItem{
			Label:  topic,
			Action: func() tea.Cmd { return s.start(topic) },
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

// savedCase is the persisted shape for resuming a case.
type savedCase struct {
	Case    *casegen.PracticalCase `json:"case"`
	Answers quiz.AnswerSet         `json:"answers"`
	Current int                    `json:"current"`
}

func (s *CaseScreen) Init() tea.Cmd {
	return nil
}

func (s *CaseScreen) Title() string {
	return "Caso Práctico"
}

func (s *CaseScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		if s.currentState().Resolved(quiz.CaseRules()) {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Siguiente"},
				{Key: "Esc", Description: "Volver"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Mover"},
			{Key: "Enter", Description: "Responder"},
			{Key: "Esc", Description: "Volver"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Nuevo caso"},
			{Key: "Esc", Description: "Volver"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Mover"},
			{Key: "Enter", Description: "Elegir tema"},
			{Key: "Esc", Description: "Volver"},
		}
	}
}

func (s *CaseScreen) start(topic string) tea.Cmd {
	s.phase = phaseGenerating
	s.topic = topic
	return tea.Batch(s.generateCase(topic), s.spinnerTick())
}

func (s *CaseScreen) resume(saved savedCase) tea.Cmd {
	s.pcase = saved.Case
	s.topic = saved.Case.Topic
	s.answers = saved.Answers
	if s.answers == nil {
		s.answers = quiz.AnswerSet{}
	}
	s.current = saved.Current
	if s.current >= len(s.pcase.Questions) {
		s.current = 0
	}
	s.phase = phaseQuestion
	s.rebuildChoice()
	return nil
}

func (s *CaseScreen) generateCase(topic string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		pc, err := s.generator.GenerateCase(ctx, topic, "")
		return caseReadyMsg{Case: pc, Err: err}
	}
}

func (s *CaseScreen) spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *CaseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case caseReadyMsg:
		if msg.Err != nil {
			s.phase = phaseTopics
			s.errMsg = fmt.Sprintf("No se pudo generar el caso: %v", msg.Err)
			return s, nil
		}
		s.pcase = msg.Case
		s.answers = quiz.AnswerSet{}
		s.current = 0
		s.errMsg = ""
		s.phase = phaseQuestion
		s.rebuildChoice()
		s.persist()
		return s, nil

	case spinnerTickMsg:
		if s.phase != phaseGenerating {
			return s, nil
		}
		s.spinner = (s.spinner + 1) % len(spinnerFrames)
		return s, s.spinnerTick()

	case recordSavedMsg:
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *CaseScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseTopics:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd

	case phaseQuestion:
		state := s.currentState()
		if state.Resolved(quiz.CaseRules()) && msg.String() == "enter" {
			return s.advance()
		}
		var result quiz.Result
		s.choice, result = s.choice.Update(msg)
		if result.Record != nil {
			if result.Correct {
				s.correct++
			}
			s.resolved++
			s.persist()
			return s, s.saveRecord(*result.Record)
		}
		if result.Accepted {
			s.persist()
		}
		return s, nil

	case phaseDone:
		if msg.String() == "enter" {
			s.phase = phaseTopics
			return s, nil
		}
	}
	return s, nil
}

func (s *CaseScreen) advance() (screen.Screen, tea.Cmd) {
	if s.current+1 < len(s.pcase.Questions) {
		s.current++
		s.rebuildChoice()
		s.persist()
		return s, nil
	}
	s.phase = phaseDone
	if s.state != nil {
		s.state.Delete(context.Background(), store.KeyPracticalCase)
	}
	return s, nil
}

func (s *CaseScreen) saveRecord(rec quiz.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.progressSvc.Record(ctx, rec.QuestionID, rec.Topic, rec.Correct)
		return recordSavedMsg{Err: err}
	}
}

func (s *CaseScreen) currentState() *quiz.AnswerState {
	return s.answers.State(s.pcase.Questions[s.current].ID)
}

func (s *CaseScreen) rebuildChoice() {
	q := s.pcase.Questions[s.current]
	s.choice = components.NewMultiChoice(q, quiz.CaseRules(), s.answers.State(q.ID))
}

func (s *CaseScreen) persist() {
	if s.state == nil || s.pcase == nil {
		return
	}
	s.state.Save(context.Background(), store.KeyPracticalCase, savedCase{
		Case:    s.pcase,
		Answers: s.answers,
		Current: s.current,
	})
}

func (s *CaseScreen) View(width, height int) string {
	switch s.phase {
	case phaseGenerating:
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.Text).
			Render(spinnerFrames[s.spinner] + " Generando caso práctico de\n" + s.topic + "...")

	case phaseQuestion:
		return s.renderQuestion(width, height)

	case phaseDone:
		return s.renderSummary(width, height)

	default:
		return s.renderTopics(width, height)
	}
}

func (s *CaseScreen) renderTopics(width, height int) string {
	title := theme.Title.Render("Elige un tema del temario")
	body := title + "\n\n" + s.menu.View()
	if s.errMsg != "" {
		body += "\n" + theme.Incorrect.Render(s.errMsg)
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (s *CaseScreen) renderQuestion(width, height int) string {
	header := theme.Title.Render(s.pcase.Title)
	scenario := theme.Body.Render(s.pcase.Scenario)
	counter := theme.Hint.Render(fmt.Sprintf("Pregunta %d de %d", s.current+1, len(s.pcase.Questions)))

	card := theme.Card.Width(min(width-4, 100)).Render(
		header + "\n\n" + scenario + "\n\n" + counter + "\n\n" + s.choice.View(),
	)

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}

func (s *CaseScreen) renderSummary(width, height int) string {
	score, correct := s.answers.Score(s.pcase.Questions)
	body := theme.Title.Render("Caso completado") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("Aciertos: %d de %d", correct, len(s.pcase.Questions))) + "\n" +
		theme.Body.Render(fmt.Sprintf("Nota: %.1f / 10", score)) + "\n\n" +
		theme.Hint.Render("Pulsa Enter para empezar otro caso")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
