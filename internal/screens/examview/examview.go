// Package examview implements the timed mock exam flow: pick topics,
// generate the exam, answer against the clock, review the score.
package examview

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/casegen"
	"github.com/rmorales/opotutor/internal/exam"
	"github.com/rmorales/opotutor/internal/progress"
	"github.com/rmorales/opotutor/internal/quiz"
	"github.com/rmorales/opotutor/internal/screen"
	"github.com/rmorales/opotutor/internal/syllabus"
	"github.com/rmorales/opotutor/internal/ui/components"
	"github.com/rmorales/opotutor/internal/ui/layout"
	"github.com/rmorales/opotutor/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ExamScreen drives one mock exam session.
type ExamScreen struct {
	generator   *casegen.Generator
	progressSvc *progress.Service

	session   *exam.Session
	checklist components.Checklist
	current   int
	choice    components.MultiChoice
	spinner   int
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)

// New creates the mock exam screen.
func New(generator *casegen.Generator, progressSvc *progress.Service) *ExamScreen {
	return &ExamScreen{
		generator:   generator,
		progressSvc: progressSvc,
		session:     exam.NewSession(),
		checklist:   components.NewChecklist(syllabus.Topics),
	}
}

func (s *ExamScreen) Init() tea.Cmd {
	return nil
}

func (s *ExamScreen) Title() string {
	return "Simulacro de Examen"
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch s.session.Stage() {
	case exam.StageConfiguring:
		return []layout.KeyHint{
			{Key: "Espacio", Description: "Marcar tema"},
			{Key: "Enter", Description: "Empezar"},
			{Key: "Esc", Description: "Volver"},
		}
	case exam.StageInProgress:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Mover"},
			{Key: "Enter", Description: "Responder"},
			{Key: "←→", Description: "Cambiar pregunta"},
			{Key: "F", Description: "Entregar"},
		}
	case exam.StageResults:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Nuevo simulacro"},
			{Key: "Esc", Description: "Volver"},
		}
	default:
		return nil
	}
}

func (s *ExamScreen) generateExam() tea.Cmd {
	topics := s.session.SelectedTopics
	count := s.session.QuestionCount
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		ex, err := s.generator.GenerateExam(ctx, topics, count)
		return examReadyMsg{Exam: ex, Err: err}
	}
}

func (s *ExamScreen) timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (s *ExamScreen) spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case examReadyMsg:
		if msg.Err != nil {
			s.session.FailGeneration(msg.Err)
			return s, nil
		}
		s.session.Begin(msg.Exam)
		s.current = 0
		s.rebuildChoice()
		return s, s.timerTick()

	case timerTickMsg:
		if s.session.Stage() != exam.StageInProgress {
			return s, nil
		}
		records := s.session.Tick()
		if records != nil {
			return s, s.saveRecords(records)
		}
		return s, s.timerTick()

	case spinnerTickMsg:
		if s.session.Stage() != exam.StageGenerating {
			return s, nil
		}
		s.spinner = (s.spinner + 1) % len(spinnerFrames)
		return s, s.spinnerTick()

	case recordsSavedMsg:
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.session.Stage() {
	case exam.StageConfiguring:
		if msg.String() == "enter" {
			for _, topic := range s.checklist.Selected() {
				if !contains(s.session.SelectedTopics, topic) {
					s.session.ToggleTopic(topic)
				}
			}
			for _, topic := range s.session.SelectedTopics {
				if !s.checklist.Checked[topic] {
					s.session.ToggleTopic(topic)
				}
			}
			if err := s.session.Start(); err != nil {
				return s, nil
			}
			return s, tea.Batch(s.generateExam(), s.spinnerTick())
		}
		var cmd tea.Cmd
		s.checklist, cmd = s.checklist.Update(msg)
		return s, cmd

	case exam.StageInProgress:
		switch msg.String() {
		case "left", "h":
			if s.current > 0 {
				s.current--
				s.rebuildChoice()
			}
			return s, nil
		case "right", "l":
			if s.current < len(s.session.Exam.Questions)-1 {
				s.current++
				s.rebuildChoice()
			}
			return s, nil
		case "f", "F":
			records := s.session.Finish()
			if records != nil {
				return s, s.saveRecords(records)
			}
			return s, nil
		case "enter":
			// Answers go through the session so its stage gate applies.
			q := s.session.Exam.Questions[s.current]
			if s.choice.Cursor >= 0 && s.choice.Cursor < len(q.Options) {
				s.session.SelectOption(q.ID, q.Options[s.choice.Cursor].ID)
				if s.session.Answers.State(q.ID).Resolved(quiz.ExamRules()) {
					// single attempt: move on to the next unanswered question
					s.advanceToUnanswered()
				}
			}
			return s, nil
		}

		// MultiChoice handles option cursor movement.
		s.choice, _ = s.choice.Update(msg)
		return s, nil

	case exam.StageResults:
		if msg.String() == "enter" {
			s.session.Reset()
			return s, nil
		}
	}
	return s, nil
}

func (s *ExamScreen) advanceToUnanswered() {
	questions := s.session.Exam.Questions
	rules := quiz.ExamRules()
	for i := 1; i <= len(questions); i++ {
		idx := (s.current + i) % len(questions)
		if !s.session.Answers.State(questions[idx].ID).Resolved(rules) {
			s.current = idx
			s.rebuildChoice()
			return
		}
	}
}

func (s *ExamScreen) rebuildChoice() {
	q := s.session.Exam.Questions[s.current]
	s.choice = components.NewMultiChoice(q, quiz.ExamRules(), s.session.Answers.State(q.ID))
}

func (s *ExamScreen) saveRecords(records []quiz.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, rec := range records {
			if err := s.progressSvc.Record(ctx, rec.QuestionID, rec.Topic, rec.Correct); err != nil {
				return recordsSavedMsg{Err: err}
			}
		}
		return recordsSavedMsg{}
	}
}

func (s *ExamScreen) View(width, height int) string {
	switch s.session.Stage() {
	case exam.StageGenerating:
		return centered(width, height,
			spinnerFrames[s.spinner]+" Generando simulacro de examen...")

	case exam.StageInProgress:
		return s.renderExam(width, height)

	case exam.StageResults:
		return s.renderResults(width, height)

	default:
		return s.renderConfig(width, height)
	}
}

func (s *ExamScreen) renderConfig(width, height int) string {
	body := theme.Title.Render("Configura tu simulacro") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("%d preguntas, %s por pregunta", s.session.QuestionCount, "90s")) + "\n\n" +
		s.checklist.View()
	if s.session.Err != nil {
		body += "\n" + theme.Incorrect.Render(s.session.Err.Error())
	}
	return centered(width, height, body)
}

func (s *ExamScreen) renderExam(width, height int) string {
	answered := 0
	rules := quiz.ExamRules()
	for _, q := range s.session.Exam.Questions {
		if s.session.Answers.State(q.ID).Resolved(rules) {
			answered++
		}
	}

	timer := components.Timer{Seconds: s.session.TimeRemaining}
	status := timer.View() + "   " +
		theme.Hint.Render(fmt.Sprintf("Pregunta %d/%d · %d respondidas",
			s.current+1, len(s.session.Exam.Questions), answered))

	card := theme.Card.Width(min(width-4, 100)).Render(
		theme.Title.Render(s.session.Exam.Title) + "\n\n" +
			status + "\n\n" + s.choice.View(),
	)
	return centered(width, height, card)
}

func (s *ExamScreen) renderResults(width, height int) string {
	total := len(s.session.Exam.Questions)
	body := theme.Title.Render("Resultados del simulacro") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("Aciertos: %d de %d", s.session.Correct, total)) + "\n" +
		scoreStyle(s.session.Score).Render(fmt.Sprintf("Nota: %.1f / 10", s.session.Score)) + "\n\n" +
		theme.Hint.Render("Pulsa Enter para configurar otro simulacro")
	return centered(width, height, body)
}

func scoreStyle(score float64) lipgloss.Style {
	if score >= 5 {
		return theme.Correct
	}
	return theme.Incorrect
}

func centered(width, height int, body string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
