package examview

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/rmorales/opotutor/internal/casegen"
	"github.com/rmorales/opotutor/internal/exam"
	"github.com/rmorales/opotutor/internal/quiz"
)

func testExam() *casegen.MockExam {
	return &casegen.MockExam{
		Title:  "Simulacro de Examen — Seguridad Social",
		Topics: []string{"Jubilación"},
		Questions: []quiz.Question{
			{
				ID:   "q1",
				Text: "¿Edad ordinaria de jubilación?",
				Options: []quiz.Option{
					{ID: "A", Text: "65 años"},
					{ID: "B", Text: "67 años"},
				},
				CorrectOptionID: "B",
				Topic:           "Jubilación",
			},
			{
				ID:   "q2",
				Text: "¿Periodo mínimo de cotización?",
				Options: []quiz.Option{
					{ID: "A", Text: "10 años"},
					{ID: "B", Text: "15 años"},
				},
				CorrectOptionID: "B",
				Topic:           "Jubilación",
			},
		},
	}
}

func screenInProgress(t *testing.T) *ExamScreen {
	t.Helper()
	s := New(nil, nil)
	s.session.ToggleTopic("Jubilación")
	if err := s.session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.session.Begin(testExam())
	s.rebuildChoice()
	return s
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestEnterRecordsAnswerThroughSession(t *testing.T) {
	s := screenInProgress(t)

	// Move the cursor to option B and answer.
	s.handleKey(keyPress('j'))
	s.handleKey(specialKey(tea.KeyEnter))

	state := s.session.Answers.State("q1")
	if got := state.LastSelection(); got != "B" {
		t.Fatalf("recorded selection = %q, want B", got)
	}
	if !state.Resolved(quiz.ExamRules()) {
		t.Fatal("single-attempt answer should lock the question")
	}
	if s.current != 1 {
		t.Errorf("current = %d, want advance to the unanswered question", s.current)
	}
}

func TestEnterOnAnsweredQuestionDoesNotAddAttempts(t *testing.T) {
	s := screenInProgress(t)

	s.handleKey(specialKey(tea.KeyEnter))
	s.current = 0
	s.rebuildChoice()
	s.handleKey(specialKey(tea.KeyEnter))

	if got := s.session.Answers.State("q1").Attempts; got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}
}

func TestAnswersIgnoredOutsideInProgress(t *testing.T) {
	s := screenInProgress(t)
	s.session.Finish()

	if s.session.Stage() != exam.StageResults {
		t.Fatalf("stage = %v", s.session.Stage())
	}

	// The session gate drops selections once the exam is over.
	s.session.SelectOption("q1", "A")
	if got := s.session.Answers.State("q1").Attempts; got != 0 {
		t.Fatalf("attempts = %d, want 0", got)
	}
}
