// Package exam implements the timed mock-exam session controller.
package exam

import (
	"fmt"
	"strings"

	"github.com/rmorales/opotutor/internal/casegen"
	"github.com/rmorales/opotutor/internal/quiz"
)

// Stage is the session's position in its lifecycle. Strictly forward
// moving, except that generation failure falls back to configuring.
type Stage int

const (
	StageConfiguring Stage = iota
	StageGenerating
	StageInProgress
	StageResults
)

func (s Stage) String() string {
	switch s {
	case StageConfiguring:
		return "configuring"
	case StageGenerating:
		return "generating"
	case StageInProgress:
		return "inProgress"
	case StageResults:
		return "results"
	default:
		return "unknown"
	}
}

// secondsPerQuestion sets the exam clock: 90 seconds per question.
const secondsPerQuestion = 90

// DefaultQuestionCount is the preselected exam length.
const DefaultQuestionCount = 10

// Session drives one mock exam from configuration through scored review.
// It is a pure state machine: the caller supplies ticks and the generated
// exam, and collects the outcome records at finish.
type Session struct {
	stage Stage

	SelectedTopics []string
	QuestionCount  int

	Exam          *casegen.MockExam
	Answers       quiz.AnswerSet
	TimeRemaining int

	Score   float64
	Correct int

	// Err holds the surfaced generation failure after a fallback to
	// configuring.
	Err error

	finished bool
}

// NewSession returns a session in the configuring stage.
func NewSession() *Session {
	return &Session{
		stage:         StageConfiguring,
		QuestionCount: DefaultQuestionCount,
	}
}

// Stage returns the current stage.
func (s *Session) Stage() Stage {
	return s.stage
}

// ToggleTopic adds or removes a topic from the selection. Only valid
// while configuring.
func (s *Session) ToggleTopic(topic string) {
	if s.stage != StageConfiguring {
		return
	}
	for i, t := range s.SelectedTopics {
		if t == topic {
			s.SelectedTopics = append(s.SelectedTopics[:i], s.SelectedTopics[i+1:]...)
			return
		}
	}
	s.SelectedTopics = append(s.SelectedTopics, topic)
}

// Start moves to generating. It requires at least one selected topic.
func (s *Session) Start() error {
	if s.stage != StageConfiguring {
		return fmt.Errorf("cannot start from stage %s", s.stage)
	}
	if len(s.SelectedTopics) == 0 {
		return fmt.Errorf("selecciona al menos un tema")
	}
	s.Err = nil
	s.stage = StageGenerating
	return nil
}

// Begin installs the generated exam and starts the clock.
func (s *Session) Begin(exam *casegen.MockExam) {
	if s.stage != StageGenerating {
		return
	}
	s.Exam = exam
	s.Answers = quiz.AnswerSet{}
	s.TimeRemaining = len(exam.Questions) * secondsPerQuestion
	s.finished = false
	s.stage = StageInProgress
}

// FailGeneration surfaces a generation error and falls back to
// configuring.
func (s *Session) FailGeneration(err error) {
	if s.stage != StageGenerating {
		return
	}
	s.Err = err
	s.stage = StageConfiguring
}

// SelectOption records a single-attempt answer for a question.
func (s *Session) SelectOption(questionID, optionID string) {
	if s.stage != StageInProgress {
		return
	}
	for _, q := range s.Exam.Questions {
		if q.ID == questionID {
			s.Answers.State(questionID).Select(q, quiz.ExamRules(), optionID)
			return
		}
	}
}

// Tick advances the clock by one second. Reaching zero finishes the
// session exactly once; the returned records are non-nil only on the
// tick that fired the transition.
func (s *Session) Tick() []quiz.Record {
	if s.stage != StageInProgress {
		return nil
	}
	if s.TimeRemaining > 0 {
		s.TimeRemaining--
	}
	if s.TimeRemaining == 0 {
		return s.Finish()
	}
	return nil
}

// Finish scores the exam and moves to results. Guarded against double
// firing: a second call returns nil without re-scoring. One record is
// emitted per question, labeled with the joined topic selection.
func (s *Session) Finish() []quiz.Record {
	if s.stage != StageInProgress || s.finished {
		return nil
	}
	s.finished = true
	s.stage = StageResults

	s.Score, s.Correct = s.Answers.Score(s.Exam.Questions)

	topic := strings.Join(s.SelectedTopics, ", ")
	records := make([]quiz.Record, len(s.Exam.Questions))
	for i, q := range s.Exam.Questions {
		correct := false
		if a, ok := s.Answers[q.ID]; ok {
			correct = a.LastSelection() == q.CorrectOptionID
		}
		records[i] = quiz.Record{QuestionID: q.ID, Topic: topic, Correct: correct}
	}
	return records
}

// Reset returns to configuring for a new session, keeping the topic
// selection as a convenience.
func (s *Session) Reset() {
	if s.stage != StageResults {
		return
	}
	s.Exam = nil
	s.Answers = nil
	s.TimeRemaining = 0
	s.Score = 0
	s.Correct = 0
	s.Err = nil
	s.finished = false
	s.stage = StageConfiguring
}
