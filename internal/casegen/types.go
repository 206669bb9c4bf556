package casegen

import "github.com/rmorales/opotutor/internal/quiz"

// PracticalCase is a generated scenario with its question set, used for
// daily two-attempt practice on a single topic.
type PracticalCase struct {
	Title     string          `json:"title"`
	Scenario  string          `json:"scenario"`
	Topic     string          `json:"topic"`
	Questions []quiz.Question `json:"questions"`
}

// MockExam is a generated timed exam over one or more topics. Scoring is
// deferred to session end.
type MockExam struct {
	Title     string          `json:"title"`
	Topics    []string        `json:"topics"`
	Questions []quiz.Question `json:"questions"`
}
