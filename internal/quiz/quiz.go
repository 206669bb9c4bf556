// Package quiz implements the multiple-choice answer state machine shared
// by the practical-case flow and the mock exam. The two flows differ only
// in configuration: cases allow a second attempt and log each outcome as
// it happens, exams are single-attempt with scoring deferred to the end.
package quiz

// Option is one selectable answer for a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is one multiple-choice question with its explanation.
type Question struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correctOptionId"`
	Explanation     string   `json:"explanation"`
	Topic           string   `json:"topic"`
}

// Rules configures the answer machine for a flow.
type Rules struct {
	// MaxAttempts is the number of selections accepted before the
	// question locks.
	MaxAttempts int

	// DeferScoring suppresses per-question outcome records and the
	// explanation reveal. Scoring happens at session end instead.
	DeferScoring bool
}

// CaseRules returns the practical-case configuration: two attempts,
// immediate reveal and logging.
func CaseRules() Rules {
	return Rules{MaxAttempts: 2}
}

// ExamRules returns the mock-exam configuration: one attempt, scoring
// deferred to session end.
func ExamRules() Rules {
	return Rules{MaxAttempts: 1, DeferScoring: true}
}

// AnswerState tracks one question's progression through selections.
type AnswerState struct {
	SelectedOptions []string `json:"selectedOptions"`
	Attempts        int      `json:"attempts"`
	ShowExplanation bool     `json:"showExplanation"`
}

// Record is one logged answer outcome, emitted when a question resolves.
type Record struct {
	QuestionID string
	Topic      string
	Correct    bool
}

// Result describes what a selection event did.
type Result struct {
	// Accepted is false when the event was ignored (question already
	// resolved or attempt cap reached).
	Accepted bool

	// Resolved is true when this selection was the question's last:
	// either it was correct or the attempt cap was reached.
	Resolved bool

	// Correct reports whether this selection matched the correct option.
	Correct bool

	// Record is the outcome to log, non-nil only when the question
	// resolved under immediate scoring.
	Record *Record
}

// Select applies one selection event to the state. The zero AnswerState
// is a valid unanswered question.
func (s *AnswerState) Select(q Question, rules Rules, optionID string) Result {
	if s.Resolved(rules) {
		return Result{}
	}

	s.SelectedOptions = append(s.SelectedOptions, optionID)
	s.Attempts++

	correct := optionID == q.CorrectOptionID
	resolved := correct || s.Attempts >= rules.MaxAttempts
	if !resolved {
		return Result{Accepted: true}
	}

	result := Result{Accepted: true, Resolved: true, Correct: correct}
	if !rules.DeferScoring {
		s.ShowExplanation = true
		result.Record = &Record{QuestionID: q.ID, Topic: q.Topic, Correct: correct}
	}
	return result
}

// Resolved reports whether the question accepts no further selections.
func (s *AnswerState) Resolved(rules Rules) bool {
	return s.ShowExplanation || s.Attempts >= rules.MaxAttempts
}

// LastSelection returns the most recent selection, or "" if none.
func (s *AnswerState) LastSelection() string {
	if len(s.SelectedOptions) == 0 {
		return ""
	}
	return s.SelectedOptions[len(s.SelectedOptions)-1]
}

// AnswerSet holds the answer state for every question in one session,
// keyed by question ID. Missing keys read as unanswered.
type AnswerSet map[string]*AnswerState

// State returns the state for id, creating it if absent.
func (a AnswerSet) State(id string) *AnswerState {
	if s, ok := a[id]; ok {
		return s
	}
	s := &AnswerState{}
	a[id] = s
	return s
}

// Score computes the deferred score for the exam flow over the given
// questions: 10 points scaled by the fraction answered correctly. The
// second return is the number of correct answers.
func (a AnswerSet) Score(questions []Question) (float64, int) {
	if len(questions) == 0 {
		return 0, 0
	}
	correct := 0
	for _, q := range questions {
		if s, ok := a[q.ID]; ok && s.LastSelection() == q.CorrectOptionID {
			correct++
		}
	}
	return 10 * float64(correct) / float64(len(questions)), correct
}
