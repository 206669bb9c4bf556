package quiz

import (
	"reflect"
	"testing"
)

func testQuestion() Question {
	return Question{
		ID:   "q1",
		Text: "¿Cuál es el plazo para solicitar el alta?",
		Options: []Option{
			{ID: "A", Text: "30 días"},
			{ID: "B", Text: "60 días"},
			{ID: "C", Text: "90 días"},
			{ID: "D", Text: "No hay plazo"},
		},
		CorrectOptionID: "B",
		Explanation:     "El plazo es de 60 días naturales.",
		Topic:           "Afiliación y Altas/Bajas",
	}
}

func TestSelect_CorrectFirstTry(t *testing.T) {
	q := testQuestion()
	s := &AnswerState{}

	res := s.Select(q, CaseRules(), "B")

	if !res.Accepted || !res.Resolved || !res.Correct {
		t.Fatalf("result = %+v", res)
	}
	if !s.ShowExplanation {
		t.Fatal("expected explanation revealed after correct first try")
	}
	if s.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", s.Attempts)
	}
	if res.Record == nil {
		t.Fatal("expected a record")
	}
	if !res.Record.Correct || res.Record.QuestionID != "q1" || res.Record.Topic != q.Topic {
		t.Fatalf("record = %+v", res.Record)
	}
}

func TestSelect_WrongThenCorrect(t *testing.T) {
	q := testQuestion()
	s := &AnswerState{}
	rules := CaseRules()

	res := s.Select(q, rules, "A")
	if !res.Accepted || res.Resolved {
		t.Fatalf("first result = %+v", res)
	}
	if res.Record != nil {
		t.Fatal("no record expected while retrying")
	}
	if s.ShowExplanation {
		t.Fatal("explanation must stay hidden after first wrong attempt")
	}

	res = s.Select(q, rules, "B")
	if !res.Resolved || !res.Correct {
		t.Fatalf("second result = %+v", res)
	}
	if res.Record == nil || !res.Record.Correct {
		t.Fatalf("record = %+v", res.Record)
	}
	if !s.ShowExplanation || s.Attempts != 2 {
		t.Fatalf("state = %+v", s)
	}
}

func TestSelect_TwoWrongAttemptsReveal(t *testing.T) {
	q := testQuestion()
	s := &AnswerState{}
	rules := CaseRules()

	s.Select(q, rules, "A")
	res := s.Select(q, rules, "C")

	if !res.Resolved || res.Correct {
		t.Fatalf("result = %+v", res)
	}
	if res.Record == nil || res.Record.Correct {
		t.Fatalf("record = %+v", res.Record)
	}
	if !s.ShowExplanation {
		t.Fatal("expected reveal after two attempts")
	}
}

func TestSelect_ThirdSelectionIgnored(t *testing.T) {
	q := testQuestion()
	s := &AnswerState{}
	rules := CaseRules()

	s.Select(q, rules, "A")
	s.Select(q, rules, "C")

	before := append([]string(nil), s.SelectedOptions...)
	res := s.Select(q, rules, "B")

	if res.Accepted {
		t.Fatal("third selection must be a no-op")
	}
	if s.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", s.Attempts)
	}
	if !reflect.DeepEqual(s.SelectedOptions, before) {
		t.Fatalf("selections changed: %v -> %v", before, s.SelectedOptions)
	}
}

func TestSelect_IgnoredAfterReveal(t *testing.T) {
	q := testQuestion()
	s := &AnswerState{}
	rules := CaseRules()

	s.Select(q, rules, "B")
	res := s.Select(q, rules, "A")

	if res.Accepted {
		t.Fatal("selection after reveal must be a no-op")
	}
	if s.Attempts != 1 || len(s.SelectedOptions) != 1 {
		t.Fatalf("state = %+v", s)
	}
}

func TestSelect_ExamSingleAttempt(t *testing.T) {
	q := testQuestion()
	s := &AnswerState{}
	rules := ExamRules()

	res := s.Select(q, rules, "A")
	if !res.Accepted || !res.Resolved {
		t.Fatalf("result = %+v", res)
	}
	if res.Record != nil {
		t.Fatal("deferred scoring must not emit records")
	}
	if s.ShowExplanation {
		t.Fatal("deferred scoring must not reveal the explanation")
	}

	res = s.Select(q, rules, "B")
	if res.Accepted {
		t.Fatal("second selection must be a no-op in the exam flow")
	}
	if s.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", s.Attempts)
	}
}

func TestAnswerSet_Score(t *testing.T) {
	questions := []Question{
		{ID: "q1", CorrectOptionID: "A"},
		{ID: "q2", CorrectOptionID: "B"},
		{ID: "q3", CorrectOptionID: "C"},
		{ID: "q4", CorrectOptionID: "D"},
	}

	answers := AnswerSet{}
	rules := ExamRules()
	answers.State("q1").Select(questions[0], rules, "A") // correct
	answers.State("q2").Select(questions[1], rules, "A") // wrong
	answers.State("q3").Select(questions[2], rules, "C") // correct
	// q4 unanswered.

	score, correct := answers.Score(questions)
	if correct != 2 {
		t.Fatalf("correct = %d, want 2", correct)
	}
	if score != 5 {
		t.Fatalf("score = %v, want 5", score)
	}
}

func TestAnswerSet_ScoreEmpty(t *testing.T) {
	answers := AnswerSet{}
	score, correct := answers.Score(nil)
	if score != 0 || correct != 0 {
		t.Fatalf("score = %v, correct = %d", score, correct)
	}
}

func TestAnswerSet_StateCreatesOnce(t *testing.T) {
	answers := AnswerSet{}
	a := answers.State("q1")
	b := answers.State("q1")
	if a != b {
		t.Fatal("expected the same state for the same id")
	}
}

func TestSelect_RepeatedWrongOptionConsumesAttempt(t *testing.T) {
	q := testQuestion()
	s := &AnswerState{}

	first := s.Select(q, CaseRules(), "A")
	if !first.Accepted || first.Resolved {
		t.Fatalf("first selection = %+v", first)
	}

	// Picking the same wrong option again spends the second attempt and
	// resolves the question.
	second := s.Select(q, CaseRules(), "A")
	if !second.Accepted || !second.Resolved || second.Correct {
		t.Fatalf("second selection = %+v", second)
	}
	if s.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", s.Attempts)
	}
	if got := s.SelectedOptions; !reflect.DeepEqual(got, []string{"A", "A"}) {
		t.Fatalf("selections = %v", got)
	}
	if second.Record == nil || second.Record.Correct {
		t.Fatalf("record = %+v", second.Record)
	}
}
