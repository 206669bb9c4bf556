package casegen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rmorales/opotutor/internal/llm"
	"github.com/rmorales/opotutor/internal/quiz"
)

// Generator produces practical cases and mock exams via the model
// provider, using the reasoning tier for legal precision.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a new Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// rawOption and rawQuestion mirror the schema shape before mapping into
// quiz types.
type rawOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type rawQuestion struct {
	Question        string      `json:"question"`
	Options         []rawOption `json:"options"`
	CorrectOptionID string      `json:"correctOptionId"`
	Explanation     string      `json:"explanation"`
}

type rawCase struct {
	Title     string        `json:"title"`
	Scenario  string        `json:"scenario"`
	Questions []rawQuestion `json:"questions"`
}

type rawExam struct {
	Questions []rawQuestion `json:"questions"`
}

// GenerateCase produces a practical case for one topic. If source is
// non-empty the case is grounded on that study material.
func (g *Generator) GenerateCase(ctx context.Context, topic, source string) (*PracticalCase, error) {
	ctx = llm.WithPurpose(ctx, "case-gen")

	req := llm.Request{
		System: caseSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCaseMessage(topic, g.config.QuestionCount, source)},
		},
		Schema:      CaseSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		Reasoning:   true,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("case generation failed: %w", err)
	}

	var raw rawCase
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse case response: %w", err)
	}

	questions, err := mapQuestions(raw.Questions, topic, func(i int) string {
		return fmt.Sprintf("%s-q%d", topic, i+1)
	})
	if err != nil {
		return nil, err
	}

	return &PracticalCase{
		Title:     raw.Title,
		Scenario:  raw.Scenario,
		Topic:     topic,
		Questions: questions,
	}, nil
}

// GenerateExam produces a mock exam over the given topics. Question IDs
// carry a timestamp so repeated exams never collide in the progress log.
func (g *Generator) GenerateExam(ctx context.Context, topics []string, questionCount int) (*MockExam, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("at least one topic is required")
	}

	ctx = llm.WithPurpose(ctx, "exam-gen")

	req := llm.Request{
		System: examSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExamMessage(topics, questionCount)},
		},
		Schema:      ExamSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		Reasoning:   true,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("exam generation failed: %w", err)
	}

	var raw rawExam
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse exam response: %w", err)
	}

	stamp := time.Now().Unix()
	questions, err := mapQuestions(raw.Questions, "", func(i int) string {
		return fmt.Sprintf("q%d-%d", i+1, stamp)
	})
	if err != nil {
		return nil, err
	}

	return &MockExam{
		Title:     "Simulacro de Examen - Seguridad Social",
		Topics:    topics,
		Questions: questions,
	}, nil
}

// mapQuestions converts raw questions into quiz questions, checking the
// shape invariants the schema alone cannot express.
func mapQuestions(raws []rawQuestion, topic string, id func(i int) string) ([]quiz.Question, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("response contains no questions")
	}

	questions := make([]quiz.Question, len(raws))
	for i, r := range raws {
		if len(r.Options) != 4 {
			return nil, fmt.Errorf("question %d has %d options, want 4", i+1, len(r.Options))
		}

		opts := make([]quiz.Option, len(r.Options))
		correctFound := false
		for j, o := range r.Options {
			opts[j] = quiz.Option{ID: o.ID, Text: o.Text}
			if o.ID == r.CorrectOptionID {
				correctFound = true
			}
		}
		if !correctFound {
			return nil, fmt.Errorf("question %d: correct option %q not among options", i+1, r.CorrectOptionID)
		}

		questions[i] = quiz.Question{
			ID:              id(i),
			Text:            r.Question,
			Options:         opts,
			CorrectOptionID: r.CorrectOptionID,
			Explanation:     r.Explanation,
			Topic:           topic,
		}
	}
	return questions, nil
}
