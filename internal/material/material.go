// Package material generates study documents: plans, outlines, summaries
// and concept comparisons. Each operation persists its last result so the
// corresponding screen reopens where the user left off.
package material

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/rmorales/opotutor/internal/llm"
	"github.com/rmorales/opotutor/internal/store"
)

// Duration is the study-plan horizon.
type Duration string

const (
	DurationWeekly    Duration = "semanal"
	DurationMonthly   Duration = "mensual"
	DurationQuarterly Duration = "trimestral"
)

// PlanInput configures study-plan generation.
type PlanInput struct {
	// AvailabilityHours is the weekly study time in hours.
	AvailabilityHours int

	Duration Duration

	// IncludeTracking adds a progress-tracking checklist per block.
	IncludeTracking bool

	// IncludeSuggestions adds "Sugerencia IA" advice blocks per week.
	IncludeSuggestions bool
}

// PlanState is the persisted plan screen state.
type PlanState struct {
	Input PlanInput `json:"input"`
	Text  string    `json:"text"`
}

// TopicState persists a topic plus its generated document, shared by the
// outline and summary screens.
type TopicState struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

// CompareState persists the comparator inputs and result.
type CompareState struct {
	ConceptA string `json:"conceptA"`
	ConceptB string `json:"conceptB"`
	Text     string `json:"text"`
}

// Service generates study material documents.
type Service struct {
	provider llm.Provider
	state    store.StateRepo
}

// NewService creates a material service.
func NewService(provider llm.Provider, state store.StateRepo) *Service {
	return &Service{provider: provider, state: state}
}

const planSystemPrompt = `Eres un preparador de oposiciones a la Administración de la Seguridad Social española.

Elabora un plan de estudio en Markdown:
- Reparte los 9 temas del programa entre los bloques del periodo indicado, según las horas semanales disponibles.
- Alterna teoría, supuestos prácticos y repaso.
- Incluye descansos realistas.
- Usa encabezados, listas y tablas de Markdown.`

// StudyPlan generates a plan document and persists it.
func (s *Service) StudyPlan(ctx context.Context, input PlanInput) (string, error) {
	ctx = llm.WithPurpose(ctx, "study-plan")

	var b strings.Builder
	fmt.Fprintf(&b, "Horas de estudio semanales: %d\n", input.AvailabilityHours)
	fmt.Fprintf(&b, "Horizonte del plan: %s\n", input.Duration)
	if input.IncludeTracking {
		b.WriteString("Incluye una lista de seguimiento con casillas por cada bloque.\n")
	}
	if input.IncludeSuggestions {
		b.WriteString("Incluye un bloque \"Sugerencia IA\" por semana con un consejo de estudio personalizado.\n")
	}

	text, err := s.generate(ctx, planSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("study plan generation failed: %w", err)
	}

	s.state.Save(ctx, store.KeyStudyPlan, PlanState{Input: input, Text: text})
	return text, nil
}

const outlineSystemPrompt = `Eres un preparador de oposiciones a la Administración de la Seguridad Social española.

Elabora un esquema de estudio del tema indicado en Markdown:
- Estructura jerárquica con encabezados y listas anidadas.
- Incluye los artículos de la LGSS aplicables, plazos, porcentajes y cuantías clave.
- Conciso: es un esquema para repasar, no un manual.`

// Outline generates a study outline for a topic and persists it.
func (s *Service) Outline(ctx context.Context, topic string) (string, error) {
	ctx = llm.WithPurpose(ctx, "outline")

	text, err := s.generate(ctx, outlineSystemPrompt, fmt.Sprintf("Tema: %s", topic))
	if err != nil {
		return "", fmt.Errorf("outline generation failed: %w", err)
	}

	s.state.Save(ctx, store.KeyOutline, TopicState{Topic: topic, Text: text})
	return text, nil
}

const summarySystemPrompt = `Eres un preparador de oposiciones a la Administración de la Seguridad Social española.

Resume el material de estudio que te proporcionen, en Markdown:
- Conserva todos los datos normativos (artículos, plazos, porcentajes, cuantías).
- Ordena el resumen por conceptos, no por el orden del texto original.
- Señala en negrita los puntos que suelen caer en examen.`

// Summary condenses provided study material and persists the result.
func (s *Service) Summary(ctx context.Context, source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("no hay material que resumir")
	}

	ctx = llm.WithPurpose(ctx, "summary")

	text, err := s.generate(ctx, summarySystemPrompt, source)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	s.state.Save(ctx, store.KeySummary, TopicState{Topic: firstLine(source), Text: text})
	return text, nil
}

const compareSystemPrompt = `Eres un preparador de oposiciones a la Administración de la Seguridad Social española.

Compara los dos conceptos indicados en una tabla de Markdown:
- Filas: requisitos, plazos, cuantías, normativa aplicable y diferencias clave.
- Tras la tabla, añade una nota breve con el error típico del opositor al confundirlos.`

// Compare contrasts two concepts and persists the result.
func (s *Service) Compare(ctx context.Context, conceptA, conceptB string) (string, error) {
	if strings.TrimSpace(conceptA) == "" || strings.TrimSpace(conceptB) == "" {
		return "", fmt.Errorf("se necesitan dos conceptos para comparar")
	}

	ctx = llm.WithPurpose(ctx, "compare")

	text, err := s.generate(ctx, compareSystemPrompt,
		fmt.Sprintf("Concepto A: %s\nConcepto B: %s", conceptA, conceptB))
	if err != nil {
		return "", fmt.Errorf("comparison generation failed: %w", err)
	}

	s.state.Save(ctx, store.KeyComparator, CompareState{ConceptA: conceptA, ConceptB: conceptB, Text: text})
	return text, nil
}

func (s *Service) generate(ctx context.Context, system, user string) (string, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: user}},
		MaxTokens:   8192,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return string(resp.Content), nil
}

// ExportPDF writes a generated document as a simple titled PDF.
func ExportPDF(title, text string, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range strings.Split(text, "\n") {
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}

	return pdf.Output(w)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > 60 {
		return string(runes[:60])
	}
	return s
}
