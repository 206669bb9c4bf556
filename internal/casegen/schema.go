package casegen

import "github.com/rmorales/opotutor/internal/llm"

// questionProperties is the shared question shape for both schemas.
var questionProperties = map[string]any{
	"question": map[string]any{
		"type":        "string",
		"description": "El enunciado de la pregunta",
	},
	"options": map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type": "string",
					"enum": []any{"A", "B", "C", "D"},
				},
				"text": map[string]any{
					"type": "string",
				},
			},
			"required": []any{"id", "text"},
		},
		"description": "Exactamente 4 opciones con ids A, B, C y D",
	},
	"correctOptionId": map[string]any{
		"type": "string",
		"enum": []any{"A", "B", "C", "D"},
	},
	"explanation": map[string]any{
		"type":        "string",
		"description": "Explicación razonada con referencia a la normativa aplicable",
	},
}

// CaseSchema defines the JSON schema for practical-case generation.
var CaseSchema = &llm.Schema{
	Name:        "practical-case",
	Description: "Un supuesto práctico con preguntas tipo test",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Título breve del supuesto",
			},
			"scenario": map[string]any{
				"type":        "string",
				"description": "El enunciado completo del supuesto práctico",
			},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": questionProperties,
					"required":   []any{"question", "options", "correctOptionId", "explanation"},
				},
			},
		},
		"required": []any{"title", "scenario", "questions"},
	},
}

// ExamSchema defines the JSON schema for mock-exam generation.
var ExamSchema = &llm.Schema{
	Name:        "mock-exam",
	Description: "Una batería de preguntas tipo test de examen",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": questionProperties,
					"required":   []any{"question", "options", "correctOptionId", "explanation"},
				},
			},
		},
		"required": []any{"questions"},
	},
}
