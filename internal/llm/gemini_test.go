package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"imagen", "imagen-4.0-generate-001"},
		{"gemini-2.5-flash", "gemini-2.5-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"enunciado":     map[string]any{"type": "string"},
			"puntuacion":    map[string]any{"type": "integer"},
			"correctOption": map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
			"opciones": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"enunciado", "correctOption"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["enunciado"].Type != "STRING" {
		t.Fatalf("expected STRING for enunciado, got %s", schema.Properties["enunciado"].Type)
	}
	if schema.Properties["puntuacion"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for puntuacion, got %s", schema.Properties["puntuacion"].Type)
	}
	if len(schema.Properties["correctOption"].Enum) != 4 {
		t.Fatalf("expected 4 enum values, got %d", len(schema.Properties["correctOption"].Enum))
	}
	if schema.Properties["opciones"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for opciones, got %s", schema.Properties["opciones"].Type)
	}
	if schema.Properties["opciones"].Items.Type != "STRING" {
		t.Fatalf("expected STRING for opciones items, got %s", schema.Properties["opciones"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}
