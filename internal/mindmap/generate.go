package mindmap

import (
	"context"
	"fmt"

	"github.com/rmorales/opotutor/internal/llm"
)

const systemPrompt = `Eres un preparador de oposiciones a la Seguridad Social española.

Genera un mapa mental jerárquico del tema indicado:
- El nodo raíz es el tema.
- Los nodos de primer nivel son los bloques principales del tema.
- Desciende hasta 3 o 4 niveles, con conceptos concretos (plazos, porcentajes, requisitos) en las hojas.
- Cada nodo tiene un id único, un texto breve y una lista de hijos (puede estar vacía).
- Usa terminología oficial en español.`

// nodeSchema is declared to three levels; deeper nesting is accepted on
// parse but not demanded of the model.
func nodeProperties(depth int) map[string]any {
	props := map[string]any{
		"id":   map[string]any{"type": "string"},
		"text": map[string]any{"type": "string"},
	}
	if depth > 0 {
		props["children"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":       "object",
				"properties": nodeProperties(depth - 1),
				"required":   []any{"id", "text"},
			},
		}
	}
	return props
}

// Schema defines the JSON schema for mind-map generation.
var Schema = &llm.Schema{
	Name:        "mind-map",
	Description: "Un mapa mental jerárquico de un tema de oposición",
	Definition: map[string]any{
		"type":       "object",
		"properties": nodeProperties(3),
		"required":   []any{"id", "text", "children"},
	},
}

// Generate produces a whole new tree for the topic, replacing any
// previous tree the caller holds.
func Generate(ctx context.Context, provider llm.Provider, topic string) (*Node, error) {
	ctx = llm.WithPurpose(ctx, "mindmap-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Tema: %s", topic)},
		},
		Schema:      Schema,
		MaxTokens:   8192,
		Temperature: 0.7,
	}

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mind map generation failed: %w", err)
	}

	return Parse(resp.Content)
}
