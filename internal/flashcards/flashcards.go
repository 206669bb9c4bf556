// Package flashcards generates study card sets and meme images for
// memorization.
package flashcards

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rmorales/opotutor/internal/llm"
)

// Card is one front/back study card.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Set is a generated card deck for one topic.
type Set struct {
	Topic string `json:"topic"`
	Cards []Card `json:"cards"`
}

// Schema defines the JSON schema for flashcard generation.
var Schema = &llm.Schema{
	Name:        "flashcard-set",
	Description: "Un juego de tarjetas de estudio",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "La pregunta o el concepto",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "La respuesta, con el dato normativo exacto",
						},
					},
					"required": []any{"front", "back"},
				},
			},
		},
		"required": []any{"cards"},
	},
}

const systemPrompt = `Eres un preparador de oposiciones a la Administración de la Seguridad Social española.

Genera tarjetas de estudio del tema indicado:
- El anverso es una pregunta corta o un concepto.
- El reverso es la respuesta exacta: plazo, porcentaje, cuantía o artículo aplicable.
- Prioriza los datos que caen en examen.
- Usa terminología oficial en español.`

// Service generates flashcard sets and meme images.
type Service struct {
	provider llm.Provider
}

// NewService creates a flashcard service.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Generate produces a card set for the topic.
func (s *Service) Generate(ctx context.Context, topic string, count int) (*Set, error) {
	ctx = llm.WithPurpose(ctx, "flashcards")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Tema: %s\nNúmero de tarjetas: %d", topic, count)},
		},
		Schema:      Schema,
		MaxTokens:   4096,
		Temperature: 0.7,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("flashcard generation failed: %w", err)
	}

	var raw Set
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse flashcard response: %w", err)
	}
	if len(raw.Cards) == 0 {
		return nil, fmt.Errorf("response contains no cards")
	}

	raw.Topic = topic
	return &raw, nil
}

// Meme generates a mnemonic meme image for the topic. Only providers
// with image generation support this; others return ErrUnsupported.
func (s *Service) Meme(ctx context.Context, topic string) ([]byte, error) {
	ctx = llm.WithPurpose(ctx, "meme")

	prompt := fmt.Sprintf(
		"Un meme divertido y memorable, estilo cartoon, para ayudar a un opositor español a recordar el concepto de Seguridad Social: %s. Con un texto corto en español.",
		topic,
	)
	return s.provider.GenerateImage(ctx, prompt)
}
