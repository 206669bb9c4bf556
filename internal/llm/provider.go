package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for generative-AI interaction.
// Every capability the app uses (text, structured JSON, streaming chat,
// grounded search, image generation) goes through this interface so the
// retry and event-logging decorators cover all of them uniformly.
//
// Not every backend supports every capability: providers return
// *ErrUnsupported for operations they cannot serve (e.g. grounded search
// outside Gemini), and callers surface that as a recoverable error.
type Provider interface {
	// Generate sends a prompt and returns the full response. When the
	// request carries a Schema, the provider uses its native structured
	// output mechanism and the response Content is the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// GenerateStream behaves like Generate but delivers the response text
	// incrementally. Each fragment is passed to emit in arrival order;
	// the returned Response carries the accumulated text. Schema requests
	// are not streamable.
	GenerateStream(ctx context.Context, req Request, emit func(fragment string)) (*Response, error)

	// Search answers a query with live web-search grounding and returns
	// the answer text plus its cited sources.
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)

	// GenerateImage renders an image from a text prompt and returns the
	// raw encoded bytes (JPEG).
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Messages is the conversation history. For single-turn generation
	// this contains one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// Reasoning selects the heavier reasoning model where the provider
	// distinguishes one (practical cases and mock exams need it; chat,
	// search and summaries do not). Providers with a single model
	// ignore this.
	Reasoning bool
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (used as the schema name for OpenAI,
	// resource name for validation). Kebab-case, e.g. "practical-case".
	Name string

	// Description is a human-readable description of what this schema
	// represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. Otherwise it is the raw
	// response text.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// SearchRequest describes a grounded search query.
type SearchRequest struct {
	// Query is the user's question.
	Query string

	// Until optionally pins the answer to legislation effective on or
	// before this date (RFC 3339 date, e.g. "2025-06-30"). Empty means
	// no constraint.
	Until string
}

// Source is one web citation backing a grounded answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// SearchResult is the outcome of a grounded search.
type SearchResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}
