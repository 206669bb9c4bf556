package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-pro":   "gemini-2.5-pro",
	"imagen":       "imagen-4.0-generate-001",
}

// reasoningThinkingBudget is the thinking-token budget for case and exam
// generation on the reasoning model.
const reasoningThinkingBudget int32 = 32768

// GeminiProvider implements Provider using the Google Gemini SDK. It is
// the only provider serving all capabilities, including grounded search
// and image generation.
type GeminiProvider struct {
	client         *genai.Client
	model          string
	reasoningModel string
	imageModel     string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:         client,
		model:          resolveModel(cfg.Model, geminiModels),
		reasoningModel: resolveModel(cfg.ReasoningModel, geminiModels),
		imageModel:     resolveModel(cfg.ImageModel, geminiModels),
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	config := p.buildConfig(req)
	model := p.pickModel(req)

	result, err := p.client.Models.GenerateContent(ctx, model, buildGeminiContents(req.Messages), config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	content := json.RawMessage(result.Text())

	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}

	resp := &Response{
		Content:    content,
		Model:      model,
		StopReason: mapGeminiStopReason(result),
	}
	fillGeminiUsage(resp, result)
	return resp, nil
}

func (p *GeminiProvider) GenerateStream(ctx context.Context, req Request, emit func(string)) (*Response, error) {
	if req.Schema != nil {
		return nil, fmt.Errorf("schema requests are not streamable")
	}

	config := p.buildConfig(req)
	model := p.pickModel(req)

	var text strings.Builder
	var last *genai.GenerateContentResponse

	for result, err := range p.client.Models.GenerateContentStream(ctx, model, buildGeminiContents(req.Messages), config) {
		if err != nil {
			return nil, mapGeminiError(err)
		}
		if chunk := result.Text(); chunk != "" {
			text.WriteString(chunk)
			emit(chunk)
		}
		last = result
	}

	resp := &Response{
		Content:    json.RawMessage(text.String()),
		Model:      model,
		StopReason: "end",
	}
	if last != nil {
		resp.StopReason = mapGeminiStopReason(last)
		fillGeminiUsage(resp, last)
	}
	return resp, nil
}

func (p *GeminiProvider) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	query := req.Query
	if req.Until != "" {
		query += fmt.Sprintf(" (Importante: toda la información y legislación citada debe estar vigente a fecha %s o anterior)", req.Until)
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: query}}},
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	return &SearchResult{
		Text:    result.Text(),
		Sources: extractSources(result),
	}, nil
}

func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "1:1",
	}

	result, err := p.client.Models.GenerateImages(ctx, p.imageModel, prompt, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	if len(result.GeneratedImages) == 0 || result.GeneratedImages[0].Image == nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no image in Imagen response")}
	}
	return result.GeneratedImages[0].Image.ImageBytes, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func (p *GeminiProvider) pickModel(req Request) string {
	if req.Reasoning {
		return p.reasoningModel
	}
	return p.model
}

func (p *GeminiProvider) buildConfig(req Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.Reasoning {
		budget := reasoningThinkingBudget
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}

	return config
}

func buildGeminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, len(msgs))
	for i, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		out[i] = &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		}
	}
	return out
}

// extractSources pulls the deduplicated web citations out of a grounded
// response's metadata.
func extractSources(result *genai.GenerateContentResponse) []Source {
	var sources []Source
	seen := make(map[string]bool)

	for _, cand := range result.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			web := chunk.Web
			if web == nil || web.URI == "" || web.Title == "" {
				continue
			}
			if seen[web.URI] {
				continue
			}
			seen[web.URI] = true
			sources = append(sources, Source{URI: web.URI, Title: web.Title})
		}
	}
	return sources
}

// buildGeminiSchema converts a JSON Schema definition map to a genai.Schema.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if t, ok := def["type"].(string); ok {
		schema.Type = mapGeminiType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for k, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[k] = buildGeminiSchema(propDef)
			}
		}
	}

	if req, ok := def["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if enums, ok := def["enum"].([]any); ok {
		for _, e := range enums {
			if s, ok := e.(string); ok {
				schema.Enum = append(schema.Enum, s)
			}
		}
	}

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}

	return schema
}

func mapGeminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func fillGeminiUsage(resp *Response, result *genai.GenerateContentResponse) {
	if result.UsageMetadata == nil {
		return
	}
	resp.Usage = Usage{
		InputTokens:  int(result.UsageMetadata.PromptTokenCount),
		OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
	}
}

func mapGeminiStopReason(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) > 0 {
		switch result.Candidates[0].FinishReason {
		case "STOP":
			return "end"
		case "MAX_TOKENS":
			return "max_tokens"
		}
	}
	return "end"
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// If not in the map, use as-is (allows direct model IDs).
	return name
}
