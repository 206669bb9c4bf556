package llm

// OpenRouter exposes an OpenAI-compatible API, so the provider is a
// thin wrapper over the OpenAI client pointed at a different base URL.

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterModels maps friendly names to OpenRouter model IDs.
var openRouterModels = map[string]string{
	"gemini-flash":  "google/gemini-2.5-flash",
	"gemini-pro":    "google/gemini-2.5-pro",
	"claude-sonnet": "anthropic/claude-sonnet-4",
	"gpt-4o":        "openai/gpt-4o",
}

// NewOpenRouterProvider creates a provider backed by OpenRouter.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	return newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   resolveModel(cfg.Model, openRouterModels),
		BaseURL: baseURL,
	}, "openrouter")
}
