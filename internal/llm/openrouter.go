package llm

import "fmt"

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible API.
// Model IDs are vendor-prefixed ("google/gemini-2.0-flash-exp") and passed
// through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting OpenRouter. An empty
// baseURL uses the public endpoint and an empty model the default.
func NewOpenRouterProvider(apiKey, model, baseURL string) (*OpenRouterProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	if model == "" {
		model = defaultOpenRouterModel
	}
	return &OpenRouterProvider{OpenAIProvider: newOpenAIProviderRaw(apiKey, model, baseURL)}, nil
}

// BaseURL returns the endpoint the underlying client targets.
func (p *OpenRouterProvider) BaseURL() string {
	return p.baseURL
}
