package providers

import "strings"

const defaultOllamaURL = "http://localhost:11434"

// NewOllama creates a provider for Ollama or LM Studio. The API key is
// optional; BaseURL may be a host, a /v1 root, or the full endpoint.
func NewOllama(opts Options) (*ChatCompletions, error) {
	return &ChatCompletions{
		name:    "ollama",
		apiKey:  opts.APIKey,
		model:   opts.Model,
		baseURL: ollamaEndpoint(opts.BaseURL),
		client:  opts.httpClient(),
	}, nil
}

func ollamaEndpoint(baseURL string) string {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1/chat/completions")
	baseURL = strings.TrimSuffix(baseURL, "/v1")
	return baseURL + "/v1/chat/completions"
}
