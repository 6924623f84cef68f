package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultDeepSeekURL = "https://api.deepseek.com/v1/chat/completions"
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultMaxTokens   = 4000
)

// ChatCompletions implements the Reviewer interface for OpenAI-compatible
// chat completion endpoints (DeepSeek, OpenAI, Ollama, LM Studio).
type ChatCompletions struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewDeepSeek creates a provider for the DeepSeek API.
func NewDeepSeek(opts Options) (*ChatCompletions, error) {
	return newKeyedChat("deepseek", defaultDeepSeekURL, opts)
}

// NewOpenAI creates a provider for the OpenAI API.
func NewOpenAI(opts Options) (*ChatCompletions, error) {
	return newKeyedChat("openai", defaultOpenAIURL, opts)
}

func newKeyedChat(name, defaultURL string, opts Options) (*ChatCompletions, error) {
	if opts.APIKey == "" {
		return nil, &authError{provider: name, message: "no API key configured"}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultURL
	}
	return &ChatCompletions{
		name:    name,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		baseURL: baseURL,
		client:  opts.httpClient(),
	}, nil
}

func (c *ChatCompletions) Name() string  { return c.name }
func (c *ChatCompletions) Model() string { return c.model }

func (c *ChatCompletions) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.Document},
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Stream:      false,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return ReviewResponse{}, classifyStatus(c.name, httpResp.StatusCode, respBody)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ReviewResponse{}, fmt.Errorf("parsing response: %w", err)
	}
	if len(result.Choices) == 0 {
		return ReviewResponse{}, fmt.Errorf("unexpected API response format: no choices")
	}
	if result.Choices[0].Message.Content == "" {
		return ReviewResponse{}, fmt.Errorf("empty text content in API response")
	}

	return ReviewResponse{
		Content:    result.Choices[0].Message.Content,
		TokensUsed: result.Usage.TotalTokens,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	TotalTokens int `json:"total_tokens"`
}
