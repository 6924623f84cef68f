package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single HTTP exchange when Options.Timeout is zero.
const DefaultTimeout = 120 * time.Second

// ReviewRequest contains the data sent to an LLM for review.
type ReviewRequest struct {
	SystemPrompt string
	Document     string
	MaxTokens    int
	Temperature  float64
}

// ReviewResponse contains the raw reply from an LLM.
type ReviewResponse struct {
	Content    string
	TokensUsed int
}

// Reviewer is the review service abstraction.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)
	Name() string
	Model() string
}

// Options carries everything a provider needs. Credentials are passed in
// explicitly; providers never consult the environment.
type Options struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func (o Options) httpClient() *http.Client {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// New creates a provider by name.
func New(provider string, opts Options) (Reviewer, error) {
	info, ok := Lookup(provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	if opts.Model == "" {
		opts.Model = info.DefaultModel
	}
	switch info.Name {
	case "deepseek":
		return NewDeepSeek(opts)
	case "openai":
		return NewOpenAI(opts)
	case "anthropic":
		return NewAnthropic(opts)
	case "gemini":
		return NewGemini(opts)
	case "ollama":
		return NewOllama(opts)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// Info describes a supported provider.
type Info struct {
	Name         string
	Aliases      []string
	DefaultModel string
	// KeyEnv names the environment variable the CLI reads the API key from.
	// Empty means no key is required.
	KeyEnv string
	Models []string
}

var registry = []Info{
	{
		Name:         "deepseek",
		DefaultModel: "deepseek-chat",
		KeyEnv:       "DEEPSEEK_API_KEY",
		Models:       []string{"deepseek-chat", "deepseek-reasoner"},
	},
	{
		Name:         "openai",
		DefaultModel: "gpt-4.1-mini",
		KeyEnv:       "OPENAI_API_KEY",
		Models:       []string{"gpt-4.1", "gpt-4.1-mini", "o3-mini"},
	},
	{
		Name:         "anthropic",
		Aliases:      []string{"claude"},
		DefaultModel: "claude-sonnet-4-20250514",
		KeyEnv:       "ANTHROPIC_API_KEY",
		Models:       []string{"claude-sonnet-4-20250514", "claude-3-5-haiku-latest"},
	},
	{
		Name:         "gemini",
		Aliases:      []string{"google"},
		DefaultModel: "gemini-2.0-flash",
		KeyEnv:       "GEMINI_API_KEY",
		Models:       []string{"gemini-2.0-flash", "gemini-2.5-pro", "gemini-2.5-flash"},
	},
	{
		Name:         "ollama",
		Aliases:      []string{"lmstudio"},
		DefaultModel: "qwen2.5-coder",
		Models:       []string{"qwen2.5-coder", "codellama", "llama3.1", "deepseek-coder-v2"},
	},
}

// Lookup finds a provider by name or alias, case-insensitively.
func Lookup(name string) (Info, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, info := range registry {
		if info.Name == name {
			return info, true
		}
		for _, a := range info.Aliases {
			if a == name {
				return info, true
			}
		}
	}
	return Info{}, false
}

// Known returns all supported providers in display order.
func Known() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}
