package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/dshills/critic/internal/providers"
)

// PromptFileName is the system prompt looked up in the config directory
// when no prompt file is configured.
const PromptFileName = "system_prompt.txt"

var (
	// ErrMissingAPIKey is returned by APIKey when the provider needs a key
	// and its environment variable is unset.
	ErrMissingAPIKey = errors.New("API key not set")
	// ErrPromptNotFound marks a configured system prompt file that does not exist.
	ErrPromptNotFound = errors.New("system prompt file not found")
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "markdown", "json", "yaml"}

// Config represents the critic configuration.
type Config struct {
	Provider         string        `json:"provider"`
	Model            string        `json:"model"`
	BaseURL          string        `json:"baseURL,omitempty"`
	APIKeyEnv        string        `json:"apiKeyEnv,omitempty"`
	SystemPromptFile string        `json:"systemPromptFile,omitempty"`
	Format           string        `json:"format"`
	TimeoutSeconds   int           `json:"timeoutSeconds"`
	MaxTokens        int           `json:"maxTokens"`
	Temperature      float64       `json:"temperature"`
	Workers          int           `json:"workers"`
	LogLevel         string        `json:"logLevel"`
	Cache            CacheConfig   `json:"cache"`
	Privacy          PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction of file contents before they are sent.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:       "deepseek",
		Model:          "deepseek-chat",
		Format:         "text",
		TimeoutSeconds: 60,
		MaxTokens:      4000,
		Temperature:    0.1,
		Workers:        4,
		LogLevel:       "info",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for critic.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "critic"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "critic"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "critic"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "critic"), nil
	default:
		return filepath.Join(home, ".config", "critic"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile returns the defaults overlaid with the config file. Keys absent
// from the file keep their default value. A missing file is not an error.
func LoadFile() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only flags the user set).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(&cfg, key, value); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var envKeys = map[string]string{
	"CRITIC_PROVIDER":  "provider",
	"CRITIC_MODEL":     "model",
	"CRITIC_BASE_URL":  "baseURL",
	"CRITIC_FORMAT":    "format",
	"CRITIC_TIMEOUT":   "timeoutSeconds",
	"CRITIC_LOG_LEVEL": "logLevel",
	"CRITIC_WORKERS":   "workers",
}

func mergeEnv(cfg *Config) error {
	for env, key := range envKeys {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, ok := providers.Lookup(c.Provider); !ok {
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if !validFormat(c.Format) {
		return fmt.Errorf("invalid format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeoutSeconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("maxTokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logLevel %q", c.LogLevel)
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "baseURL":
		cfg.BaseURL = value
	case "apiKeyEnv":
		cfg.APIKeyEnv = value
	case "systemPromptFile":
		cfg.SystemPromptFile = value
	case "format":
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = value
	case "timeoutSeconds", "maxTokens", "workers", "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		switch key {
		case "timeoutSeconds":
			cfg.TimeoutSeconds = n
		case "maxTokens":
			cfg.MaxTokens = n
		case "workers":
			cfg.Workers = n
		default:
			cfg.Cache.TTLSeconds = n
		}
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = f
	case "cache.enabled", "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		if key == "cache.enabled" {
			cfg.Cache.Enabled = b
		} else {
			cfg.Privacy.RedactSecrets = b
		}
	case "cache.dir":
		cfg.Cache.Dir = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// GetField returns the value of a single config field in the form SetField
// accepts.
func GetField(cfg Config, key string) (string, error) {
	switch key {
	case "provider":
		return cfg.Provider, nil
	case "model":
		return cfg.Model, nil
	case "baseURL":
		return cfg.BaseURL, nil
	case "apiKeyEnv":
		return cfg.APIKeyEnv, nil
	case "systemPromptFile":
		return cfg.SystemPromptFile, nil
	case "format":
		return cfg.Format, nil
	case "logLevel":
		return cfg.LogLevel, nil
	case "timeoutSeconds":
		return strconv.Itoa(cfg.TimeoutSeconds), nil
	case "maxTokens":
		return strconv.Itoa(cfg.MaxTokens), nil
	case "workers":
		return strconv.Itoa(cfg.Workers), nil
	case "cache.ttlSeconds":
		return strconv.Itoa(cfg.Cache.TTLSeconds), nil
	case "temperature":
		return strconv.FormatFloat(cfg.Temperature, 'g', -1, 64), nil
	case "cache.enabled":
		return strconv.FormatBool(cfg.Cache.Enabled), nil
	case "privacy.redactSecrets":
		return strconv.FormatBool(cfg.Privacy.RedactSecrets), nil
	case "cache.dir":
		return cfg.Cache.Dir, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// KeyEnv returns the environment variable holding the provider's API key,
// or "" when the provider does not need one.
func (c Config) KeyEnv() string {
	if c.APIKeyEnv != "" {
		return c.APIKeyEnv
	}
	info, _ := providers.Lookup(c.Provider)
	return info.KeyEnv
}

// APIKey reads the provider's API key from the environment. This is the
// only place credentials are read.
func APIKey(cfg Config) (string, error) {
	env := cfg.KeyEnv()
	if env == "" {
		return "", nil
	}
	key := strings.TrimSpace(os.Getenv(env))
	if key == "" {
		return "", fmt.Errorf("%w: %s environment variable is not set", ErrMissingAPIKey, env)
	}
	return key, nil
}

// SystemPrompt resolves the system prompt text and the file it came from.
// An empty text with a nil error means the built-in prompt applies. A
// configured file that does not exist yields an error wrapping
// ErrPromptNotFound; callers may warn and fall back.
func SystemPrompt(cfg Config) (text, path string, err error) {
	if cfg.SystemPromptFile != "" {
		return readPrompt(cfg.SystemPromptFile)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", "", nil
	}
	text, path, err = readPrompt(filepath.Join(dir, PromptFileName))
	if errors.Is(err, ErrPromptNotFound) {
		return "", "", nil
	}
	return text, path, err
}

func readPrompt(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("%w: %s", ErrPromptNotFound, path)
		}
		return "", "", fmt.Errorf("reading system prompt %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), path, nil
}
