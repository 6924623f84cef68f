package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the config dir at a temp dir and clears CRITIC_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for env := range envKeys {
		t.Setenv(env, "")
	}
	return dir
}

func writeConfig(t *testing.T, xdg, body string) {
	t.Helper()
	path := filepath.Join(xdg, "critic", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "deepseek" {
		t.Errorf("Default provider = %q, want %q", cfg.Provider, "deepseek")
	}
	if cfg.Model != "deepseek-chat" {
		t.Errorf("Default model = %q, want %q", cfg.Model, "deepseek-chat")
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("Default temperature = %g, want 0.1", cfg.Temperature)
	}
	if cfg.MaxTokens != 4000 {
		t.Errorf("Default maxTokens = %d, want 4000", cfg.MaxTokens)
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("Default timeoutSeconds = %d, want 60", cfg.TimeoutSeconds)
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("Default redactSecrets should be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestMergeEnv(t *testing.T) {
	isolate(t)
	t.Setenv("CRITIC_PROVIDER", "openai")
	t.Setenv("CRITIC_MODEL", "gpt-4.1")
	t.Setenv("CRITIC_FORMAT", "json")
	t.Setenv("CRITIC_TIMEOUT", "90")
	t.Setenv("CRITIC_WORKERS", "8")
	t.Setenv("CRITIC_LOG_LEVEL", "debug")
	t.Setenv("CRITIC_BASE_URL", "http://proxy")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4.1" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4.1")
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.TimeoutSeconds != 90 {
		t.Errorf("TimeoutSeconds = %d, want 90", cfg.TimeoutSeconds)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.BaseURL != "http://proxy" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestMergeEnv_InvalidTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("CRITIC_TIMEOUT", "soon")

	cfg := Default()
	err := mergeEnv(&cfg)
	if err == nil {
		t.Fatal("Expected error for invalid CRITIC_TIMEOUT")
	}
	if !strings.Contains(err.Error(), "CRITIC_TIMEOUT") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestSetField(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(Config) bool
	}{
		{"provider", "anthropic", func(c Config) bool { return c.Provider == "anthropic" }},
		{"model", "m", func(c Config) bool { return c.Model == "m" }},
		{"baseURL", "http://x", func(c Config) bool { return c.BaseURL == "http://x" }},
		{"apiKeyEnv", "MY_KEY", func(c Config) bool { return c.APIKeyEnv == "MY_KEY" }},
		{"systemPromptFile", "/p.txt", func(c Config) bool { return c.SystemPromptFile == "/p.txt" }},
		{"format", "yaml", func(c Config) bool { return c.Format == "yaml" }},
		{"timeoutSeconds", "5", func(c Config) bool { return c.TimeoutSeconds == 5 }},
		{"maxTokens", "100", func(c Config) bool { return c.MaxTokens == 100 }},
		{"workers", "2", func(c Config) bool { return c.Workers == 2 }},
		{"temperature", "0.7", func(c Config) bool { return c.Temperature == 0.7 }},
		{"cache.enabled", "false", func(c Config) bool { return !c.Cache.Enabled }},
		{"cache.dir", "/tmp/c", func(c Config) bool { return c.Cache.Dir == "/tmp/c" }},
		{"cache.ttlSeconds", "60", func(c Config) bool { return c.Cache.TTLSeconds == 60 }},
		{"privacy.redactSecrets", "true", func(c Config) bool { return c.Privacy.RedactSecrets }},
		{"logLevel", "warn", func(c Config) bool { return c.LogLevel == "warn" }},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := Default()
			if err := SetField(&cfg, tt.key, tt.value); err != nil {
				t.Fatalf("SetField(%s) error: %v", tt.key, err)
			}
			if !tt.check(cfg) {
				t.Errorf("SetField(%s, %s) not applied: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestGetField_RoundTrip(t *testing.T) {
	keys := []string{
		"provider", "model", "baseURL", "apiKeyEnv", "systemPromptFile", "format",
		"logLevel", "timeoutSeconds", "maxTokens", "workers", "cache.ttlSeconds",
		"temperature", "cache.enabled", "privacy.redactSecrets", "cache.dir",
	}
	src := Default()
	src.BaseURL = "http://localhost:8080"
	src.Cache.Dir = "/tmp/c"
	src.Privacy.RedactSecrets = true
	for _, key := range keys {
		v, err := GetField(src, key)
		if err != nil {
			t.Fatalf("GetField(%s) error: %v", key, err)
		}
		var dst Config
		if err := SetField(&dst, key, v); err != nil {
			t.Fatalf("SetField(%s, %q) error: %v", key, v, err)
		}
		if got, _ := GetField(dst, key); got != v {
			t.Errorf("%s: round trip gave %q, want %q", key, got, v)
		}
	}
	if _, err := GetField(src, "nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetField_Errors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"nope", "x"},
		{"workers", "many"},
		{"temperature", "warm"},
		{"cache.enabled", "maybe"},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := SetField(&cfg, tt.key, tt.value); err == nil {
			t.Errorf("SetField(%s, %s) expected error", tt.key, tt.value)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "mistral" }},
		{"bad format", func(c *Config) { c.Format = "sarif" }},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"hot temperature", func(c *Config) { c.Temperature = 3 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", "critic") {
		t.Errorf("ConfigDir = %q", dir)
	}
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != filepath.Join("/tmp/xdg-test", "critic", "config.json") {
		t.Errorf("ConfigPath = %q", path)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Provider = "openai"
	cfg.Model = "gpt-4.1"
	cfg.Workers = 2
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded != cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadFile_NoFile(t *testing.T) {
	isolate(t)
	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `{"model":"deepseek-reasoner","cache":{"ttlSeconds":10}}`)

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Model != "deepseek-reasoner" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Provider != "deepseek" {
		t.Errorf("Provider = %q, want default", cfg.Provider)
	}
	if cfg.Cache.TTLSeconds != 10 {
		t.Errorf("TTLSeconds = %d", cfg.Cache.TTLSeconds)
	}
	// A nested object replaces only the keys it names.
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should keep its default")
	}
}

func TestLoadFile_ExplicitFalse(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `{"cache":{"enabled":false}}`)

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false when file explicitly sets it")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `{"provider":`)
	if _, err := LoadFile(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_Precedence(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `{"provider":"openai","model":"gpt-4.1","format":"markdown"}`)
	t.Setenv("CRITIC_MODEL", "gpt-4.1-mini")

	cfg, err := Load(map[string]string{"format": "json", "workers": ""})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want file value", cfg.Provider)
	}
	if cfg.Model != "gpt-4.1-mini" {
		t.Errorf("Model = %q, want env value", cfg.Model)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want override", cfg.Format)
	}
	if cfg.Workers != 4 {
		t.Errorf("empty override should be ignored, Workers = %d", cfg.Workers)
	}
}

func TestLoad_InvalidOverride(t *testing.T) {
	isolate(t)
	if _, err := Load(map[string]string{"format": "html"}); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := Load(map[string]string{"timeoutSeconds": "x"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAPIKey(t *testing.T) {
	isolate(t)
	t.Setenv("DEEPSEEK_API_KEY", "  sk-123\n")

	key, err := APIKey(Default())
	if err != nil {
		t.Fatalf("APIKey error: %v", err)
	}
	if key != "sk-123" {
		t.Errorf("key = %q", key)
	}

	t.Setenv("DEEPSEEK_API_KEY", "")
	_, err = APIKey(Default())
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
	if err != nil && !strings.Contains(err.Error(), "DEEPSEEK_API_KEY") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestAPIKey_CustomEnvAndKeyless(t *testing.T) {
	isolate(t)
	t.Setenv("TEAM_KEY", "abc")
	cfg := Default()
	cfg.APIKeyEnv = "TEAM_KEY"
	if key, err := APIKey(cfg); err != nil || key != "abc" {
		t.Errorf("APIKey = %q, %v", key, err)
	}

	cfg = Default()
	cfg.Provider = "ollama"
	if key, err := APIKey(cfg); err != nil || key != "" {
		t.Errorf("keyless provider: APIKey = %q, %v", key, err)
	}
}

func TestSystemPrompt(t *testing.T) {
	xdg := isolate(t)

	text, path, err := SystemPrompt(Default())
	if err != nil || text != "" || path != "" {
		t.Fatalf("no prompt file: got %q, %q, %v", text, path, err)
	}

	dirPrompt := filepath.Join(xdg, "critic", PromptFileName)
	os.MkdirAll(filepath.Dir(dirPrompt), 0o755)
	os.WriteFile(dirPrompt, []byte("\n  Review carefully.  \n"), 0o644)

	text, path, err = SystemPrompt(Default())
	if err != nil {
		t.Fatalf("SystemPrompt error: %v", err)
	}
	if text != "Review carefully." || path != dirPrompt {
		t.Errorf("got %q from %q", text, path)
	}

	custom := filepath.Join(t.TempDir(), "p.txt")
	os.WriteFile(custom, []byte("Be strict."), 0o644)
	cfg := Default()
	cfg.SystemPromptFile = custom
	text, _, err = SystemPrompt(cfg)
	if err != nil || text != "Be strict." {
		t.Errorf("configured prompt = %q, %v", text, err)
	}
}

func TestSystemPrompt_ConfiguredMissing(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.SystemPromptFile = filepath.Join(t.TempDir(), "absent.txt")

	_, _, err := SystemPrompt(cfg)
	if !errors.Is(err, ErrPromptNotFound) {
		t.Errorf("err = %v, want ErrPromptNotFound", err)
	}
}

func TestSystemPrompt_Unreadable(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.SystemPromptFile = t.TempDir() // a directory cannot be read as a file

	_, _, err := SystemPrompt(cfg)
	if err == nil {
		t.Fatal("expected read error")
	}
	if errors.Is(err, ErrPromptNotFound) {
		t.Error("unreadable prompt must not be reported as missing")
	}
}
