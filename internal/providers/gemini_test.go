package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGemini_Review(t *testing.T) {
	var got geminiRequest
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("Missing API key in x-goog-api-key header")
		}
		if r.URL.Query().Get("key") != "" {
			t.Error("API key must not be sent in the query string")
		}
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)

		resp := geminiResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: "Two "}, {Text: "issues."}}}},
			},
			UsageMetadata: geminiUsage{TotalTokenCount: 75},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	g, err := NewGemini(Options{APIKey: "test-key", Model: "gemini-2.0-flash", BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("NewGemini error: %v", err)
	}

	resp, err := g.Review(context.Background(), ReviewRequest{
		SystemPrompt: "system",
		Document:     "doc",
		MaxTokens:    10,
	})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != "Two issues." {
		t.Errorf("Content = %q, want %q", resp.Content, "Two issues.")
	}
	if resp.TokensUsed != 75 {
		t.Errorf("TokensUsed = %d, want 75", resp.TokensUsed)
	}
	if path != "/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", path)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "system" {
		t.Errorf("systemInstruction = %+v", got.SystemInstruction)
	}
	if len(got.Contents) != 1 || got.Contents[0].Role != "user" || got.Contents[0].Parts[0].Text != "doc" {
		t.Errorf("contents = %+v", got.Contents)
	}
	if got.GenerationConfig.MaxOutputTokens != 10 {
		t.Errorf("maxOutputTokens = %d", got.GenerationConfig.MaxOutputTokens)
	}
}

func TestGemini_ZeroTemperatureIsSent(t *testing.T) {
	var raw struct {
		GenerationConfig map[string]json.RawMessage `json:"generationConfig"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	g := &Gemini{apiKey: "k", model: "m", baseURL: server.URL, client: server.Client()}
	if _, err := g.Review(context.Background(), ReviewRequest{Document: "x"}); err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if string(raw.GenerationConfig["temperature"]) != "0" {
		t.Errorf("temperature = %s, want 0", raw.GenerationConfig["temperature"])
	}
}

func TestGemini_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
		w.Write([]byte(`{"error":{"status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	g := &Gemini{apiKey: "bad-key", model: "m", baseURL: server.URL, client: server.Client()}
	_, err := g.Review(context.Background(), ReviewRequest{Document: "test"})
	if !IsAuthError(err) {
		t.Errorf("Expected auth error, got: %v", err)
	}
}

func TestGemini_NoCandidates(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	g := &Gemini{apiKey: "k", model: "m", baseURL: server.URL, client: server.Client()}
	if _, err := g.Review(context.Background(), ReviewRequest{Document: "x"}); err == nil {
		t.Fatal("expected error for empty candidates")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNewGemini_RequiresKey(t *testing.T) {
	if _, err := NewGemini(Options{Model: "m"}); !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}
