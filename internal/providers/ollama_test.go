package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://localhost:11434/v1/chat/completions"},
		{"http://localhost:1234", "http://localhost:1234/v1/chat/completions"},
		{"http://localhost:1234/", "http://localhost:1234/v1/chat/completions"},
		{"http://host:1234/v1", "http://host:1234/v1/chat/completions"},
		{"http://host:1234/v1/chat/completions", "http://host:1234/v1/chat/completions"},
	}
	for _, tt := range tests {
		if got := ollamaEndpoint(tt.in); got != tt.want {
			t.Errorf("ollamaEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOllama_NoKeyRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []chatChoice{{Message: chatMessage{Content: "local review"}}},
		})
	}))
	defer server.Close()

	o, err := NewOllama(Options{Model: "qwen2.5-coder", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllama error: %v", err)
	}
	resp, err := o.Review(context.Background(), ReviewRequest{Document: "x"})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != "local review" {
		t.Errorf("Content = %q", resp.Content)
	}
	if o.Name() != "ollama" {
		t.Errorf("Name = %q", o.Name())
	}
}
