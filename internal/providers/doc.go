// Package providers implements the Reviewer interface for each supported
// review service.
//
// DeepSeek (the default), OpenAI and local Ollama / LM Studio servers share
// one OpenAI-compatible chat completions client. Anthropic uses the Messages
// API and Gemini the generateContent API. Every provider is built from an
// explicit [Options] value: API keys are resolved by the caller and never
// read from the environment here.
//
// Each Review call makes exactly one HTTP request. Non-200 replies surface as
// [*APIError], or as an authentication error for 401/403 (see [IsAuthError]).
//
// Use [New] to obtain a Reviewer by provider name.
package providers
