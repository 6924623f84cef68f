// Package redact removes secrets from file contents before they are sent to
// a review service.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS credentials, bearer tokens, database connection
// strings, and provider tokens (Anthropic, OpenAI, DeepSeek, GitHub, Slack).
//
// Files whose relative paths match configured glob patterns have their whole
// content replaced rather than scanned. A [Redactor] plugs into document
// assembly as a per-file transform.
package redact
