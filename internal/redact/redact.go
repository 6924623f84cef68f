package redact

import (
	"path"
	"regexp"
	"strings"
	"sync/atomic"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys (long hex/base64 strings after common key patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	// Generic secrets/tokens/passwords in quoted assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
	// Connection strings with inline credentials
	regexp.MustCompile(`(?i)\b(postgres(ql)?|mysql|mongodb(\+srv)?|redis|amqp)://[^:\s/]+:[^@\s]+@`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// OpenAI and DeepSeek keys share the sk- prefix.
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllLiteralString(result, placeholder)
	}
	return result
}

// ShouldRedactPath checks if a slash-separated relative path matches any of
// the path patterns. Patterns prefixed with "**/" match the base name at any
// depth.
func ShouldRedactPath(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := path.Match(pattern, rel); err == nil && matched {
			return true
		}
		if trimmed := strings.TrimPrefix(pattern, "**/"); trimmed != pattern {
			if matched, err := path.Match(trimmed, path.Base(rel)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// DefaultPaths are files whose whole content is withheld.
var DefaultPaths = []string{"**/.env", "**/*secrets*", "**/*.pem", "**/id_rsa"}

// Redactor scrubs file contents before they are assembled into a document.
// It is safe for concurrent use.
type Redactor struct {
	paths []string
	hits  atomic.Int64
}

// New returns a Redactor withholding files that match paths and scrubbing
// secrets from everything else.
func New(paths []string) *Redactor {
	return &Redactor{paths: paths}
}

// Transform has the shape of a per-file document transform.
func (r *Redactor) Transform(rel, content string) string {
	if ShouldRedactPath(rel, r.paths) {
		r.hits.Add(1)
		return placeholder + " (file content redacted by path policy)\n"
	}
	out := Secrets(content)
	if out != content {
		r.hits.Add(1)
	}
	return out
}

// Redacted reports how many files were altered.
func (r *Redactor) Redacted() int {
	return int(r.hits.Load())
}
