package providers

import (
	"errors"
	"fmt"
)

// maxErrorBody caps how much of a response body is quoted in errors.
const maxErrorBody = 512

type authError struct {
	provider string
	message  string
}

func (e *authError) Error() string {
	return fmt.Sprintf("%s authentication error: %s", e.provider, e.message)
}

// IsAuthError checks if an error is or wraps an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// APIError is a non-success reply from a review service.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// classifyStatus turns a non-200 status into a typed error.
func classifyStatus(provider string, status int, body []byte) error {
	msg := truncate(string(body))
	if status == 401 || status == 403 {
		return &authError{provider: provider, message: msg}
	}
	return &APIError{Provider: provider, StatusCode: status, Body: msg}
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}
