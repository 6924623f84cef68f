package review

import "strings"

// DefaultSystemPrompt instructs the reviewer when no prompt file is found.
const DefaultSystemPrompt = `You are an expert code reviewer. Analyze the provided code structure and files.
Provide specific, actionable feedback on code quality, potential bugs, security issues,
and improvements. Focus on practical recommendations.`

// SystemPrompt returns text, or the default prompt when text is blank.
func SystemPrompt(text string) string {
	if strings.TrimSpace(text) == "" {
		return DefaultSystemPrompt
	}
	return text
}
