// Package config loads and merges critic configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CRITIC_PROVIDER, CRITIC_MODEL, CRITIC_TIMEOUT, etc.)
//  3. Config file ($XDG_CONFIG_HOME/critic/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [APIKey] to read the provider
// credential, and [SystemPrompt] to resolve the reviewer instructions.
package config
