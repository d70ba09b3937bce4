// Package llm provides the client abstraction over the hosted generative-language model.
// The model identifier and response format are fixed; callers only supply a prompt.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

const (
	// DefaultModel is the model every outreach generation is sent to
	DefaultModel = "gemini-3-flash-preview"
	// JSONMIMEType is the structured-output hint passed with each request
	JSONMIMEType = "application/json"
	// DefaultTimeout bounds a single model call when the caller sets no deadline
	DefaultTimeout = 60 * time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Provider         Provider
	Model            string
	ResponseMIMEType string
}

// DefaultConfig returns the fixed Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:         ProviderGemini,
		Model:            DefaultModel,
		ResponseMIMEType: JSONMIMEType,
	}
}
