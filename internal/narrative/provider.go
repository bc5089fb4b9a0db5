// Package narrative turns a collected signal bundle into a structured
// narrative report, falling back to a raw-digest artifact whenever the
// reasoning service is unavailable or its output cannot be used.
package narrative

import (
	"context"
)

// Provider is the interface to a reasoning service.
type Provider interface {
	// Name returns the provider name (e.g., "claude")
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Generate sends a prompt and returns the response
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to a reasoning service.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response is the reasoning service's response.
type Response struct {
	Content     string
	Model       string
	RawResponse string // The raw API response body for logging/debugging
}
