package model

import (
	"context"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
)

// Provider represents a service that provides LLMs (e.g. Gemini, OpenAI).
// Invocations are synchronous; failures wrap domain.ErrModel and are
// never retried by callers.
type Provider interface {
	// Name returns the provider's identifier (e.g. "gemini").
	Name() string

	// Generate sends the conversation history plus the new user prompt to
	// the LLM and returns the text response.
	Generate(ctx context.Context, history domain.Transcript, prompt string) (string, error)

	// DescribeImage sends an image and an instruction to the LLM and
	// returns the text response.
	DescribeImage(ctx context.Context, image []byte, prompt string) (string, error)

	// List returns the available models from this provider.
	List(ctx context.Context) ([]string, error)
}
