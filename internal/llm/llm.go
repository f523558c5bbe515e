// Package llm abstracts the external text-generation service used for racket explanations.
package llm

import (
	"context"
	"errors"
)

// Generator produces text for a single user-role prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is one generation call.
type Request struct {
	Prompt      string
	Temperature float32
}

// ErrNotConfigured is returned by the placeholder generator.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is used when no provider is configured; every call fails.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotConfigured
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
