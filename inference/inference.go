// Package inference talks to the text-generation model that produces the
// diagnosis suggestion.
package inference

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("inference endpoint is not configured")
	ErrEmptyOutput   = errors.New("model returned no text")
)

// Generator produces a continuation for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusError is returned when the model endpoint answers with a non-2xx
// status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("inference endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("inference endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Unavailable is the Generator used when no endpoint is configured. Every
// call fails with ErrNotConfigured.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
