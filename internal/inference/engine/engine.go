package engine

import (
	"context"
	"errors"
)

type Message struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	Temperature float64
	// Seed is sent only when set.
	Seed *int
	// APIKey overrides the engine's configured bearer token for this call.
	APIKey string
}

var (
	// ErrNullContent means the upstream answered without any message content.
	ErrNullContent = errors.New("upstream returned null content")
	// ErrMalformedFrame means a stream frame could not be decoded.
	ErrMalformedFrame = errors.New("malformed stream frame")
)

// Engine is a chat-completion backend. StreamText calls onDelta once per content fragment,
// in arrival order; a non-nil error from onDelta aborts the stream and is returned.
type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
	StreamText(ctx context.Context, model string, messages []Message, opts GenerateOptions, onDelta func(delta string) error) (full string, err error)
}
