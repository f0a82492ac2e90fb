package requestid

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type key struct{}

func New() string { return uuid.NewString() }

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key{}, strings.TrimSpace(id))
}

func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key{}).(string); ok {
		return v
	}
	return ""
}
