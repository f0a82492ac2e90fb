// Package gateway is the single entry point for model calls. It resolves a call purpose to
// a route, attaches the user's API key, and wraps every failure in *Error.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/noteeline-backend/internal/inference/engine"
	"github.com/yungbote/noteeline-backend/internal/inference/router"
	"github.com/yungbote/noteeline-backend/internal/observability"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

// KeySource yields the user-supplied API credential; an empty key means "use the configured one".
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// Error is returned for every failed model call.
type Error struct {
	Purpose string
	Model   string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("model call %s (%s): %v", e.Purpose, e.Model, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == apperrors.ErrUpstream }

// Call is one fully assembled request.
type Call struct {
	Purpose string
	System  string
	User    string
}

type Gateway struct {
	router *router.Router
	keys   KeySource
	log    *logger.Logger
	tracer trace.Tracer
}

func New(r *router.Router, keys KeySource, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		router: r,
		keys:   keys,
		log:    log.With("component", "gateway"),
		tracer: observability.Tracer("gateway"),
	}
}

// Complete performs one non-streamed call.
func (g *Gateway) Complete(ctx context.Context, call Call) (string, error) {
	route, opts, err := g.prepare(ctx, call)
	if err != nil {
		return "", err
	}
	ctx, span := g.start(ctx, call, route, false)
	defer span.End()

	start := time.Now()
	out, err := route.Engine.GenerateText(ctx, route.UpstreamModel, messages(call), opts)
	if err != nil {
		return "", g.fail(span, call, route, start, err)
	}
	g.log.Debug("model call done", "purpose", call.Purpose, "model", route.UpstreamModel, "latency_ms", time.Since(start).Milliseconds())
	return out, nil
}

// Stream performs one streamed call, invoking onFragment per fragment in arrival order.
// The full text is returned on normal completion.
func (g *Gateway) Stream(ctx context.Context, call Call, onFragment func(fragment string) error) (string, error) {
	route, opts, err := g.prepare(ctx, call)
	if err != nil {
		return "", err
	}
	ctx, span := g.start(ctx, call, route, true)
	defer span.End()

	start := time.Now()
	fragments := 0
	var aborted error
	out, err := route.Engine.StreamText(ctx, route.UpstreamModel, messages(call), opts, func(delta string) error {
		fragments++
		if onFragment == nil {
			return nil
		}
		if err := onFragment(delta); err != nil {
			aborted = err
			return err
		}
		return nil
	})
	if err != nil {
		if aborted != nil && errors.Is(err, aborted) {
			return "", g.abort(span, call, route, start, err)
		}
		return "", g.fail(span, call, route, start, err)
	}
	span.SetAttributes(attribute.Int("gateway.fragments", fragments))
	g.log.Debug("model stream done", "purpose", call.Purpose, "model", route.UpstreamModel, "fragments", fragments, "latency_ms", time.Since(start).Milliseconds())
	return out, nil
}

func (g *Gateway) prepare(ctx context.Context, call Call) (router.Route, engine.GenerateOptions, error) {
	if g == nil || g.router == nil {
		return router.Route{}, engine.GenerateOptions{}, &Error{Purpose: call.Purpose, Err: apperrors.ErrUnavailable}
	}
	route, ok := g.router.RouteForPurpose(call.Purpose)
	if !ok {
		return router.Route{}, engine.GenerateOptions{}, &Error{Purpose: call.Purpose, Err: fmt.Errorf("no route for purpose %q", call.Purpose)}
	}
	opts := engine.GenerateOptions{Temperature: route.Temperature, Seed: route.Seed}
	if g.keys != nil {
		key, err := g.keys.APIKey(ctx)
		if err != nil {
			return route, opts, &Error{Purpose: call.Purpose, Model: route.UpstreamModel, Err: fmt.Errorf("read api key: %w", err)}
		}
		opts.APIKey = strings.TrimSpace(key)
	}
	return route, opts, nil
}

func (g *Gateway) start(ctx context.Context, call Call, route router.Route, stream bool) (context.Context, trace.Span) {
	return g.tracer.Start(ctx, "gateway."+call.Purpose, trace.WithAttributes(
		attribute.String("gateway.purpose", call.Purpose),
		attribute.String("gateway.model", route.UpstreamModel),
		attribute.Bool("gateway.stream", stream),
	))
}

func (g *Gateway) fail(span trace.Span, call Call, route router.Route, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	level := g.log.Warn
	if errors.Is(err, context.Canceled) {
		level = g.log.Debug
	}
	level("model call failed", "purpose", call.Purpose, "model", route.UpstreamModel, "latency_ms", time.Since(start).Milliseconds(), "error", err)
	return &Error{Purpose: call.Purpose, Model: route.UpstreamModel, Err: err}
}

// abort wraps an error the caller's fragment callback returned. The caller chose to stop,
// so it is not logged as an upstream failure.
func (g *Gateway) abort(span trace.Span, call Call, route router.Route, start time.Time, err error) error {
	span.SetAttributes(attribute.Bool("gateway.aborted", true))
	g.log.Debug("model stream aborted", "purpose", call.Purpose, "model", route.UpstreamModel, "latency_ms", time.Since(start).Milliseconds(), "error", err)
	return &Error{Purpose: call.Purpose, Model: route.UpstreamModel, Err: err}
}

func messages(call Call) []engine.Message {
	out := make([]engine.Message, 0, 2)
	if strings.TrimSpace(call.System) != "" {
		out = append(out, engine.Message{Role: "system", Content: call.System})
	}
	out = append(out, engine.Message{Role: "user", Content: call.User})
	return out
}
