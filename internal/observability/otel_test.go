package observability

import (
	"context"
	"testing"
)

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if shutdown == nil {
		t.Fatal("shutdown must be non-nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewExporterSelectsByEndpoint(t *testing.T) {
	ctx := context.Background()
	stdout, err := newExporter(ctx, OtelConfig{})
	if err != nil || stdout == nil {
		t.Fatalf("stdout exporter: %v", err)
	}
	_ = stdout.Shutdown(ctx)

	otlp, err := newExporter(ctx, OtelConfig{Endpoint: "localhost:4318", Insecure: true, Headers: map[string]string{"k": "v"}})
	if err != nil || otlp == nil {
		t.Fatalf("otlp exporter: %v", err)
	}
	_ = otlp.Shutdown(ctx)
}

func TestTracerIsUsableWithoutInit(t *testing.T) {
	_, span := Tracer("test").Start(context.Background(), "noop")
	span.End()
}
