package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsNormalize(t *testing.T) {
	cfg := Default()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Expansion.Window.Duration != 20*time.Second {
		t.Fatalf("window=%v", cfg.Expansion.Window.Duration)
	}
	if cfg.Expansion.StreamDelay.Duration != 150*time.Millisecond {
		t.Fatalf("stream delay=%v", cfg.Expansion.StreamDelay.Duration)
	}
	exp := cfg.Purposes[PurposeExpand]
	if exp.Model != "gpt-4-turbo" || exp.Temperature != 0.5 || exp.Seed == nil || *exp.Seed != 1 {
		t.Fatalf("expand purpose=%+v", exp)
	}
	if cfg.Models[0].Engine.ChatCompletionsPath != "/v1/chat/completions" {
		t.Fatalf("path=%q", cfg.Models[0].Engine.ChatCompletionsPath)
	}
}

func TestLoadYAMLFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	body := `
env: test
expansion:
  window: 30s
  stream_delay: 10ms
  max_concurrency: 2
models:
  - id: local
    engine:
      type: mock
purposes:
  expand: {model: local, temperature: 0.5}
  expand_single: {model: local, temperature: 0.2}
  theme: {model: local}
  quiz: {model: local}
  point_summary: {model: local}
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOTEELINE_CONFIG_PATH", p)
	t.Setenv("NOTEELINE_HTTP_ADDR", ":9999")
	t.Setenv("NOTEELINE_ENGINE", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("NOTEELINE_KV_TYPE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Fatalf("addr=%q", cfg.HTTP.Addr)
	}
	if cfg.Expansion.Window.Duration != 30*time.Second || cfg.Expansion.StreamDelay.Duration != 10*time.Millisecond {
		t.Fatalf("expansion=%+v", cfg.Expansion)
	}
	if len(cfg.Models) != 1 || cfg.Models[0].Engine.Type != "mock" || cfg.Models[0].UpstreamModel != "local" {
		t.Fatalf("models=%+v", cfg.Models)
	}
}

func TestTelemetryEnvOverrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLER_RATIO", "2")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "api-key=abc, bad, x=")

	cfg := Default()
	applyEnv(cfg)
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	tc := cfg.Telemetry
	if !tc.Enabled || tc.SampleRatio != 1 || tc.Endpoint != "collector:4318" {
		t.Fatalf("telemetry=%+v", tc)
	}
	if len(tc.Headers) != 1 || tc.Headers["api-key"] != "abc" {
		t.Fatalf("headers=%v", tc.Headers)
	}
}

func TestNormalizeRejectsUnknownPurposeModel(t *testing.T) {
	cfg := Default()
	cfg.Purposes[PurposeQuiz] = PurposeConfig{Model: "nope"}
	if err := Normalize(cfg); err == nil {
		t.Fatalf("expected error for unknown purpose model")
	}
}

func TestDurationUnmarshalJSON(t *testing.T) {
	var d Duration
	if err := d.UnmarshalJSON([]byte(`"1.5s"`)); err != nil || d.Duration != 1500*time.Millisecond {
		t.Fatalf("d=%v err=%v", d.Duration, err)
	}
	if err := d.UnmarshalJSON([]byte(`1000`)); err != nil || d.Duration != time.Microsecond {
		t.Fatalf("d=%v err=%v", d.Duration, err)
	}
	if err := d.UnmarshalJSON([]byte(`"bogus"`)); err == nil {
		t.Fatalf("expected parse error")
	}
}
