package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes" yaml:"max_request_bytes"`
	CORSOrigins       []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

type KVConfig struct {
	// Type is "memory" or "redis".
	Type   string `json:"type" yaml:"type"`
	Addr   string `json:"addr,omitempty" yaml:"addr,omitempty"`
	DB     int    `json:"db,omitempty" yaml:"db,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

type EngineConfig struct {
	Type string `json:"type" yaml:"type"`

	// BaseURL is the upstream base URL (for "oai_http" engines).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is the fallback bearer token; a user-supplied key stored in the KV store wins.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	ChatCompletionsPath string `json:"chat_completions_path,omitempty" yaml:"chat_completions_path,omitempty"`

	Timeout       Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	StreamTimeout Duration `json:"stream_timeout,omitempty" yaml:"stream_timeout,omitempty"`
}

type ModelConfig struct {
	ID string `json:"id" yaml:"id"`

	// UpstreamModel overrides the model name sent to the engine. Defaults to ID.
	UpstreamModel string `json:"upstream_model,omitempty" yaml:"upstream_model,omitempty"`

	Engine EngineConfig `json:"engine" yaml:"engine"`
}

// PurposeConfig binds one kind of model call (expand, theme, ...) to a model and sampling settings.
type PurposeConfig struct {
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Seed        *int    `json:"seed,omitempty" yaml:"seed,omitempty"`
}

type ExpansionConfig struct {
	// Window is the windowed-alignment span preceding a point's creation instant.
	Window Duration `json:"window" yaml:"window"`
	// StreamDelay throttles how fast stream fragments are applied to the ledger.
	StreamDelay Duration `json:"stream_delay" yaml:"stream_delay"`
	// StreamBatch selects streamed requests for expand-all.
	StreamBatch bool `json:"stream_batch" yaml:"stream_batch"`
	// MaxConcurrency caps concurrent per-entry requests during expand-all.
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency"`
}

type ServicesConfig struct {
	TranscriptURL string   `json:"transcript_url" yaml:"transcript_url"`
	SummaryURL    string   `json:"summary_url" yaml:"summary_url"`
	Timeout       Duration `json:"timeout" yaml:"timeout"`
}

type TelemetryConfig struct {
	ServiceName string `json:"service_name" yaml:"service_name"`
	Version     string `json:"version" yaml:"version"`

	// Enabled installs a tracer provider. Spans go to Endpoint over OTLP/HTTP, or to
	// stdout when no endpoint is set.
	Enabled     bool              `json:"enabled" yaml:"enabled"`
	SampleRatio float64           `json:"sample_ratio" yaml:"sample_ratio"`
	Endpoint    string            `json:"otlp_endpoint,omitempty" yaml:"otlp_endpoint,omitempty"`
	Insecure    bool              `json:"otlp_insecure,omitempty" yaml:"otlp_insecure,omitempty"`
	Headers     map[string]string `json:"otlp_headers,omitempty" yaml:"otlp_headers,omitempty"`
}

type Config struct {
	Env       string                   `json:"env" yaml:"env"`
	HTTP      HTTPConfig               `json:"http" yaml:"http"`
	Database  DatabaseConfig           `json:"database" yaml:"database"`
	KV        KVConfig                 `json:"kv" yaml:"kv"`
	Models    []ModelConfig            `json:"models" yaml:"models"`
	Purposes  map[string]PurposeConfig `json:"purposes" yaml:"purposes"`
	Expansion ExpansionConfig          `json:"expansion" yaml:"expansion"`
	Services  ServicesConfig           `json:"services" yaml:"services"`
	Telemetry TelemetryConfig          `json:"telemetry" yaml:"telemetry"`
}

// Call purposes routed through the model gateway.
const (
	PurposeExpand       = "expand"
	PurposeExpandSingle = "expand_single"
	PurposeTheme        = "theme"
	PurposeQuiz         = "quiz"
	PurposePointSummary = "point_summary"
)

var AllPurposes = []string{PurposeExpand, PurposeExpandSingle, PurposeTheme, PurposeQuiz, PurposePointSummary}
