package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/noteeline-backend/internal/platform/envutil"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar (line %d)", value.Line)
	}
	if value.Tag == "!!int" {
		n, err := strconv.ParseInt(value.Value, 10, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(value.Value)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func intPtr(v int) *int { return &v }

// Default is the built-in configuration before any file or environment override.
func Default() *Config {
	openAI := EngineConfig{
		Type:    "oai_http",
		BaseURL: "https://api.openai.com",
	}
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   10 << 20,
		},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "noteeline.db"},
		KV:       KVConfig{Type: "memory", Prefix: "noteeline:"},
		Models: []ModelConfig{
			{ID: "gpt-4-turbo", Engine: openAI},
			{ID: "gpt-3.5-turbo", Engine: openAI},
			{ID: "gpt-4", Engine: openAI},
		},
		Purposes: map[string]PurposeConfig{
			PurposeExpand:       {Model: "gpt-4-turbo", Temperature: 0.5, Seed: intPtr(1)},
			PurposeExpandSingle: {Model: "gpt-3.5-turbo", Temperature: 0.2},
			PurposeTheme:        {Model: "gpt-4", Temperature: 0.5},
			PurposeQuiz:         {Model: "gpt-4", Temperature: 0.5},
			PurposePointSummary: {Model: "gpt-4", Temperature: 0.5},
		},
		Expansion: ExpansionConfig{
			Window:         Duration{Duration: 20 * time.Second},
			StreamDelay:    Duration{Duration: 150 * time.Millisecond},
			StreamBatch:    true,
			MaxConcurrency: 8,
		},
		Services: ServicesConfig{
			TranscriptURL: "https://noteeline-backend.onrender.com/youtube-transcript",
			SummaryURL:    "https://noteeline-backend.onrender.com/fetch-summary",
			Timeout:       Duration{Duration: 60 * time.Second},
		},
		Telemetry: TelemetryConfig{ServiceName: "noteeline-backend", SampleRatio: 0.1},
	}
}

// Load resolves configuration: defaults, then an optional YAML/JSON file, then env overrides.
func Load() (*Config, error) {
	cfg := Default()

	cfgPath := strings.TrimSpace(os.Getenv("NOTEELINE_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
				p := filepath.Join(wd, "config", name)
				if _, err := os.Stat(p); err == nil {
					cfgPath = p
					break
				}
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		// YAML is a superset of JSON, so one decoder covers both file formats.
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := Normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("NOTEELINE_HTTP_ADDR", cfg.HTTP.Addr)
	if origins := envutil.String("NOTEELINE_CORS_ORIGINS", ""); origins != "" {
		cfg.HTTP.CORSOrigins = splitCSV(origins)
	}

	cfg.Database.Driver = envutil.String("NOTEELINE_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = envutil.String("NOTEELINE_DB_DSN", cfg.Database.DSN)

	if addr := envutil.String("REDIS_ADDR", ""); addr != "" {
		cfg.KV.Type = "redis"
		cfg.KV.Addr = addr
		cfg.KV.DB = envutil.Int("REDIS_DB", cfg.KV.DB)
	}
	cfg.KV.Type = envutil.String("NOTEELINE_KV_TYPE", cfg.KV.Type)

	baseURL := envutil.String("NOTEELINE_OPENAI_BASE_URL", "")
	apiKey := envutil.String("OPENAI_API_KEY", "")
	engineType := envutil.String("NOTEELINE_ENGINE", "")
	for i := range cfg.Models {
		m := &cfg.Models[i]
		if engineType != "" {
			m.Engine.Type = engineType
		}
		if baseURL != "" && isOAI(m.Engine.Type) {
			m.Engine.BaseURL = baseURL
		}
		if apiKey != "" && m.Engine.APIKey == "" {
			m.Engine.APIKey = apiKey
		}
	}

	cfg.Expansion.Window.Duration = envutil.Duration("NOTEELINE_WINDOW", cfg.Expansion.Window.Duration)
	cfg.Expansion.StreamDelay.Duration = envutil.Duration("NOTEELINE_STREAM_DELAY", cfg.Expansion.StreamDelay.Duration)
	cfg.Expansion.StreamBatch = envutil.Bool("NOTEELINE_STREAM_BATCH", cfg.Expansion.StreamBatch)
	cfg.Expansion.MaxConcurrency = envutil.Int("NOTEELINE_MAX_CONCURRENCY", cfg.Expansion.MaxConcurrency)

	cfg.Services.TranscriptURL = envutil.String("NOTEELINE_TRANSCRIPT_URL", cfg.Services.TranscriptURL)
	cfg.Services.SummaryURL = envutil.String("NOTEELINE_SUMMARY_URL", cfg.Services.SummaryURL)

	cfg.Telemetry.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
	cfg.Telemetry.Version = envutil.String("APP_VERSION", cfg.Telemetry.Version)
	cfg.Telemetry.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Telemetry.SampleRatio)
	cfg.Telemetry.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Telemetry.Insecure)
	if h := parseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")); h != nil {
		cfg.Telemetry.Headers = h
	}
}

// parseHeaders reads the OTLP "k=v,k2=v2" header list; malformed pairs are skipped.
func parseHeaders(raw string) map[string]string {
	var out map[string]string
	for _, part := range splitCSV(raw) {
		k, v, ok := strings.Cut(part, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[k] = v
	}
	return out
}

// Normalize fills defaults and validates cfg in place.
func Normalize(cfg *Config) error {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 10 << 20
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case "", "sqlite":
		cfg.Database.Driver = "sqlite"
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			cfg.Database.DSN = "noteeline.db"
		}
	case "postgres", "postgresql":
		cfg.Database.Driver = "postgres"
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			return errors.New("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("invalid database.driver=%q", cfg.Database.Driver)
	}

	cfg.KV.Type = strings.ToLower(strings.TrimSpace(cfg.KV.Type))
	switch cfg.KV.Type {
	case "", "memory":
		cfg.KV.Type = "memory"
	case "redis":
		if strings.TrimSpace(cfg.KV.Addr) == "" {
			return errors.New("kv.addr is required for redis")
		}
	default:
		return fmt.Errorf("invalid kv.type=%q", cfg.KV.Type)
	}

	if len(cfg.Models) == 0 {
		return errors.New("config must define at least one model")
	}
	known := make(map[string]bool, len(cfg.Models))
	for i := range cfg.Models {
		m := &cfg.Models[i]
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			return errors.New("model id is required")
		}
		if known[m.ID] {
			return fmt.Errorf("duplicate model id %q", m.ID)
		}
		known[m.ID] = true
		if strings.TrimSpace(m.UpstreamModel) == "" {
			m.UpstreamModel = m.ID
		}
		m.Engine.Type = strings.TrimSpace(m.Engine.Type)
		m.Engine.BaseURL = strings.TrimRight(strings.TrimSpace(m.Engine.BaseURL), "/")
		m.Engine.ChatCompletionsPath = strings.TrimSpace(m.Engine.ChatCompletionsPath)

		switch {
		case m.Engine.Type == "":
			return fmt.Errorf("model %q missing engine.type", m.ID)
		case isOAI(m.Engine.Type):
			m.Engine.Type = "oai_http"
			if m.Engine.BaseURL == "" {
				return fmt.Errorf("model %q (oai_http) missing engine.base_url", m.ID)
			}
			if m.Engine.ChatCompletionsPath == "" {
				m.Engine.ChatCompletionsPath = "/v1/chat/completions"
			}
			if m.Engine.Timeout.Duration <= 0 {
				m.Engine.Timeout = Duration{Duration: 60 * time.Second}
			}
			if m.Engine.StreamTimeout.Duration < 0 {
				return fmt.Errorf("model %q invalid engine.stream_timeout", m.ID)
			}
		case strings.EqualFold(m.Engine.Type, "mock"):
			m.Engine.Type = "mock"
		default:
			return fmt.Errorf("model %q unknown engine.type=%q", m.ID, m.Engine.Type)
		}
	}

	if cfg.Purposes == nil {
		cfg.Purposes = map[string]PurposeConfig{}
	}
	for _, p := range AllPurposes {
		pc, ok := cfg.Purposes[p]
		if !ok || strings.TrimSpace(pc.Model) == "" {
			return fmt.Errorf("purpose %q has no model", p)
		}
		pc.Model = strings.TrimSpace(pc.Model)
		if !known[pc.Model] {
			return fmt.Errorf("purpose %q references unknown model %q", p, pc.Model)
		}
		if pc.Temperature < 0 || pc.Temperature > 2 {
			return fmt.Errorf("purpose %q invalid temperature %v", p, pc.Temperature)
		}
		cfg.Purposes[p] = pc
	}

	if cfg.Expansion.Window.Duration <= 0 {
		cfg.Expansion.Window = Duration{Duration: 20 * time.Second}
	}
	if cfg.Expansion.StreamDelay.Duration < 0 {
		return errors.New("expansion.stream_delay must be >= 0")
	}
	if cfg.Expansion.MaxConcurrency <= 0 {
		cfg.Expansion.MaxConcurrency = 8
	}
	if cfg.Services.Timeout.Duration <= 0 {
		cfg.Services.Timeout = Duration{Duration: 60 * time.Second}
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "noteeline-backend"
	}
	cfg.Telemetry.SampleRatio = min(max(cfg.Telemetry.SampleRatio, 0), 1)
	return nil
}

func isOAI(t string) bool {
	return strings.EqualFold(t, "oai_http") || strings.EqualFold(t, "openai_http")
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
