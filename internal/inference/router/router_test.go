package router

import (
	"testing"

	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/inference/engine/mock"
)

func TestRouteForPurpose(t *testing.T) {
	seed := 1
	cfg := &config.Config{
		Models: []config.ModelConfig{
			{ID: "fast", UpstreamModel: "gpt-3.5-turbo", Engine: config.EngineConfig{Type: "mock"}},
			{ID: "smart", Engine: config.EngineConfig{Type: "oai_http", BaseURL: "http://upstream"}},
		},
		Purposes: map[string]config.PurposeConfig{
			config.PurposeExpand:       {Model: "smart", Temperature: 0.5, Seed: &seed},
			config.PurposeExpandSingle: {Model: "fast", Temperature: 0.2},
		},
	}
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	exp, ok := r.RouteForPurpose(config.PurposeExpand)
	if !ok || exp.UpstreamModel != "smart" || exp.Temperature != 0.5 || exp.Seed == nil || *exp.Seed != 1 {
		t.Fatalf("expand route=%+v ok=%v", exp, ok)
	}
	single, ok := r.RouteForPurpose(config.PurposeExpandSingle)
	if !ok || single.UpstreamModel != "gpt-3.5-turbo" || single.Seed != nil {
		t.Fatalf("single route=%+v", single)
	}
	if _, ok := single.Engine.(*mock.Engine); !ok {
		t.Fatalf("single engine=%T", single.Engine)
	}
	if _, ok := r.RouteForPurpose("nope"); ok {
		t.Fatalf("unknown purpose should not resolve")
	}
	if got := r.ListModels(); len(got) != 2 || got[0] != "fast" {
		t.Fatalf("models=%v", got)
	}
}

func TestUnknownPurposeModel(t *testing.T) {
	cfg := &config.Config{
		Models:   []config.ModelConfig{{ID: "m", Engine: config.EngineConfig{Type: "mock"}}},
		Purposes: map[string]config.PurposeConfig{config.PurposeTheme: {Model: "other"}},
	}
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error")
	}
}
