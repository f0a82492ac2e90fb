package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/inference/engine"
	"github.com/yungbote/noteeline-backend/internal/inference/engine/mock"
	"github.com/yungbote/noteeline-backend/internal/inference/engine/oaihttp"
)

type Route struct {
	Purpose       string
	PublicModel   string
	UpstreamModel string
	Temperature   float64
	Seed          *int
	Engine        engine.Engine
}

// Router resolves a call purpose (expand, theme, ...) to a concrete model route.
type Router struct {
	models   map[string]Route
	purposes map[string]Route
}

func New(cfg *config.Config) (*Router, error) {
	return NewWithEngines(cfg, nil)
}

// NewWithEngines lets tests inject engines by model id; models not in the map are built from config.
func NewWithEngines(cfg *config.Config, engines map[string]engine.Engine) (*Router, error) {
	r := &Router{models: map[string]Route{}, purposes: map[string]Route{}}
	for _, m := range cfg.Models {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return nil, fmt.Errorf("model id required")
		}
		if _, exists := r.models[id]; exists {
			return nil, fmt.Errorf("duplicate model id: %s", id)
		}

		eng, ok := engines[id]
		if !ok {
			switch strings.ToLower(strings.TrimSpace(m.Engine.Type)) {
			case "mock":
				eng = mock.New()
			case "openai_http", "oai_http":
				e, err := oaihttp.New(m.Engine)
				if err != nil {
					return nil, err
				}
				eng = e
			default:
				return nil, fmt.Errorf("unsupported engine type %q for model %q", m.Engine.Type, id)
			}
		}

		upstream := strings.TrimSpace(m.UpstreamModel)
		if upstream == "" {
			upstream = id
		}
		r.models[id] = Route{PublicModel: id, UpstreamModel: upstream, Engine: eng}
	}

	for purpose, pc := range cfg.Purposes {
		base, ok := r.models[strings.TrimSpace(pc.Model)]
		if !ok {
			return nil, fmt.Errorf("purpose %q references unknown model %q", purpose, pc.Model)
		}
		base.Purpose = purpose
		base.Temperature = pc.Temperature
		base.Seed = pc.Seed
		r.purposes[purpose] = base
	}
	return r, nil
}

func (r *Router) ListModels() []string {
	out := make([]string, 0, len(r.models))
	for id := range r.models {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Router) RouteForPurpose(purpose string) (Route, bool) {
	route, ok := r.purposes[strings.TrimSpace(purpose)]
	return route, ok
}
