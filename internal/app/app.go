package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/data/db"
	"github.com/yungbote/noteeline-backend/internal/data/kv"
	"github.com/yungbote/noteeline-backend/internal/data/repos"
	apphttp "github.com/yungbote/noteeline-backend/internal/http"
	"github.com/yungbote/noteeline-backend/internal/observability"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/realtime"
	"github.com/yungbote/noteeline-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	DB       *db.Service
	KV       kv.Store
	Repos    repos.Repos
	Services Services
	SSEHub   *realtime.SSEHub
	Server   *apphttp.Server

	bus          bus.Bus
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New loads configuration from the environment and wires the application.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tc := cfg.Telemetry
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     tc.Enabled,
		ServiceName: tc.ServiceName,
		Environment: cfg.Env,
		Version:     tc.Version,
		SampleRatio: tc.SampleRatio,
		Endpoint:    tc.Endpoint,
		Insecure:    tc.Insecure,
		Headers:     tc.Headers,
	})

	a := &App{Log: log, Cfg: cfg, otelShutdown: otelShutdown}
	if err := a.wire(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire() error {
	dbs, err := openDatabase(a.Cfg.Database, a.Log)
	if err != nil {
		return err
	}
	a.DB = dbs
	a.Repos = wireRepos(dbs, a.Log)

	a.Log.Info("Opening KV store...", "type", a.Cfg.KV.Type)
	store, err := kv.Open(a.Cfg.KV, a.Log)
	if err != nil {
		return fmt.Errorf("open kv store: %w", err)
	}
	a.KV = store

	rt, err := wireRealtime(a.Log, store, a.Cfg.KV.Prefix)
	if err != nil {
		return err
	}
	a.SSEHub, a.bus = rt.Hub, rt.Bus

	services, err := wireServices(a.Cfg, a.Log, a.Repos, store, rt.Emitter)
	if err != nil {
		return err
	}
	a.Services = services

	a.Server = apphttp.NewServer(a.Cfg.HTTP, wireRouterConfig(a.Cfg, a.Log, wireHandlers(a.Log, services, rt.Hub)))
	return nil
}

// Start launches background work: the cross-replica SSE forwarder when a bus is configured.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	if a.bus != nil {
		if err := a.bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	return nil
}

// Run starts background work and serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.Server.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Sessions != nil {
		a.Services.Sessions.Close()
	}
	if a.bus != nil {
		_ = a.bus.Close()
	}
	if a.KV != nil {
		if err := a.KV.Close(); err != nil {
			a.Log.Warn("close kv store", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("close database", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	a.Log.Sync()
}
