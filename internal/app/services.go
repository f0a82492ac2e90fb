package app

import (
	"fmt"

	"github.com/yungbote/noteeline-backend/internal/clients/media"
	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/data/kv"
	"github.com/yungbote/noteeline-backend/internal/data/repos"
	"github.com/yungbote/noteeline-backend/internal/inference/gateway"
	"github.com/yungbote/noteeline-backend/internal/inference/router"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/prompts"
	"github.com/yungbote/noteeline-backend/internal/platform/clock"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/services"
)

type Services struct {
	Gateway  *gateway.Gateway
	Sessions *services.SessionManager
}

func wireServices(cfg *config.Config, log *logger.Logger, rp repos.Repos, store kv.Store, emit services.SSEEmitter) (Services, error) {
	log.Info("Wiring services...")
	rt, err := router.New(cfg)
	if err != nil {
		return Services{}, fmt.Errorf("init model router: %w", err)
	}
	gw := gateway.New(rt, kv.APIKeys{Store: store}, log)

	sessions := services.NewSessionManager(services.SessionDeps{
		Notes:       rp.Notes,
		Onboardings: rp.Onboardings,
		KV:          store,
		Generator:   gw,
		Prompts:     prompts.Load(log),
		Media:       media.New(cfg.Services, log),
		Notifier:    services.NewSessionNotifier(emit),
		Expansion:   cfg.Expansion,
		Clock:       clock.System{},
		Log:         log,
	})
	return Services{Gateway: gw, Sessions: sessions}, nil
}
