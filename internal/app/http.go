package app

import (
	"github.com/yungbote/noteeline-backend/internal/config"
	apphttp "github.com/yungbote/noteeline-backend/internal/http"
	httpH "github.com/yungbote/noteeline-backend/internal/http/handlers"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Note     *httpH.NoteHandler
	Session  *httpH.SessionHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Note:     httpH.NewNoteHandler(log, services.Sessions),
		Session:  httpH.NewSessionHandler(log, services.Sessions),
		Realtime: httpH.NewRealtimeHandler(log, hub),
	}
}

func wireRouterConfig(cfg *config.Config, log *logger.Logger, handlers Handlers) apphttp.RouterConfig {
	return apphttp.RouterConfig{
		Log:             log,
		ServiceName:     cfg.Telemetry.ServiceName,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
		HealthHandler:   handlers.Health,
		NoteHandler:     handlers.Note,
		SessionHandler:  handlers.Session,
		RealtimeHandler: handlers.Realtime,
	}
}
