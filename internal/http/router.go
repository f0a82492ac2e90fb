package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/noteeline-backend/internal/http/handlers"
	httpMW "github.com/yungbote/noteeline-backend/internal/http/middleware"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	ServiceName     string
	CORSOrigins     []string
	MaxRequestBytes int64

	HealthHandler   *httpH.HealthHandler
	NoteHandler     *httpH.NoteHandler
	SessionHandler  *httpH.SessionHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recover(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.LimitBody(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Note library
	if h := cfg.NoteHandler; h != nil {
		api.GET("/notes", h.ListNotes)
		api.POST("/notes", h.CreateNote)
		api.PATCH("/notes/:name", h.RenameNote)
		api.DELETE("/notes/:name", h.DeleteNote)
		api.GET("/notes/:name/export", h.ExportNote)

		api.GET("/onboarding", h.ListOnboarding)
		api.PUT("/onboarding", h.PutOnboarding)

		api.GET("/settings/api-key", h.GetAPIKey)
		api.PUT("/settings/api-key", h.PutAPIKey)
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		api.GET("/session/events", cfg.RealtimeHandler.SessionEvents)
	}

	// Open note session
	if h := cfg.SessionHandler; h != nil {
		s := api.Group("/session")
		s.POST("", h.Open)
		s.GET("", h.Snapshot)
		s.DELETE("", h.Close)
		s.GET("/streams", h.StreamBuffers)
		s.GET("/export", h.Export)

		s.POST("/points", h.AddPoint)
		s.DELETE("/points/:id", h.RemovePoint)
		s.POST("/points/:id/edit", h.BeginEdit)
		s.PUT("/points/:id/edit", h.EditPoint)
		s.POST("/points/:id/commit", h.CommitEdit)
		s.POST("/points/:id/expand", h.ExpandPoint)
		s.POST("/points/:id/reduce", h.ReducePoint)

		s.POST("/expand-all", h.ExpandAll)
		s.POST("/reduce-all", h.ReduceAll)
		s.POST("/reorder", h.Reorder)
		s.POST("/sort", h.SortByTime)

		s.POST("/themes", h.GenerateThemes)
		s.POST("/themes/reorder", h.ReorderThemes)
		s.POST("/themes/:index/edit", h.EditTheme)
		s.PUT("/themes/:index", h.ChangeTheme)
		s.POST("/themes/:index/commit", h.CommitTheme)

		s.POST("/quiz", h.Quiz)
		s.POST("/summary/transcript", h.TranscriptSummary)
		s.POST("/summary/points", h.PointSummary)
		s.POST("/video", h.AttachVideo)

		s.POST("/playback", h.Playback)
		s.POST("/playback/pause", h.Pause)
	}

	return r
}
