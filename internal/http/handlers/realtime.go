package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /api/session/events
// Every connection receives the session channel until it disconnects.
func (h *RealtimeHandler) SessionEvents(c *gin.Context) {
	client := h.hub.NewSSEClient()
	h.hub.AddChannel(client, realtime.SessionChannel)
	h.log.Debug("SSE stream open", "client_id", client.ID.String())
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
