package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteeline-backend/internal/http/response"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/services"
)

// SessionHandler serves the open note: its bullets, themes, summaries and playback.
type SessionHandler struct {
	log *logger.Logger
	svc *services.SessionManager
}

func NewSessionHandler(log *logger.Logger, svc *services.SessionManager) *SessionHandler {
	return &SessionHandler{log: log.With("handler", "SessionHandler"), svc: svc}
}

// POST /api/session
func (h *SessionHandler) Open(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	view, err := h.svc.Open(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/session
func (h *SessionHandler) Snapshot(c *gin.Context) {
	view, err := h.svc.Snapshot()
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// DELETE /api/session
func (h *SessionHandler) Close(c *gin.Context) {
	h.svc.Close()
	c.Status(http.StatusNoContent)
}

// GET /api/session/streams
func (h *SessionHandler) StreamBuffers(c *gin.Context) {
	buffers, err := h.svc.StreamBuffers(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"point_streams": buffers})
}

// GET /api/session/export
func (h *SessionHandler) Export(c *gin.Context) {
	file, err := h.svc.Export()
	if err != nil {
		response.RespondError(c, err)
		return
	}
	writeExport(c, file)
}

// POST /api/session/playback
func (h *SessionHandler) Playback(c *gin.Context) {
	var req struct {
		Time    float64 `json:"time"`
		Playing bool    `json:"playing"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	counters, err := h.svc.Observe(req.Time, req.Playing)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, counters)
}

// POST /api/session/playback/pause
func (h *SessionHandler) Pause(c *gin.Context) {
	counters, err := h.svc.Pause()
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, counters)
}
