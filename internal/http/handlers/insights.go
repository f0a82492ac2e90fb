package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteeline-backend/internal/http/response"
)

// POST /api/session/themes
func (h *SessionHandler) GenerateThemes(c *gin.Context) {
	items, err := h.svc.GenerateThemes(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"themes": items})
}

// POST /api/session/themes/:index/edit
func (h *SessionHandler) EditTheme(c *gin.Context) {
	i, err := indexParam(c, "index")
	if err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	items, err := h.svc.EditTheme(i)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"themes": items})
}

// PUT /api/session/themes/:index
func (h *SessionHandler) ChangeTheme(c *gin.Context) {
	i, err := indexParam(c, "index")
	if err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	items, err := h.svc.ChangeTheme(i, req.Text)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"themes": items})
}

// POST /api/session/themes/:index/commit
func (h *SessionHandler) CommitTheme(c *gin.Context) {
	i, err := indexParam(c, "index")
	if err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	items, err := h.svc.CommitTheme(i)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"themes": items})
}

// POST /api/session/themes/reorder
func (h *SessionHandler) ReorderThemes(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	items, err := h.svc.ReorderThemes(*req.From, *req.To)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"themes": items})
}

// POST /api/session/quiz
func (h *SessionHandler) Quiz(c *gin.Context) {
	items, err := h.svc.Quiz(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": items})
}

// POST /api/session/summary/transcript
func (h *SessionHandler) TranscriptSummary(c *gin.Context) {
	s, err := h.svc.TranscriptSummary(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": s})
}

// POST /api/session/summary/points
func (h *SessionHandler) PointSummary(c *gin.Context) {
	s, err := h.svc.PointSummary(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": s})
}

// POST /api/session/video
func (h *SessionHandler) AttachVideo(c *gin.Context) {
	var req struct {
		Link string `json:"link" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	res, err := h.svc.AttachVideo(c.Request.Context(), req.Link)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, res)
}
