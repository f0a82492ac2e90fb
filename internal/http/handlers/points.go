package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteeline-backend/internal/http/response"
	"github.com/yungbote/noteeline-backend/internal/realtime"
)

// POST /api/session/points
func (h *SessionHandler) AddPoint(c *gin.Context) {
	var req struct {
		Text      string   `json:"text"`
		CreatedAt *float64 `json:"created_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	en, err := h.svc.AddPoint(c.Request.Context(), req.Text, req.CreatedAt)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, en)
}

// DELETE /api/session/points/:id
func (h *SessionHandler) RemovePoint(c *gin.Context) {
	if err := h.svc.RemovePoint(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/session/points/:id/edit
func (h *SessionHandler) BeginEdit(c *gin.Context) {
	en, err := h.svc.BeginEdit(c.Param("id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, en)
}

// PUT /api/session/points/:id/edit
func (h *SessionHandler) EditPoint(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	en, err := h.svc.EditPoint(c.Param("id"), req.Text)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, en)
}

// POST /api/session/points/:id/commit
func (h *SessionHandler) CommitEdit(c *gin.Context) {
	en, err := h.svc.CommitEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, en)
}

// POST /api/session/points/:id/expand
// With ?stream=true the response is an event stream of "fragment" events followed by a
// single "done" (the committed entry) or "error" (the error envelope) event.
func (h *SessionHandler) ExpandPoint(c *gin.Context) {
	id := c.Param("id")
	if !wantsStream(c) {
		en, err := h.svc.ExpandPoint(c.Request.Context(), id, false, nil)
		if err != nil {
			response.RespondError(c, err)
			return
		}
		response.RespondOK(c, en)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	en, err := h.svc.ExpandPoint(ctx, id, true, func(fragment string) error {
		c.SSEvent(string(realtime.SSEEventStreamFragment), realtime.StreamFragment{EntryID: id, Fragment: fragment})
		c.Writer.Flush()
		return ctx.Err()
	})
	if err != nil {
		_ = c.Error(err)
		_, env := response.Envelope(err)
		c.SSEvent("error", env)
		c.Writer.Flush()
		return
	}
	c.SSEvent("done", en)
	c.Writer.Flush()
}

// POST /api/session/points/:id/reduce
func (h *SessionHandler) ReducePoint(c *gin.Context) {
	en, err := h.svc.ReducePoint(c.Param("id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, en)
}

// POST /api/session/expand-all
func (h *SessionHandler) ExpandAll(c *gin.Context) {
	res, err := h.svc.ExpandAll(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/session/reduce-all
func (h *SessionHandler) ReduceAll(c *gin.Context) {
	entries, err := h.svc.ReduceAll(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// POST /api/session/reorder
func (h *SessionHandler) Reorder(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	entries, err := h.svc.Reorder(c.Request.Context(), *req.From, *req.To)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// POST /api/session/sort
func (h *SessionHandler) SortByTime(c *gin.Context) {
	entries, err := h.svc.SortByTime(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}
