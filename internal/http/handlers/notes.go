package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteeline-backend/internal/http/response"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/services"
)

// NoteHandler serves the note library, the onboarding corpus and the API credential.
type NoteHandler struct {
	log *logger.Logger
	svc *services.SessionManager
}

func NewNoteHandler(log *logger.Logger, svc *services.SessionManager) *NoteHandler {
	return &NoteHandler{log: log.With("handler", "NoteHandler"), svc: svc}
}

// GET /api/notes
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.svc.ListNotes(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notes": notes})
}

// POST /api/notes
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		Micronote bool   `json:"micronote"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	n, err := h.svc.CreateNote(c.Request.Context(), req.Name, req.Micronote)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, n)
}

// PATCH /api/notes/:name
func (h *NoteHandler) RenameNote(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	if err := h.svc.RenameNote(c.Request.Context(), c.Param("name"), req.Name); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/notes/:name
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.svc.DeleteNote(c.Request.Context(), c.Param("name")); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/notes/:name/export
func (h *NoteHandler) ExportNote(c *gin.Context) {
	file, err := h.svc.ExportStored(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	writeExport(c, file)
}

// GET /api/onboarding
func (h *NoteHandler) ListOnboarding(c *gin.Context) {
	sections, err := h.svc.ListOnboardings(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sections": sections})
}

// PUT /api/onboarding
func (h *NoteHandler) PutOnboarding(c *gin.Context) {
	var req services.OnboardingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	ex, err := h.svc.AddOnboarding(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, services.OnboardingInput{ID: req.ID, Note: ex.Note, Keypoints: ex.Keypoints, Transcript: ex.Transcript})
}

// GET /api/settings/api-key
func (h *NoteHandler) GetAPIKey(c *gin.Context) {
	ok, err := h.svc.HasAPIKey(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"configured": ok})
}

// PUT /api/settings/api-key
func (h *NoteHandler) PutAPIKey(c *gin.Context) {
	var req struct {
		Key string `json:"key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	if err := h.svc.SetAPIKey(c.Request.Context(), req.Key); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeExport(c *gin.Context, file services.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.JSON(http.StatusOK, file.Artifact)
}
