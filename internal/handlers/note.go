package handlers

import (
	"path/filepath"
	"strconv"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteHandler struct {
	noteService *services.NoteService
	uploadCfg   *config.UploadConfig
}

func NewNoteHandler(db *gorm.DB, uploadCfg *config.UploadConfig) *NoteHandler {
	return &NoteHandler{
		noteService: services.NewNoteService(db),
		uploadCfg:   uploadCfg,
	}
}

// List returns a class's notes
// GET /api/classes/:id/notes
func (h *NoteHandler) List(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.NoteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.noteService.List(classID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a single note
// GET /api/notes/:id
func (h *NoteHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	note, err := h.noteService.GetByID(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, note)
}

// Create shares a note, optionally with an attachment. The form carries
// title, content and unit_id fields plus an optional file part.
// POST /api/classes/:id/notes
func (h *NoteHandler) Create(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	req := services.CreateNoteRequest{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
	}
	if req.Title == "" {
		response.BadRequest(c, "title is required")
		return
	}
	if unitStr := c.PostForm("unit_id"); unitStr != "" {
		unitID, err := strconv.ParseUint(unitStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid unit_id")
			return
		}
		id := uint(unitID)
		req.UnitID = &id
	}

	if file, err := c.FormFile("file"); err == nil {
		maxBytes := int64(h.uploadCfg.MaxSizeMB) << 20
		if file.Size > maxBytes {
			response.BadRequest(c, "attachment exceeds the upload size limit")
			return
		}

		key := uuid.New().String() + filepath.Ext(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(h.uploadCfg.Dir, key)); err != nil {
			response.ServerError(c, "failed to store attachment")
			return
		}
		req.FileKey = key
		req.FileName = filepath.Base(file.Filename)
		req.FileSize = file.Size
	}

	note, err := h.noteService.Create(classID, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, note)
}

// Download streams a note's attachment
// GET /api/notes/:id/download
func (h *NoteHandler) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	note, err := h.noteService.GetByID(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if note.FileKey == "" {
		response.NotFound(c, "note has no attachment")
		return
	}

	c.FileAttachment(filepath.Join(h.uploadCfg.Dir, note.FileKey), note.FileName)
}

// Delete removes a note. Author or class creator only.
// DELETE /api/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.noteService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "note deleted successfully"})
}
