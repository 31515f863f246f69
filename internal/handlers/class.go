package handlers

import (
	"strconv"
	"time"

	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClassHandler struct {
	classService *services.ClassService
}

func NewClassHandler(db *gorm.DB) *ClassHandler {
	return &ClassHandler{
		classService: services.NewClassService(db),
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// List returns paginated classes
// GET /api/classes
func (h *ClassHandler) List(c *gin.Context) {
	var req services.ClassListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.classService.List(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a class by ID
// GET /api/classes/:id
func (h *ClassHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.classService.GetDetail(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, detail)
}

// Create creates a class; the caller becomes its creator and first member
// POST /api/classes
func (h *ClassHandler) Create(c *gin.Context) {
	var req services.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	class, err := h.classService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, class)
}

// Update updates a class. Creator only.
// PUT /api/classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	class, err := h.classService.Update(id, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, class)
}

// Delete removes a class and its memberships. Creator only.
// DELETE /api/classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.classService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "class deleted successfully"})
}

type regenerateCodeRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

// RegenerateCode rotates the class join code. Creator only.
// POST /api/classes/:id/regenerate-code
func (h *ClassHandler) RegenerateCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req regenerateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	class, err := h.classService.RegenerateCode(id, middleware.GetUserID(c), req.ExpiresAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, class)
}

// ListMembers returns a class's roster
// GET /api/classes/:id/members
func (h *ClassHandler) ListMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.classService.ListMembers(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"members": members})
}

// RemoveMember removes a member, or lets a student leave
// DELETE /api/classes/:id/members/:userId
func (h *ClassHandler) RemoveMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.classService.RemoveMember(id, targetID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed"})
}

// Transfer hands the creator role to another member
// POST /api/classes/:id/transfer
func (h *ClassHandler) Transfer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.TransferCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	class, err := h.classService.TransferCreator(id, middleware.GetUserID(c), req.TargetEmail)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, class)
}
