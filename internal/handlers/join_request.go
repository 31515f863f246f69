package handlers

import (
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type JoinRequestHandler struct {
	joinService *services.JoinRequestService
	codeService *services.ClassCodeService
}

func NewJoinRequestHandler(db *gorm.DB) *JoinRequestHandler {
	return &JoinRequestHandler{
		joinService: services.NewJoinRequestService(db),
		codeService: services.NewClassCodeService(db),
	}
}

// Submit redeems a join code and creates a pending request
// POST /api/join-requests
func (h *JoinRequestHandler) Submit(c *gin.Context) {
	var req services.SubmitJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	request, err := h.joinService.Submit(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

type checkCodeRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// CheckCode previews the class behind a join code without creating a request
// POST /api/join-requests/check-code
func (h *JoinRequestHandler) CheckCode(c *gin.Context) {
	var req checkCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	class, err := h.codeService.Resolve(req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"class_id":    class.ID,
		"name":        class.Name,
		"description": class.Description,
	})
}

// Approve accepts a pending request and enrolls the requester
// POST /api/join-requests/:id/approve
func (h *JoinRequestHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.joinService.Approve(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, request)
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// Reject declines a pending request with a reason
// POST /api/join-requests/:id/reject
func (h *JoinRequestHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	request, err := h.joinService.Reject(id, middleware.GetUserID(c), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, request)
}

// Status returns the caller's latest request for a class
// GET /api/classes/:id/join-requests/status
func (h *JoinRequestHandler) Status(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.joinService.StatusFor(classID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, request)
}

// ListForClass returns a class's join requests for moderation
// GET /api/classes/:id/join-requests
func (h *JoinRequestHandler) ListForClass(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.JoinRequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.joinService.ListForClass(classID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}
