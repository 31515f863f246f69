package handlers

import (
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClassUnitHandler struct {
	unitService *services.ClassUnitService
}

func NewClassUnitHandler(db *gorm.DB) *ClassUnitHandler {
	return &ClassUnitHandler{
		unitService: services.NewClassUnitService(db),
	}
}

// List returns a class's units in display order
// GET /api/classes/:id/units
func (h *ClassUnitHandler) List(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	units, err := h.unitService.List(classID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"units": units})
}

// Create adds a unit to a class. Creator only.
// POST /api/classes/:id/units
func (h *ClassUnitHandler) Create(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.Create(classID, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, unit)
}

// Update modifies a unit. Creator only.
// PUT /api/units/:id
func (h *ClassUnitHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.Update(id, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, unit)
}

// Delete removes a unit, detaching its notes and assignments
// DELETE /api/units/:id
func (h *ClassUnitHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.unitService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "unit deleted successfully"})
}
