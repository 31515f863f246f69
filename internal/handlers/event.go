package handlers

import (
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventHandler struct {
	eventService   *services.ClassEventService
	holidayService *services.HolidayService
}

func NewEventHandler(db *gorm.DB, holidays *services.HolidayService) *EventHandler {
	return &EventHandler{
		eventService:   services.NewClassEventService(db, holidays),
		holidayService: holidays,
	}
}

// List returns a class's events in chronological order
// GET /api/classes/:id/events
func (h *EventHandler) List(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	events, err := h.eventService.List(classID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"events": events})
}

// Create schedules an event
// POST /api/classes/:id/events
func (h *EventHandler) Create(c *gin.Context) {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Create(classID, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, event)
}

// Update modifies an event. Author or class creator only.
// PUT /api/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Update(id, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, event)
}

// Delete removes an event. Author or class creator only.
// DELETE /api/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "event deleted successfully"})
}

// Countries lists the countries with supported holiday calendars
// GET /api/events/countries
func (h *EventHandler) Countries(c *gin.Context) {
	response.Success(c, gin.H{"countries": h.holidayService.GetSupportedCountries()})
}
