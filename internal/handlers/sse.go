package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/internal/utils"
	"github.com/campushub/backend/pkg/logger"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SSEHandler streams real-time events (chat, notifications, join updates)
type SSEHandler struct {
	db  *gorm.DB
	hub *services.SSEHub
}

func NewSSEHandler(db *gorm.DB, hub *services.SSEHub) *SSEHandler {
	return &SSEHandler{db: db, hub: hub}
}

// Stream handles an SSE connection. EventSource cannot set headers, so
// the token may come as a query parameter instead.
// GET /api/events/stream
func (h *SSEHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if token == "" {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		response.Unauthorized(c, "Invalid token")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// Class events are routed by membership, captured at connect time
	var classIDs []uint
	if err := h.db.Model(&models.ClassMember{}).
		Where("user_id = ?", claims.UserID).
		Pluck("class_id", &classIDs).Error; err != nil {
		logger.Error().Err(err).Uint("user_id", claims.UserID).Msg("SSE membership lookup failed")
	}

	clientID := uuid.New().String()

	events := h.hub.Subscribe(clientID, claims.UserID, classIDs)
	defer h.hub.Unsubscribe(clientID)

	logger.Info().Str("client_id", clientID).Uint("user_id", claims.UserID).
		Int("total", h.hub.ClientCount()).Msg("SSE client connected")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error().Err(err).Msg("SSE marshal error")
				return true
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			c.Writer.Flush()
			return true
		case <-c.Request.Context().Done():
			logger.Info().Str("client_id", clientID).Msg("SSE client disconnected")
			return false
		}
	})
}
