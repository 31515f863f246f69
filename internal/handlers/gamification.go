package handlers

import (
	"strconv"

	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GamificationHandler exposes the points leaderboard, characters and
// achievements.
type GamificationHandler struct {
	pointsService *services.PointsService
}

func NewGamificationHandler(db *gorm.DB) *GamificationHandler {
	return &GamificationHandler{
		pointsService: services.NewPointsService(db, services.NewNotificationService(db)),
	}
}

// Leaderboard returns the campus points ranking
// GET /api/leaderboard
func (h *GamificationHandler) Leaderboard(c *gin.Context) {
	entries, err := h.pointsService.Leaderboard()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"entries": entries})
}

// Characters lists all unlockable characters with their thresholds
// GET /api/characters
func (h *GamificationHandler) Characters(c *gin.Context) {
	characters, err := h.pointsService.ListCharacters()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"characters": characters})
}

// Achievements returns all achievements with the caller's earned flags
// GET /api/achievements
func (h *GamificationHandler) Achievements(c *gin.Context) {
	achievements, err := h.pointsService.ListAchievements(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"achievements": achievements})
}

// SelectCharacter sets the caller's character if unlocked
// POST /api/characters/:id/select
func (h *GamificationHandler) SelectCharacter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	character, err := h.pointsService.SelectCharacter(middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"character": character})
}

// History returns the caller's recent points log
// GET /api/points/history
func (h *GamificationHandler) History(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	history, err := h.pointsService.History(middleware.GetUserID(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"history": history})
}
