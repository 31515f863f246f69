package services

import (
	"strings"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type ChatService struct {
	db     *gorm.DB
	points *PointsService
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{
		db:     db,
		points: NewPointsService(db, NewNotificationService(db)),
	}
}

type PostMessageRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

type ChatListRequest struct {
	Before   *uint `form:"before"` // return messages older than this id
	PageSize int   `form:"page_size" binding:"min=1,max=100"`
}

type ChatListResponse struct {
	Items   []models.ChatMessage `json:"items"`
	HasMore bool                 `json:"has_more"`
}

// Post stores a chat message, broadcasts it over SSE and awards a point.
// Members only.
func (s *ChatService) Post(classID uint, req *PostMessageRequest, userID uint) (*models.ChatMessage, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, response.NewBadRequest("message body cannot be empty")
	}

	msg := models.ChatMessage{
		ClassID: classID,
		UserID:  userID,
		Body:    body,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&msg, msg.ID).Error; err != nil {
		return nil, err
	}

	PublishChatMessage(classID, msg)

	if err := s.points.Award(userID, models.ActivityChatMessage, "chat_message", msg.ID); err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("failed to award chat points")
	}

	return &msg, nil
}

// List returns a class's messages newest first, keyset-paginated by id.
// Members only.
func (s *ChatService) List(classID uint, userID uint, req *ChatListRequest) (*ChatListResponse, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}

	if req.PageSize == 0 {
		req.PageSize = 50
	}

	query := s.db.Model(&models.ChatMessage{}).Where("class_id = ?", classID)
	if req.Before != nil {
		query = query.Where("id < ?", *req.Before)
	}

	var messages []models.ChatMessage
	// Fetch one extra row to learn whether older messages remain
	if err := query.Preload("User").
		Order("id DESC").
		Limit(req.PageSize + 1).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	hasMore := false
	if len(messages) > req.PageSize {
		hasMore = true
		messages = messages[:req.PageSize]
	}

	return &ChatListResponse{Items: messages, HasMore: hasMore}, nil
}
