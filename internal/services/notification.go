package services

import (
	"context"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

// NotificationService writes in-app notifications and hands delivery
// (SSE push, email) to the task queue.
type NotificationService struct {
	db    *gorm.DB
	email *EmailService
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db:    db,
		email: NewEmailService(db),
	}
}

// Notify stores a notification and enqueues its delivery. The stored row
// is the source of truth; delivery failures are logged and retried by the
// queue but never bubble up to the triggering operation.
func (s *NotificationService) Notify(userID uint, notifType, title, message, refType string, refID uint) {
	n := models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&n).Error; err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("failed to store notification")
		return
	}

	queue := GetTaskQueue()
	if queue == nil {
		// No queue in tests; deliver inline
		s.Deliver(context.Background(), &NotificationTask{
			NotificationID: n.ID,
			UserID:         userID,
			Type:           notifType,
			Title:          title,
			Message:        message,
			RefType:        refType,
			RefID:          refID,
		})
		return
	}

	err := queue.Enqueue(&NotificationTask{
		NotificationID: n.ID,
		UserID:         userID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		RefType:        refType,
		RefID:          refID,
	})
	if err != nil {
		logger.Error().Err(err).Uint("notification_id", n.ID).Msg("failed to enqueue notification delivery")
	}
}

// Deliver pushes a stored notification out over SSE and email.
// Registered as the task queue processor.
func (s *NotificationService) Deliver(ctx context.Context, task *NotificationTask) error {
	GetSSEHub().PublishToUser(task.UserID, Event{
		Type:   "notification",
		UserID: task.UserID,
		Payload: map[string]interface{}{
			"id":       task.NotificationID,
			"type":     task.Type,
			"title":    task.Title,
			"message":  task.Message,
			"ref_type": task.RefType,
			"ref_id":   task.RefID,
		},
	})

	var user models.User
	if err := s.db.First(&user, task.UserID).Error; err != nil {
		return err
	}
	return s.email.SendNotification(user.Email, task.Title, task.Message)
}

type NotificationListRequest struct {
	Page       int   `form:"page" binding:"min=1"`
	PageSize   int   `form:"page_size" binding:"min=1,max=100"`
	UnreadOnly *bool `form:"unread_only"`
}

type NotificationListResponse struct {
	Total    int64                 `json:"total"`
	Unread   int64                 `json:"unread"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.Notification `json:"items"`
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(userID uint, req *NotificationListRequest) (*NotificationListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if req.UnreadOnly != nil && *req.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var unread int64
	s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread)

	var items []models.Notification
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &NotificationListResponse{
		Total:    total,
		Unread:   unread,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// MarkRead marks one notification as read. Scoped to the owner.
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("notification not found")
	}
	return nil
}

// MarkAllRead marks every unread notification of a user as read.
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}
