package models

import "time"

// Notification types
const (
	NotificationJoinApproved = "join_approved"
	NotificationJoinRejected = "join_rejected"
	NotificationRoleTransfer = "role_transfer"
	NotificationAchievement  = "achievement"
)

// Notification is an in-app notification for a user
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Type      string     `gorm:"size:32;index" json:"type"`
	Title     string     `gorm:"size:200" json:"title"`
	Message   string     `gorm:"size:1000" json:"message"`
	RefType   string     `gorm:"size:32" json:"ref_type,omitempty"` // class, join_request, achievement
	RefID     uint       `json:"ref_id,omitempty"`
	IsRead    bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
