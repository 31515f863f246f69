package models

import "time"

// Activities that award points
const (
	ActivityJoinClass      = "join_class"
	ActivityUploadNote     = "upload_note"
	ActivityPostAssignment = "post_assignment"
	ActivityCreateEvent    = "create_event"
	ActivityChatMessage    = "chat_message"
)

// PointsLog records every points award; users.points is the running total
type PointsLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Activity  string    `gorm:"size:50;index;not null" json:"activity"`
	Delta     int       `gorm:"not null" json:"delta"`
	RefType   string    `gorm:"size:32" json:"ref_type,omitempty"` // class, note, assignment, event, message
	RefID     uint      `json:"ref_id,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (PointsLog) TableName() string { return "points_logs" }
