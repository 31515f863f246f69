package models

import "time"

// Join request lifecycle: pending -> approved (terminal) or pending -> rejected.
// A rejected user may submit again; the old row stays as history.
const (
	JoinRequestPending  = "pending"
	JoinRequestApproved = "approved"
	JoinRequestRejected = "rejected"
)

type JoinRequest struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ClassID         uint       `gorm:"index;not null" json:"class_id"`
	Class           *Class     `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	UserID          uint       `gorm:"index;not null" json:"user_id"`
	User            *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RequesterName   string     `gorm:"size:200;not null" json:"requester_name"`
	RequesterEmail  string     `gorm:"size:255;not null" json:"requester_email"`
	Message         string     `gorm:"size:1000" json:"message"`
	Status          string     `gorm:"size:20;index;default:pending" json:"status"`
	RejectionReason string     `gorm:"size:500" json:"rejection_reason,omitempty"`
	RequestedAt     time.Time  `gorm:"index" json:"requested_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
}

func (JoinRequest) TableName() string { return "class_join_requests" }
