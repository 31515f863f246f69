package models

import "time"

// Member roles within a class
const (
	MemberRoleCreator = "creator"
	MemberRoleStudent = "student"
)

// ClassMember represents a user's membership and role within a class.
// One row per (class, user); exactly one member per class holds the creator role.
type ClassMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ClassID  uint      `gorm:"uniqueIndex:idx_class_user;not null" json:"class_id"`
	Class    *Class    `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	UserID   uint      `gorm:"uniqueIndex:idx_class_user;not null" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role     string    `gorm:"size:50;default:student" json:"role"` // creator, student
	JoinedAt time.Time `json:"joined_at"`
}

func (ClassMember) TableName() string { return "class_members" }
