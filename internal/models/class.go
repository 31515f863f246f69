package models

import (
	"time"

	"gorm.io/gorm"
)

// Class represents a class with a short join code
type Class struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:200;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	ClassCode     string         `gorm:"uniqueIndex;size:6;not null" json:"class_code"` // 6 chars, [A-Z0-9]
	CodeExpires   bool           `gorm:"default:false" json:"code_expires"`
	CodeExpiresAt *time.Time     `json:"code_expires_at"`
	CodeCreatedAt time.Time      `json:"code_created_at"`
	CreatorID     uint           `gorm:"index;not null" json:"creator_id"` // exactly one creator at any time
	Creator       *User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Class) TableName() string { return "classes" }
