package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment is coursework shared within a class
type Assignment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ClassID     uint           `gorm:"index;not null" json:"class_id"`
	UnitID      *uint          `gorm:"index" json:"unit_id"`
	AuthorID    uint           `gorm:"index;not null" json:"author_id"`
	Author      *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	DueAt       *time.Time     `gorm:"index" json:"due_at"`
	FileKey     string         `gorm:"size:100" json:"file_key,omitempty"`
	FileName    string         `gorm:"size:255" json:"file_name,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Assignment) TableName() string { return "assignments" }
