package models

import (
	"time"

	"gorm.io/gorm"
)

// Note is shared study material within a class, optionally attached to a unit
type Note struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ClassID   uint           `gorm:"index;not null" json:"class_id"`
	UnitID    *uint          `gorm:"index" json:"unit_id"`
	AuthorID  uint           `gorm:"index;not null" json:"author_id"`
	Author    *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	FileKey   string         `gorm:"size:100" json:"file_key,omitempty"` // uuid-named upload under the upload dir
	FileName  string         `gorm:"size:255" json:"file_name,omitempty"`
	FileSize  int64          `json:"file_size,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Note) TableName() string { return "notes" }
