package models

import (
	"time"

	"gorm.io/gorm"
)

// ClassEvent is a scheduled event (lecture, exam, meetup) within a class
type ClassEvent struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ClassID        uint           `gorm:"index;not null" json:"class_id"`
	AuthorID       uint           `gorm:"index;not null" json:"author_id"`
	Author         *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Location       string         `gorm:"size:255" json:"location"`
	StartsAt       time.Time      `gorm:"index;not null" json:"starts_at"`
	EndsAt         *time.Time     `json:"ends_at"`
	HolidayWarning string         `gorm:"size:200" json:"holiday_warning,omitempty"` // set when the date falls on a public holiday
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ClassEvent) TableName() string { return "class_events" }
