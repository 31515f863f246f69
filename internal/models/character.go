package models

import "time"

// Character is a selectable profile character, unlocked by accumulated points.
// Rows are seeded at startup and treated as a static lookup table.
type Character struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	Avatar      string    `gorm:"size:500" json:"avatar"`
	MinPoints   int       `gorm:"default:0" json:"min_points"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Character) TableName() string { return "characters" }
