package models

import "time"

// Achievement is a seeded points-threshold badge definition
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	Threshold   int       `gorm:"not null" json:"threshold"` // points required
	CreatedAt   time.Time `json:"created_at"`
}

func (Achievement) TableName() string { return "achievements" }

// UserAchievement records a badge earned by a user; one row per (user, achievement)
type UserAchievement struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	UserID          uint         `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementCode string       `gorm:"uniqueIndex:idx_user_achievement;size:50;not null" json:"achievement_code"`
	Achievement     *Achievement `gorm:"foreignKey:AchievementCode;references:Code" json:"achievement,omitempty"`
	EarnedAt        time.Time    `json:"earned_at"`
}

func (UserAchievement) TableName() string { return "user_achievements" }
