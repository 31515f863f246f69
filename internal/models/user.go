package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform user profile
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password    string         `gorm:"size:255" json:"-"` // Hashed password, empty for LDAP users
	Email       string         `gorm:"uniqueIndex;size:255" json:"email"`
	FullName    string         `gorm:"size:200" json:"full_name"`
	Avatar      string         `gorm:"size:500" json:"avatar"`
	Role        string         `gorm:"size:50;default:user" json:"role"`       // admin, user
	AuthType    string         `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	Points      int            `gorm:"default:0" json:"points"`                // mutated only via atomic SQL increments
	CharacterID *uint          `json:"character_id"`
	Character   *Character     `gorm:"foreignKey:CharacterID" json:"character,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLogin   *time.Time     `json:"last_login"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
