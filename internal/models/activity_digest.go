package models

import "time"

// ActivityDigest stores a generated weekly activity summary
type ActivityDigest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PeriodStart time.Time `gorm:"index;not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null" json:"period_end"`
	Content     string    `gorm:"type:text" json:"content"` // rendered digest body
	Stats       string    `gorm:"type:text" json:"stats"`   // JSON aggregate numbers
	SentTo      string    `gorm:"size:1000" json:"sent_to"` // comma-separated recipients, empty if email disabled
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (ActivityDigest) TableName() string { return "activity_digests" }
