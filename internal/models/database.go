package models

import (
	"fmt"

	"github.com/campushub/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Class{},
		&ClassUnit{},
		&ClassMember{},
		&JoinRequest{},
		&Note{},
		&Assignment{},
		&ClassEvent{},
		&ChatMessage{},
		&Character{},
		&Achievement{},
		&UserAchievement{},
		&PointsLog{},
		&Notification{},
		&ActivityDigest{},
		&SystemConfig{},
		&SystemLog{},
		&SchedulerLock{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates static lookup data and default system configs if not exists
func SeedDefaultData() error {
	// Selectable characters, unlocked by accumulated points
	var characterCount int64
	DB.Model(&Character{}).Count(&characterCount)
	if characterCount == 0 {
		defaultCharacters := []Character{
			{Name: "Freshman Fox", Description: "Everyone starts somewhere.", Avatar: "characters/fox.png", MinPoints: 0},
			{Name: "Night Owl", Description: "Unlocked at 100 points.", Avatar: "characters/owl.png", MinPoints: 100},
			{Name: "Library Lion", Description: "Unlocked at 250 points.", Avatar: "characters/lion.png", MinPoints: 250},
			{Name: "Lab Raven", Description: "Unlocked at 500 points.", Avatar: "characters/raven.png", MinPoints: 500},
			{Name: "Campus Legend", Description: "Unlocked at 1000 points.", Avatar: "characters/legend.png", MinPoints: 1000},
		}
		for _, ch := range defaultCharacters {
			if err := DB.Create(&ch).Error; err != nil {
				return err
			}
		}
	}

	// Achievements granted by the points service when thresholds are crossed
	defaultAchievements := []Achievement{
		{Code: "first_steps", Name: "First Steps", Description: "Earn your first points", Threshold: 1},
		{Code: "contributor", Name: "Contributor", Description: "Reach 50 points", Threshold: 50},
		{Code: "scholar", Name: "Scholar", Description: "Reach 200 points", Threshold: 200},
		{Code: "mentor", Name: "Mentor", Description: "Reach 500 points", Threshold: 500},
		{Code: "campus_icon", Name: "Campus Icon", Description: "Reach 1000 points", Threshold: 1000},
	}
	for _, a := range defaultAchievements {
		var count int64
		DB.Model(&Achievement{}).Where("code = ?", a.Code).Count(&count)
		if count == 0 {
			if err := DB.Create(&a).Error; err != nil {
				return err
			}
		}
	}

	// Default system configs
	defaultConfigs := []SystemConfig{
		{Key: "ldap_enabled", Value: "false", Type: "bool", Group: "ldap", Label: "Enable LDAP Authentication"},
		{Key: "ldap_host", Value: "", Type: "string", Group: "ldap", Label: "LDAP Server Host"},
		{Key: "ldap_port", Value: "389", Type: "int", Group: "ldap", Label: "LDAP Server Port"},
		{Key: "ldap_base_dn", Value: "", Type: "string", Group: "ldap", Label: "LDAP Base DN"},
		{Key: "ldap_bind_dn", Value: "", Type: "string", Group: "ldap", Label: "LDAP Bind DN"},
		{Key: "ldap_bind_password", Value: "", Type: "string", Group: "ldap", Label: "LDAP Bind Password"},
		{Key: "ldap_user_filter", Value: "(uid=%s)", Type: "string", Group: "ldap", Label: "LDAP User Filter"},
		{Key: "ldap_use_ssl", Value: "false", Type: "bool", Group: "ldap", Label: "Use SSL/TLS"},
		{Key: "email_enabled", Value: "false", Type: "bool", Group: "email", Label: "Enable Email Notifications"},
		{Key: "email_host", Value: "", Type: "string", Group: "email", Label: "SMTP Host"},
		{Key: "email_port", Value: "587", Type: "int", Group: "email", Label: "SMTP Port"},
		{Key: "email_username", Value: "", Type: "string", Group: "email", Label: "SMTP Username"},
		{Key: "email_password", Value: "", Type: "string", Group: "email", Label: "SMTP Password"},
		{Key: "email_from", Value: "", Type: "string", Group: "email", Label: "Email From Address"},
		{Key: "email_use_tls", Value: "false", Type: "bool", Group: "email", Label: "Use TLS"},
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
		{Key: "join_request_retention_days", Value: "14", Type: "int", Group: "classes", Label: "Pending Join Request Expiry Days"},
		{Key: "leaderboard_size", Value: "20", Type: "int", Group: "gamification", Label: "Leaderboard Size"},
		{Key: "digest_enabled", Value: "false", Type: "bool", Group: "digest", Label: "Enable Weekly Activity Digest"},
		{Key: "digest_cron", Value: "0 8 * * 1", Type: "string", Group: "digest", Label: "Digest Cron Schedule"},
		{Key: "digest_skip_holidays", Value: "true", Type: "bool", Group: "digest", Label: "Skip Digest on Public Holidays"},
		{Key: "holiday_country", Value: "US", Type: "string", Group: "digest", Label: "Holiday Calendar Country"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("key = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
