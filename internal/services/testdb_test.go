package services

import (
	"errors"
	"testing"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A second pooled connection would see an empty in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Class{},
		&models.ClassMember{},
		&models.JoinRequest{},
		&models.ClassUnit{},
		&models.Note{},
		&models.Assignment{},
		&models.ClassEvent{},
		&models.ChatMessage{},
		&models.Character{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.PointsLog{},
		&models.Notification{},
		&models.ActivityDigest{},
		&models.SystemConfig{},
		&models.SystemLog{},
		&models.SchedulerLock{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser inserts a user and returns it.
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@campus.test",
		Password: "x",
		Role:     "user",
		AuthType: "local",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

// assertConflict fails the test unless err is a 409 application error.
func assertConflict(t *testing.T, err error) {
	t.Helper()

	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected an AppError, got %T: %v", err, err)
	}
	if appErr.Code != 409 {
		t.Errorf("error code = %d, expected 409 (message: %s)", appErr.Code, appErr.Message)
	}
}
