package services

import (
	"testing"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/utils"
	"gorm.io/gorm"
)

func init() {
	utils.SetJWTSecret("test-secret-for-auth-testing")
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, &config.JWTConfig{
		Secret:     "test-secret-for-auth-testing",
		ExpireHour: 24,
	})
}

func TestRegister_CreatesLocalUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(&RegisterRequest{
		Username: "freshman",
		Email:    "freshman@campus.test",
		Password: "secret123",
		FullName: "First Year",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if user.AuthType != "local" {
		t.Errorf("auth_type = %q, expected local", user.AuthType)
	}
	if user.Role != "user" {
		t.Errorf("role = %q, expected user", user.Role)
	}
	if user.Password == "secret123" {
		t.Error("password must be stored hashed")
	}
	if !utils.CheckPassword("secret123", user.Password) {
		t.Error("stored hash should verify against the original password")
	}
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	req := &RegisterRequest{Username: "dup", Email: "dup@campus.test", Password: "secret123"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first Register() error: %v", err)
	}
	if _, err := svc.Register(req); err == nil {
		t.Error("duplicate Register() should fail")
	}
}

func TestLogin_LocalSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	svc.Register(&RegisterRequest{Username: "alice", Email: "alice@campus.test", Password: "secret123"})

	result, err := svc.Login(&LoginRequest{Username: "alice", Password: "secret123"}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("access token should be issued")
	}
	if result.RefreshToken == "" {
		t.Error("refresh token should be issued")
	}
	if result.User.LastLogin == nil {
		t.Error("last_login should be updated")
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("token username = %q, expected alice", claims.Username)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	svc.Register(&RegisterRequest{Username: "alice", Email: "alice@campus.test", Password: "secret123"})

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "wrong"}, "", ""); err == nil {
		t.Error("Login() with a wrong password should fail")
	}
	if _, err := svc.Login(&LoginRequest{Username: "nobody", Password: "secret123"}, "", ""); err == nil {
		t.Error("Login() for an unknown user should fail")
	}
}

func TestLogin_DisabledUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, _ := svc.Register(&RegisterRequest{Username: "alice", Email: "alice@campus.test", Password: "secret123"})
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false)

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "secret123"}, "", ""); err == nil {
		t.Error("Login() for a disabled user should fail")
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	svc.Register(&RegisterRequest{Username: "alice", Email: "alice@campus.test", Password: "secret123"})
	login, err := svc.Login(&LoginRequest{Username: "alice", Password: "secret123"}, "", "")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	refreshed, err := svc.Refresh(login.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("Refresh() must rotate the refresh token")
	}

	// The old token is revoked and cannot be used again
	if _, err := svc.Refresh(login.RefreshToken, "", ""); err == nil {
		t.Error("a rotated refresh token must be rejected")
	}

	// The new one still works
	if _, err := svc.Refresh(refreshed.RefreshToken, "", ""); err != nil {
		t.Errorf("the replacement refresh token should work: %v", err)
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	svc.Register(&RegisterRequest{Username: "alice", Email: "alice@campus.test", Password: "secret123"})
	login, _ := svc.Login(&LoginRequest{Username: "alice", Password: "secret123"}, "", "")

	if err := svc.RevokeRefreshToken(login.RefreshToken); err != nil {
		t.Fatalf("RevokeRefreshToken() error: %v", err)
	}
	if _, err := svc.Refresh(login.RefreshToken, "", ""); err == nil {
		t.Error("a revoked refresh token must be rejected")
	}
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, _ := svc.Register(&RegisterRequest{Username: "alice", Email: "alice@campus.test", Password: "secret123"})

	err := svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newsecret"})
	if err == nil {
		t.Error("ChangePassword() with a wrong old password should fail")
	}

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "secret123", NewPassword: "newsecret"})
	if err != nil {
		t.Fatalf("ChangePassword() error: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "newsecret"}, "", ""); err != nil {
		t.Errorf("Login() with the new password should work: %v", err)
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("CreateAdminIfNotExists() error: %v", err)
	}

	var admin models.User
	if err := db.Where("username = ? AND role = ?", "admin", "admin").First(&admin).Error; err != nil {
		t.Fatalf("default admin missing: %v", err)
	}

	// Idempotent: a second call creates nothing new
	svc.CreateAdminIfNotExists()
	var count int64
	db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count != 1 {
		t.Errorf("admin rows = %d, expected 1", count)
	}
}
