package services

import (
	"testing"
)

func TestSystemConfig_SetAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemConfigService(db)

	if err := svc.Set("leaderboard_size", "20"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	value, err := svc.Get("leaderboard_size")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if value != "20" {
		t.Errorf("Get() = %q, expected %q", value, "20")
	}

	// Overwrite
	if err := svc.Set("leaderboard_size", "50"); err != nil {
		t.Fatalf("Set() update error: %v", err)
	}
	if value, _ := svc.Get("leaderboard_size"); value != "50" {
		t.Errorf("Get() after update = %q, expected %q", value, "50")
	}
}

func TestSystemConfig_GetWithDefault(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemConfigService(db)

	if value := svc.GetWithDefault("missing_key", "fallback"); value != "fallback" {
		t.Errorf("GetWithDefault() = %q, expected %q", value, "fallback")
	}

	svc.Set("present_key", "real")
	if value := svc.GetWithDefault("present_key", "fallback"); value != "real" {
		t.Errorf("GetWithDefault() = %q, expected %q", value, "real")
	}
}

func TestSystemConfig_GetIntWithDefault(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemConfigService(db)

	if n := svc.GetIntWithDefault("missing", 14); n != 14 {
		t.Errorf("GetIntWithDefault() = %d, expected 14", n)
	}

	svc.Set("join_request_retention_days", "7")
	if n := svc.GetIntWithDefault("join_request_retention_days", 14); n != 7 {
		t.Errorf("GetIntWithDefault() = %d, expected 7", n)
	}

	svc.Set("not_a_number", "abc")
	if n := svc.GetIntWithDefault("not_a_number", 3); n != 3 {
		t.Errorf("GetIntWithDefault() with bad value = %d, expected 3", n)
	}
}

func TestLDAPConfigResponse_Defaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemConfigService(db)

	cfg := svc.GetLDAPConfig()

	if cfg.Enabled {
		t.Error("Enabled should be false by default")
	}
	if cfg.Port != 389 {
		t.Errorf("default port should be 389, got %d", cfg.Port)
	}
	if cfg.UserFilter != "(uid=%s)" {
		t.Errorf("default UserFilter should be (uid=%%s), got %s", cfg.UserFilter)
	}
	if cfg.PasswordSet {
		t.Error("PasswordSet should be false by default")
	}
}

func TestUpdateLDAPConfig_PartialUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemConfigService(db)

	enabled := true
	host := "ldap.campus.test"
	port := 636

	err := svc.UpdateLDAPConfig(&UpdateLDAPConfigRequest{
		Enabled: &enabled,
		Host:    &host,
		Port:    &port,
	})
	if err != nil {
		t.Fatalf("UpdateLDAPConfig() error: %v", err)
	}

	cfg := svc.GetLDAPConfig()
	if !cfg.Enabled {
		t.Error("Enabled should be true after update")
	}
	if cfg.Host != "ldap.campus.test" {
		t.Errorf("Host = %q, expected %q", cfg.Host, "ldap.campus.test")
	}
	if cfg.Port != 636 {
		t.Errorf("Port = %d, expected 636", cfg.Port)
	}
	// Untouched fields keep defaults
	if cfg.UserFilter != "(uid=%s)" {
		t.Errorf("UserFilter should keep default, got %s", cfg.UserFilter)
	}
}

func TestUpdateEmailConfig_PasswordNotCleared(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemConfigService(db)

	password := "smtp-secret"
	if err := svc.UpdateEmailConfig(&UpdateEmailConfigRequest{Password: &password}); err != nil {
		t.Fatalf("UpdateEmailConfig() error: %v", err)
	}

	// An empty password in a later update must not clear the stored one
	empty := ""
	host := "smtp.campus.test"
	if err := svc.UpdateEmailConfig(&UpdateEmailConfigRequest{Password: &empty, SMTPHost: &host}); err != nil {
		t.Fatalf("UpdateEmailConfig() second error: %v", err)
	}

	cfg := svc.GetEmailConfig()
	if !cfg.PasswordSet {
		t.Error("PasswordSet should remain true after empty-password update")
	}
	if cfg.SMTPHost != "smtp.campus.test" {
		t.Errorf("SMTPHost = %q, expected %q", cfg.SMTPHost, "smtp.campus.test")
	}
}
