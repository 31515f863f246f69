package middleware

import (
	"strings"
	"testing"
)

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		fullPath string
		method   string
		module   string
		action   string
	}{
		{"/api/classes/:id", "PUT", "Classes", "Update"},
		{"/api/classes", "POST", "Classes", "Create"},
		{"/api/join-requests/:id/approve", "POST", "Join Requests", "Create"},
		{"/api/users/:id", "DELETE", "Users", "Delete"},
		{"", "POST", "unknown", "Create"},
	}

	for _, tt := range tests {
		module, action := parseRouteInfo(tt.fullPath, tt.method)
		if module != tt.module {
			t.Errorf("parseRouteInfo(%q, %q) module = %q, expected %q", tt.fullPath, tt.method, module, tt.module)
		}
		if action != tt.action {
			t.Errorf("parseRouteInfo(%q, %q) action = %q, expected %q", tt.fullPath, tt.method, action, tt.action)
		}
	}
}

func TestMaskSensitiveFields(t *testing.T) {
	body := `{"username":"alice","password":"hunter2"}`
	masked := maskSensitiveFields(body)

	if strings.Contains(masked, "hunter2") {
		t.Errorf("password value should be masked, got %q", masked)
	}
	if !strings.Contains(masked, "alice") {
		t.Errorf("non-sensitive value should be preserved, got %q", masked)
	}
}

func TestMaskSensitiveFields_NoSensitiveKeys(t *testing.T) {
	body := `{"title":"Week 3 notes","content":"hello"}`
	if masked := maskSensitiveFields(body); masked != body {
		t.Errorf("body without sensitive keys should be unchanged, got %q", masked)
	}
}

func TestFormatAuditMessage(t *testing.T) {
	msg := formatAuditMessage("alice", "POST", "/api/classes", 201)
	if !strings.Contains(msg, "alice") || !strings.Contains(msg, "OK") {
		t.Errorf("unexpected audit message %q", msg)
	}

	msg = formatAuditMessage("bob", "DELETE", "/api/classes/1", 403)
	if !strings.Contains(msg, "Failed") {
		t.Errorf("expected Failed marker in %q", msg)
	}
}
