package services

import (
	"testing"
	"time"

	"github.com/campushub/backend/internal/models"
)

func TestGenerate_CodeShape(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassCodeService(db)

	for i := 0; i < 20; i++ {
		code, err := svc.Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if len(code) != ClassCodeLength {
			t.Errorf("code %q has length %d, expected %d", code, len(code), ClassCodeLength)
		}
		for _, c := range code {
			if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
				t.Errorf("code %q contains invalid character %q", code, c)
			}
		}
	}
}

func TestRandomCode_CoversFullAlphabet(t *testing.T) {
	seen := make(map[byte]bool)
	for i := 0; i < 500; i++ {
		code, err := randomCode()
		if err != nil {
			t.Fatalf("randomCode() error: %v", err)
		}
		if len(code) != ClassCodeLength {
			t.Fatalf("code %q has length %d, expected %d", code, len(code), ClassCodeLength)
		}
		for j := 0; j < len(code); j++ {
			seen[code[j]] = true
		}
	}

	// 3000 uniform draws miss a given character with negligible odds
	for i := 0; i < len(classCodeAlphabet); i++ {
		if !seen[classCodeAlphabet[i]] {
			t.Errorf("character %q never drawn", classCodeAlphabet[i])
		}
	}
}

func TestGenerate_AvoidsActiveCodes(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassCodeService(db)
	creator := createTestUser(t, db, "creator")

	existing := &models.Class{
		Name:          "Algorithms",
		ClassCode:     "AB12CD",
		CodeCreatedAt: time.Now(),
		CreatorID:     creator.ID,
		IsActive:      true,
	}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}

	for i := 0; i < 50; i++ {
		code, err := svc.Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if code == "AB12CD" {
			t.Fatal("Generate() returned a code already used by an active class")
		}
	}
}

func TestIsValid_UnknownCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassCodeService(db)

	if svc.IsValid("ZZZZZZ") {
		t.Error("IsValid() should be false for an unknown code")
	}
	if svc.IsValid("TOOLONGCODE") {
		t.Error("IsValid() should be false for a malformed code")
	}
}

func TestIsValid_InactiveClass(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassCodeService(db)
	creator := createTestUser(t, db, "creator")

	class := &models.Class{
		Name:          "Archived",
		ClassCode:     "XY34ZW",
		CodeCreatedAt: time.Now(),
		CreatorID:     creator.ID,
		IsActive:      false,
	}
	if err := db.Create(class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}

	if svc.IsValid("XY34ZW") {
		t.Error("IsValid() should be false for an inactive class")
	}
}

func TestIsValid_ExpiryBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassCodeService(db)
	creator := createTestUser(t, db, "creator")

	makeClass := func(code string, expiresAt time.Time) {
		t.Helper()
		class := &models.Class{
			Name:          "Class " + code,
			ClassCode:     code,
			CodeExpires:   true,
			CodeExpiresAt: &expiresAt,
			CodeCreatedAt: time.Now(),
			CreatorID:     creator.ID,
			IsActive:      true,
		}
		if err := db.Create(class).Error; err != nil {
			t.Fatalf("failed to create class: %v", err)
		}
	}

	// Still inside the window
	makeClass("AAAA11", time.Now().Add(time.Hour))
	if !svc.IsValid("AAAA11") {
		t.Error("code should be valid before its expiry")
	}

	// Past the deadline
	makeClass("BBBB22", time.Now().Add(-time.Second))
	if svc.IsValid("BBBB22") {
		t.Error("code should be invalid at or after its expiry")
	}
}

func TestIsValid_FailsClosedWithoutDeadline(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassCodeService(db)
	creator := createTestUser(t, db, "creator")

	class := &models.Class{
		Name:          "Broken Window",
		ClassCode:     "CCCC33",
		CodeExpires:   true,
		CodeExpiresAt: nil,
		CodeCreatedAt: time.Now(),
		CreatorID:     creator.ID,
		IsActive:      true,
	}
	if err := db.Create(class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}

	if svc.IsValid("CCCC33") {
		t.Error("IsValid() must fail closed when code_expires is set but no deadline exists")
	}
}

func TestRotate_ReplacesCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassCodeService(db)
	creator := createTestUser(t, db, "creator")

	class := &models.Class{
		Name:          "Databases",
		ClassCode:     "DDDD44",
		CodeCreatedAt: time.Now(),
		CreatorID:     creator.ID,
		IsActive:      true,
	}
	if err := db.Create(class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}

	expiresAt := time.Now().Add(48 * time.Hour)
	if _, err := svc.Rotate(class.ID, &expiresAt); err != nil {
		t.Fatalf("Rotate() error: %v", err)
	}

	var updated models.Class
	if err := db.First(&updated, class.ID).Error; err != nil {
		t.Fatalf("failed to reload class: %v", err)
	}

	if updated.ClassCode == "DDDD44" {
		t.Error("Rotate() should replace the old code")
	}
	if len(updated.ClassCode) != ClassCodeLength {
		t.Errorf("rotated code %q has wrong length", updated.ClassCode)
	}
	if !updated.CodeExpires || updated.CodeExpiresAt == nil {
		t.Error("Rotate() with a deadline should enable expiry")
	}
	if svc.IsValid("DDDD44") {
		t.Error("the old code should no longer be valid")
	}
	if !svc.IsValid(updated.ClassCode) {
		t.Error("the new code should be valid")
	}
}
