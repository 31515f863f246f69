package services

import (
	"crypto/rand"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

const (
	// ClassCodeLength is the fixed length of a join code.
	ClassCodeLength = 6

	classCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts bounds collision retries before giving up.
	maxCodeAttempts = 10
)

type ClassCodeService struct {
	db *gorm.DB
}

func NewClassCodeService(db *gorm.DB) *ClassCodeService {
	return &ClassCodeService{db: db}
}

// Generate returns a join code that is unused among active classes.
// Collisions are retried silently up to maxCodeAttempts.
func (s *ClassCodeService) Generate() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		var count int64
		if err := s.db.Model(&models.Class{}).
			Where("class_code = ? AND is_active = ?", code, true).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", response.NewServerError("failed to generate a unique class code, please try again")
}

// randomCode draws ClassCodeLength characters uniformly from the code
// alphabet. Bytes of 252 and above are rejected; 252 is the largest
// multiple of the alphabet size below 256, so the modulo stays unbiased.
func randomCode() (string, error) {
	const limit = 252
	code := make([]byte, 0, ClassCodeLength)
	buf := make([]byte, 2*ClassCodeLength)
	for len(code) < ClassCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, classCodeAlphabet[int(b)%len(classCodeAlphabet)])
			if len(code) == ClassCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// IsValid reports whether a code can currently be redeemed.
// It fails closed: unknown codes, inactive classes and expired or
// misconfigured expiry windows are all invalid.
func (s *ClassCodeService) IsValid(code string) bool {
	_, err := s.Resolve(code)
	return err == nil
}

// Resolve finds the class behind a code and checks its validity window.
func (s *ClassCodeService) Resolve(code string) (*models.Class, error) {
	if len(code) != ClassCodeLength {
		return nil, response.NewNotFound("invalid class code")
	}

	var class models.Class
	err := s.db.Where("class_code = ? AND is_active = ?", code, true).First(&class).Error
	if err == gorm.ErrRecordNotFound {
		return nil, response.NewNotFound("invalid class code")
	}
	if err != nil {
		return nil, err
	}

	if class.CodeExpires {
		// No deadline set counts as expired
		if class.CodeExpiresAt == nil {
			return nil, response.NewNotFound("class code has expired")
		}
		if !time.Now().Before(*class.CodeExpiresAt) {
			return nil, response.NewNotFound("class code has expired")
		}
	}

	return &class, nil
}

// Rotate assigns a fresh code to a class, optionally with an expiry window.
func (s *ClassCodeService) Rotate(classID uint, expiresAt *time.Time) (*models.Class, error) {
	var class models.Class
	if err := s.db.First(&class, classID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("class not found")
		}
		return nil, err
	}

	code, err := s.Generate()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"class_code":      code,
		"code_expires":    expiresAt != nil,
		"code_expires_at": expiresAt,
		"code_created_at": time.Now(),
	}
	if err := s.db.Model(&class).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &class, nil
}
