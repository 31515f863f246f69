package services

import (
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

// requireMember checks the user belongs to the class.
func requireMember(db *gorm.DB, classID, userID uint) (*models.ClassMember, error) {
	var member models.ClassMember
	err := db.Where("class_id = ? AND user_id = ?", classID, userID).First(&member).Error
	if err == gorm.ErrRecordNotFound {
		return nil, response.NewForbidden("you are not a member of this class")
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// requireCreator checks the user holds the creator role in the class.
func requireCreator(db *gorm.DB, classID, userID uint) error {
	member, err := requireMember(db, classID, userID)
	if err != nil {
		return err
	}
	if member.Role != models.MemberRoleCreator {
		return response.NewForbidden("only the class creator can do this")
	}
	return nil
}
