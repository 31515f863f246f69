package services

import (
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type ClassService struct {
	db       *gorm.DB
	codes    *ClassCodeService
	notifier *NotificationService
}

func NewClassService(db *gorm.DB) *ClassService {
	return &ClassService{
		db:       db,
		codes:    NewClassCodeService(db),
		notifier: NewNotificationService(db),
	}
}

type ClassListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Name     string `form:"name"`
	Mine     bool   `form:"mine"`
}

type ClassListResponse struct {
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []models.Class `json:"items"`
}

type CreateClassRequest struct {
	Name          string     `json:"name" binding:"required,max=200"`
	Description   string     `json:"description" binding:"max=2000"`
	CodeExpiresAt *time.Time `json:"code_expires_at"`
}

type UpdateClassRequest struct {
	Name        string `json:"name" binding:"omitempty,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool  `json:"is_active"`
}

// List returns paginated classes. With Mine set, only classes the user
// belongs to are returned.
func (s *ClassService) List(req *ClassListRequest, userID uint) (*ClassListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var classes []models.Class
	var total int64

	query := s.db.Model(&models.Class{})

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Mine {
		query = query.Where("id IN (?)",
			s.db.Model(&models.ClassMember{}).Select("class_id").Where("user_id = ?", userID))
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Creator").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&classes).Error; err != nil {
		return nil, err
	}

	return &ClassListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    classes,
	}, nil
}

// GetByID returns a class with its creator preloaded
func (s *ClassService) GetByID(id uint) (*models.Class, error) {
	var class models.Class
	if err := s.db.Preload("Creator").First(&class, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("class not found")
		}
		return nil, err
	}
	return &class, nil
}

type ClassDetail struct {
	models.Class
	MemberCount int64              `json:"member_count"`
	Units       []models.ClassUnit `json:"units"`
}

// GetDetail returns a class with its member count and ordered units
func (s *ClassService) GetDetail(id uint) (*ClassDetail, error) {
	class, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	detail := ClassDetail{Class: *class}
	s.db.Model(&models.ClassMember{}).Where("class_id = ?", id).Count(&detail.MemberCount)
	if err := s.db.Where("class_id = ?", id).
		Order("order_index ASC").
		Find(&detail.Units).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create makes a new class with a fresh join code and registers the
// creating user as its creator member.
func (s *ClassService) Create(req *CreateClassRequest, userID uint) (*models.Class, error) {
	code, err := s.codes.Generate()
	if err != nil {
		return nil, err
	}

	class := models.Class{
		Name:          req.Name,
		Description:   req.Description,
		ClassCode:     code,
		CodeExpires:   req.CodeExpiresAt != nil,
		CodeExpiresAt: req.CodeExpiresAt,
		CodeCreatedAt: time.Now(),
		CreatorID:     userID,
		IsActive:      true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&class).Error; err != nil {
			return err
		}
		member := models.ClassMember{
			ClassID:  class.ID,
			UserID:   userID,
			Role:     models.MemberRoleCreator,
			JoinedAt: time.Now(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return &class, nil
}

// Update modifies class metadata. Only the creator may update.
func (s *ClassService) Update(id uint, req *UpdateClassRequest, actorID uint) (*models.Class, error) {
	class, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if class.CreatorID != actorID {
		return nil, response.NewForbidden("only the class creator can update the class")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(class).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return class, nil
}

// Delete soft-deletes a class and its owned rows. Creator only.
func (s *ClassService) Delete(id uint, actorID uint) error {
	class, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if class.CreatorID != actorID {
		return response.NewForbidden("only the class creator can delete the class")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", id).Delete(&models.ClassUnit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", id).Delete(&models.ClassMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Class{}, id).Error
	})
}

// RegenerateCode rotates the join code. Creator only.
func (s *ClassService) RegenerateCode(id uint, actorID uint, expiresAt *time.Time) (*models.Class, error) {
	class, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if class.CreatorID != actorID {
		return nil, response.NewForbidden("only the class creator can regenerate the code")
	}
	return s.codes.Rotate(id, expiresAt)
}

// ListMembers returns the members of a class with user profiles
func (s *ClassService) ListMembers(classID uint) ([]models.ClassMember, error) {
	var members []models.ClassMember
	err := s.db.Preload("User").
		Where("class_id = ?", classID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// RemoveMember removes a student from a class. The creator may remove
// any student; a student may remove themselves (leave). The creator
// cannot be removed; ownership must be transferred first.
func (s *ClassService) RemoveMember(classID, targetUserID, actorID uint) error {
	class, err := s.GetByID(classID)
	if err != nil {
		return err
	}

	if targetUserID == class.CreatorID {
		return response.NewConflict("the class creator cannot leave; transfer ownership first")
	}
	if actorID != class.CreatorID && actorID != targetUserID {
		return response.NewForbidden("only the class creator can remove other members")
	}

	result := s.db.Where("class_id = ? AND user_id = ?", classID, targetUserID).
		Delete(&models.ClassMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("user is not a member of this class")
	}
	return nil
}

type TransferCreatorRequest struct {
	TargetEmail string `json:"target_email" binding:"required,email"`
}

// TransferCreator hands the creator role from the current creator to
// another member. Preconditions are checked in order and fail fast; the
// three-part mutation runs in one transaction keyed on the expected
// current creator_id, so concurrent transfers cannot leave a class with
// zero or two creators.
func (s *ClassService) TransferCreator(classID uint, actorID uint, targetEmail string) (*models.Class, error) {
	class, err := s.GetByID(classID)
	if err != nil {
		return nil, err
	}

	// 1. Target email must resolve to a user
	var target models.User
	err = s.db.Where("email = ?", targetEmail).First(&target).Error
	if err == gorm.ErrRecordNotFound {
		return nil, response.NewNotFound("target user not found")
	}
	if err != nil {
		return nil, err
	}

	// 2. Target must be a member and not already creator
	var membership models.ClassMember
	err = s.db.Where("class_id = ? AND user_id = ?", classID, target.ID).First(&membership).Error
	if err == gorm.ErrRecordNotFound {
		return nil, response.NewNotFound("target user is not a member of this class")
	}
	if err != nil {
		return nil, err
	}
	if membership.Role == models.MemberRoleCreator {
		return nil, response.NewConflict("target user is already the creator")
	}

	// 3. Caller must currently hold the creator role
	var actorMembership models.ClassMember
	err = s.db.Where("class_id = ? AND user_id = ? AND role = ?",
		classID, actorID, models.MemberRoleCreator).First(&actorMembership).Error
	if err == gorm.ErrRecordNotFound {
		return nil, response.NewForbidden("caller is not the current creator")
	}
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Conditional update on the expected creator rejects a transfer
		// that lost the race to a concurrent one.
		result := tx.Model(&models.Class{}).
			Where("id = ? AND creator_id = ?", classID, actorID).
			Update("creator_id", target.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return response.NewConflict("caller is not the current creator")
		}

		if err := tx.Model(&models.ClassMember{}).
			Where("class_id = ? AND user_id = ?", classID, actorID).
			Update("role", models.MemberRoleStudent).Error; err != nil {
			return err
		}

		return tx.Model(&models.ClassMember{}).
			Where("class_id = ? AND user_id = ?", classID, target.ID).
			Update("role", models.MemberRoleCreator).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(target.ID, models.NotificationRoleTransfer,
		"You are now the class creator",
		"Ownership of the class \""+class.Name+"\" has been transferred to you.",
		"class", classID)

	return s.GetByID(classID)
}
