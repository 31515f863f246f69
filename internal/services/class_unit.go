package services

import (
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type ClassUnitService struct {
	db *gorm.DB
}

func NewClassUnitService(db *gorm.DB) *ClassUnitService {
	return &ClassUnitService{db: db}
}

type CreateUnitRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	OrderIndex  *int   `json:"order_index"`
}

type UpdateUnitRequest struct {
	Name        string `json:"name" binding:"omitempty,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	OrderIndex  *int   `json:"order_index"`
}

// List returns a class's units in display order
func (s *ClassUnitService) List(classID uint, userID uint) ([]models.ClassUnit, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}

	var units []models.ClassUnit
	err := s.db.Where("class_id = ?", classID).
		Order("order_index ASC, id ASC").
		Find(&units).Error
	return units, err
}

// Create adds a unit to a class. Creator only.
func (s *ClassUnitService) Create(classID uint, req *CreateUnitRequest, userID uint) (*models.ClassUnit, error) {
	if err := requireCreator(s.db, classID, userID); err != nil {
		return nil, err
	}

	unit := models.ClassUnit{
		ClassID:     classID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.OrderIndex != nil {
		unit.OrderIndex = *req.OrderIndex
	} else {
		// Append at the end
		var maxIndex int
		s.db.Model(&models.ClassUnit{}).
			Where("class_id = ?", classID).
			Select("COALESCE(MAX(order_index), -1)").
			Scan(&maxIndex)
		unit.OrderIndex = maxIndex + 1
	}

	if err := s.db.Create(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// Update modifies a unit. Creator only.
func (s *ClassUnitService) Update(unitID uint, req *UpdateUnitRequest, userID uint) (*models.ClassUnit, error) {
	unit, err := s.getUnit(unitID)
	if err != nil {
		return nil, err
	}
	if err := requireCreator(s.db, unit.ClassID, userID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}

	if len(updates) > 0 {
		if err := s.db.Model(unit).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return unit, nil
}

// Delete removes a unit. Notes and assignments attached to it are
// detached, not deleted.
func (s *ClassUnitService) Delete(unitID uint, userID uint) error {
	unit, err := s.getUnit(unitID)
	if err != nil {
		return err
	}
	if err := requireCreator(s.db, unit.ClassID, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Note{}).
			Where("unit_id = ?", unitID).
			Update("unit_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Assignment{}).
			Where("unit_id = ?", unitID).
			Update("unit_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ClassUnit{}, unitID).Error
	})
}

func (s *ClassUnitService) getUnit(unitID uint) (*models.ClassUnit, error) {
	var unit models.ClassUnit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("unit not found")
		}
		return nil, err
	}
	return &unit, nil
}
