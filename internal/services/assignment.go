package services

import (
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type AssignmentService struct {
	db     *gorm.DB
	points *PointsService
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{
		db:     db,
		points: NewPointsService(db, NewNotificationService(db)),
	}
}

type CreateAssignmentRequest struct {
	UnitID      *uint      `json:"unit_id"`
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	FileKey     string     `json:"-"`
	FileName    string     `json:"-"`
}

type AssignmentListRequest struct {
	Page     int   `form:"page" binding:"min=1"`
	PageSize int   `form:"page_size" binding:"min=1,max=100"`
	UnitID   *uint `form:"unit_id"`
	Upcoming bool  `form:"upcoming"`
}

type AssignmentListResponse struct {
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Items    []models.Assignment `json:"items"`
}

// List returns a class's assignments. Members only. With Upcoming set,
// only assignments due in the future, soonest first.
func (s *AssignmentService) List(classID uint, userID uint, req *AssignmentListRequest) (*AssignmentListResponse, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Assignment{}).Where("class_id = ?", classID)
	if req.UnitID != nil {
		query = query.Where("unit_id = ?", *req.UnitID)
	}

	order := "created_at DESC"
	if req.Upcoming {
		query = query.Where("due_at > ?", time.Now())
		order = "due_at ASC"
	}

	var total int64
	query.Count(&total)

	var items []models.Assignment
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Author").
		Offset(offset).Limit(req.PageSize).
		Order(order).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &AssignmentListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// Create posts an assignment and awards points.
func (s *AssignmentService) Create(classID uint, req *CreateAssignmentRequest, userID uint) (*models.Assignment, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}
	if req.DueAt != nil && req.DueAt.Before(time.Now()) {
		return nil, response.NewBadRequest("due date must be in the future")
	}

	assignment := models.Assignment{
		ClassID:     classID,
		UnitID:      req.UnitID,
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		FileKey:     req.FileKey,
		FileName:    req.FileName,
	}
	if err := s.db.Create(&assignment).Error; err != nil {
		return nil, err
	}

	if err := s.points.Award(userID, models.ActivityPostAssignment, "assignment", assignment.ID); err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("failed to award assignment points")
	}

	return &assignment, nil
}

// Delete removes an assignment. Author or class creator only.
func (s *AssignmentService) Delete(assignmentID uint, userID uint) error {
	var assignment models.Assignment
	if err := s.db.First(&assignment, assignmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NewNotFound("assignment not found")
		}
		return err
	}

	if assignment.AuthorID != userID {
		if err := requireCreator(s.db, assignment.ClassID, userID); err != nil {
			return response.NewForbidden("only the author or class creator can delete an assignment")
		}
	}

	return s.db.Delete(&assignment).Error
}
