package services

import (
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type NoteService struct {
	db     *gorm.DB
	points *PointsService
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{
		db:     db,
		points: NewPointsService(db, NewNotificationService(db)),
	}
}

type CreateNoteRequest struct {
	UnitID   *uint  `json:"unit_id"`
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content"`
	FileKey  string `json:"-"`
	FileName string `json:"-"`
	FileSize int64  `json:"-"`
}

type NoteListRequest struct {
	Page     int   `form:"page" binding:"min=1"`
	PageSize int   `form:"page_size" binding:"min=1,max=100"`
	UnitID   *uint `form:"unit_id"`
}

type NoteListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.Note `json:"items"`
}

// List returns a class's notes, newest first. Members only.
func (s *NoteService) List(classID uint, userID uint, req *NoteListRequest) (*NoteListResponse, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Note{}).Where("class_id = ?", classID)
	if req.UnitID != nil {
		query = query.Where("unit_id = ?", *req.UnitID)
	}

	var total int64
	query.Count(&total)

	var notes []models.Note
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Author").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}

	return &NoteListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    notes,
	}, nil
}

// GetByID loads a single note. Members only.
func (s *NoteService) GetByID(noteID uint, userID uint) (*models.Note, error) {
	var note models.Note
	if err := s.db.Preload("Author").First(&note, noteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("note not found")
		}
		return nil, err
	}
	if _, err := requireMember(s.db, note.ClassID, userID); err != nil {
		return nil, err
	}
	return &note, nil
}

// Create shares a note in a class and awards upload points.
func (s *NoteService) Create(classID uint, req *CreateNoteRequest, userID uint) (*models.Note, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}
	if req.UnitID != nil {
		if err := s.checkUnit(classID, *req.UnitID); err != nil {
			return nil, err
		}
	}

	note := models.Note{
		ClassID:  classID,
		UnitID:   req.UnitID,
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		FileKey:  req.FileKey,
		FileName: req.FileName,
		FileSize: req.FileSize,
	}
	if err := s.db.Create(&note).Error; err != nil {
		return nil, err
	}

	if err := s.points.Award(userID, models.ActivityUploadNote, "note", note.ID); err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("failed to award note points")
	}

	return &note, nil
}

// Delete removes a note. Author or class creator only.
func (s *NoteService) Delete(noteID uint, userID uint) error {
	var note models.Note
	if err := s.db.First(&note, noteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NewNotFound("note not found")
		}
		return err
	}

	if note.AuthorID != userID {
		if err := requireCreator(s.db, note.ClassID, userID); err != nil {
			return response.NewForbidden("only the author or class creator can delete a note")
		}
	}

	return s.db.Delete(&note).Error
}

func (s *NoteService) checkUnit(classID, unitID uint) error {
	var count int64
	s.db.Model(&models.ClassUnit{}).
		Where("id = ? AND class_id = ?", unitID, classID).
		Count(&count)
	if count == 0 {
		return response.NewBadRequest("unit does not belong to this class")
	}
	return nil
}
