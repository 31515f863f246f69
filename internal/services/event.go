package services

import (
	"fmt"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type ClassEventService struct {
	db        *gorm.DB
	points    *PointsService
	holidays  *HolidayService
	configSvc *SystemConfigService
}

func NewClassEventService(db *gorm.DB, holidays *HolidayService) *ClassEventService {
	return &ClassEventService{
		db:        db,
		points:    NewPointsService(db, NewNotificationService(db)),
		holidays:  holidays,
		configSvc: NewSystemConfigService(db),
	}
}

type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	Location    string     `json:"location" binding:"max=255"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
}

type UpdateEventRequest struct {
	Title       string     `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

type EventListRequest struct {
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
	Upcoming bool       `form:"upcoming"`
}

// List returns a class's events in chronological order. Members only.
func (s *ClassEventService) List(classID uint, userID uint, req *EventListRequest) ([]models.ClassEvent, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}

	query := s.db.Model(&models.ClassEvent{}).Where("class_id = ?", classID)
	if req.Upcoming {
		query = query.Where("starts_at > ?", time.Now())
	}
	if req.From != nil {
		query = query.Where("starts_at >= ?", *req.From)
	}
	if req.To != nil {
		query = query.Where("starts_at <= ?", *req.To)
	}

	var events []models.ClassEvent
	err := query.Preload("Author").Order("starts_at ASC").Find(&events).Error
	return events, err
}

// Create schedules an event. Any member may create one. If the date falls
// on a public holiday for the configured country, the event carries a
// warning so organizers can reconsider.
func (s *ClassEventService) Create(classID uint, req *CreateEventRequest, userID uint) (*models.ClassEvent, error) {
	if _, err := requireMember(s.db, classID, userID); err != nil {
		return nil, err
	}
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return nil, response.NewBadRequest("event end must be after its start")
	}

	event := models.ClassEvent{
		ClassID:        classID,
		AuthorID:       userID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		HolidayWarning: s.holidayWarning(req.StartsAt),
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}

	if err := s.points.Award(userID, models.ActivityCreateEvent, "event", event.ID); err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("failed to award event points")
	}

	return &event, nil
}

// Update modifies an event. Author or class creator only. A changed start
// date gets its holiday warning recomputed.
func (s *ClassEventService) Update(eventID uint, req *UpdateEventRequest, userID uint) (*models.ClassEvent, error) {
	event, err := s.getEvent(eventID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthorOrCreator(event, userID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
		updates["holiday_warning"] = s.holidayWarning(*req.StartsAt)
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}

	if len(updates) > 0 {
		if err := s.db.Model(event).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.getEvent(eventID)
}

// Delete removes an event. Author or class creator only.
func (s *ClassEventService) Delete(eventID uint, userID uint) error {
	event, err := s.getEvent(eventID)
	if err != nil {
		return err
	}
	if err := s.requireAuthorOrCreator(event, userID); err != nil {
		return err
	}
	return s.db.Delete(event).Error
}

func (s *ClassEventService) requireAuthorOrCreator(event *models.ClassEvent, userID uint) error {
	if event.AuthorID == userID {
		return nil
	}
	if err := requireCreator(s.db, event.ClassID, userID); err != nil {
		return response.NewForbidden("only the author or class creator can modify an event")
	}
	return nil
}

func (s *ClassEventService) holidayWarning(startsAt time.Time) string {
	country := s.configSvc.GetWithDefault("holiday_country", "US")
	if name, ok := s.holidays.HolidayName(startsAt, country); ok {
		return fmt.Sprintf("falls on %s", name)
	}
	return ""
}

func (s *ClassEventService) getEvent(eventID uint) (*models.ClassEvent, error) {
	var event models.ClassEvent
	if err := s.db.Preload("Author").First(&event, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("event not found")
		}
		return nil, err
	}
	return &event, nil
}
