package services

import (
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

// Points awarded per activity
var activityPoints = map[string]int{
	models.ActivityJoinClass:      10,
	models.ActivityUploadNote:     15,
	models.ActivityPostAssignment: 10,
	models.ActivityCreateEvent:    5,
	models.ActivityChatMessage:    1,
}

type PointsService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewPointsService(db *gorm.DB, notifier *NotificationService) *PointsService {
	return &PointsService{db: db, notifier: notifier}
}

// Award credits a user for an activity. The running total on users.points
// is always mutated with a store-level increment, never read-modify-write,
// so concurrent awards cannot lose updates.
func (s *PointsService) Award(userID uint, activity string, refType string, refID uint) error {
	delta, ok := activityPoints[activity]
	if !ok {
		return response.NewBadRequest("unknown activity: " + activity)
	}
	return s.award(userID, activity, delta, refType, refID)
}

// AwardCustom credits an explicit delta, for admin adjustments.
func (s *PointsService) AwardCustom(userID uint, activity string, delta int, refType string, refID uint) error {
	return s.award(userID, activity, delta, refType, refID)
}

func (s *PointsService) award(userID uint, activity string, delta int, refType string, refID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return response.NewNotFound("user not found")
		}

		entry := models.PointsLog{
			UserID:    userID,
			Activity:  activity,
			Delta:     delta,
			RefType:   refType,
			RefID:     refID,
			CreatedAt: time.Now(),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return err
	}

	// Unlock checks run after the award commits; failures here never
	// roll back the points themselves.
	if err := s.syncCharacter(userID); err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("character sync failed")
	}
	if err := s.checkAchievements(userID); err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("achievement check failed")
	}
	return nil
}

// syncCharacter assigns a default character once the user unlocks one.
// Users who already picked a character keep their choice.
func (s *PointsService) syncCharacter(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}
	if user.CharacterID != nil {
		return nil
	}

	var character models.Character
	err := s.db.Where("min_points <= ?", user.Points).
		Order("min_points DESC").
		First(&character).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return s.db.Model(&user).Update("character_id", character.ID).Error
}

// SelectCharacter sets the user's character. Only characters whose
// unlock threshold the user has reached can be selected.
func (s *PointsService) SelectCharacter(userID, characterID uint) (*models.Character, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	var character models.Character
	if err := s.db.First(&character, characterID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("character not found")
		}
		return nil, err
	}

	if user.Points < character.MinPoints {
		return nil, response.NewForbidden("not enough points to select this character")
	}

	if err := s.db.Model(&user).Update("character_id", character.ID).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

// checkAchievements grants any threshold badges the user now qualifies for.
func (s *PointsService) checkAchievements(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	var achievements []models.Achievement
	if err := s.db.Where("threshold <= ?", user.Points).Find(&achievements).Error; err != nil {
		return err
	}

	for _, a := range achievements {
		earned := models.UserAchievement{
			UserID:          userID,
			AchievementCode: a.Code,
			EarnedAt:        time.Now(),
		}
		// The unique (user, achievement) index makes re-grants a no-op
		result := s.db.Where("user_id = ? AND achievement_code = ?", userID, a.Code).
			FirstOrCreate(&earned)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 && s.notifier != nil {
			s.notifier.Notify(userID, models.NotificationAchievement,
				"Achievement unlocked", "You earned the badge: "+a.Name,
				"achievement", a.ID)
		}
	}
	return nil
}

// History returns a user's points log, newest first.
func (s *PointsService) History(userID uint, limit int) ([]models.PointsLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var logs []models.PointsLog
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

type LeaderboardEntry struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Avatar        string `json:"avatar"`
	Points        int    `json:"points"`
	CharacterName string `json:"character_name"`
	Rank          int    `json:"rank"`
}

// Leaderboard returns the top users by points. Size comes from system
// config (leaderboard_size), capped at 100.
func (s *PointsService) Leaderboard() ([]LeaderboardEntry, error) {
	size := NewSystemConfigService(s.db).GetIntWithDefault("leaderboard_size", 20)
	if size <= 0 || size > 100 {
		size = 20
	}

	var entries []LeaderboardEntry
	err := s.db.Model(&models.User{}).
		Select(`users.id as user_id, users.username, users.full_name, users.avatar,
			users.points, COALESCE(characters.name, '') as character_name`).
		Joins("LEFT JOIN characters ON characters.id = users.character_id").
		Where("users.is_active = ?", true).
		Order("users.points DESC, users.id ASC").
		Limit(size).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// ListCharacters returns all characters ordered by unlock threshold.
func (s *PointsService) ListCharacters() ([]models.Character, error) {
	var characters []models.Character
	err := s.db.Order("min_points ASC").Find(&characters).Error
	return characters, err
}

// ListAchievements returns all badge definitions with the user's earned state.
type AchievementStatus struct {
	models.Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

func (s *PointsService) ListAchievements(userID uint) ([]AchievementStatus, error) {
	var achievements []models.Achievement
	if err := s.db.Order("threshold ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}

	var earned []models.UserAchievement
	if err := s.db.Where("user_id = ?", userID).Find(&earned).Error; err != nil {
		return nil, err
	}
	earnedByCode := make(map[string]time.Time, len(earned))
	for _, e := range earned {
		earnedByCode[e.AchievementCode] = e.EarnedAt
	}

	result := make([]AchievementStatus, 0, len(achievements))
	for _, a := range achievements {
		status := AchievementStatus{Achievement: a}
		if at, ok := earnedByCode[a.Code]; ok {
			status.Earned = true
			status.EarnedAt = &at
		}
		result = append(result, status)
	}
	return result, nil
}
