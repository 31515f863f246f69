package services

import (
	"strings"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JoinRequestService implements the join request lifecycle:
// pending -> approved (terminal) or pending -> rejected, where a
// rejected user may submit again with a new row.
type JoinRequestService struct {
	db       *gorm.DB
	codes    *ClassCodeService
	points   *PointsService
	notifier *NotificationService
}

func NewJoinRequestService(db *gorm.DB) *JoinRequestService {
	notifier := NewNotificationService(db)
	return &JoinRequestService{
		db:       db,
		codes:    NewClassCodeService(db),
		points:   NewPointsService(db, notifier),
		notifier: notifier,
	}
}

type SubmitJoinRequest struct {
	Code    string `json:"code" binding:"required,len=6"`
	Message string `json:"message" binding:"max=1000"`
}

// Submit redeems a join code and files a pending request. No membership
// is created here; that happens only on approval.
func (s *JoinRequestService) Submit(req *SubmitJoinRequest, userID uint) (*models.JoinRequest, error) {
	class, err := s.codes.Resolve(strings.ToUpper(req.Code))
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	// Membership-level idempotency: an existing member never files again
	var memberCount int64
	if err := s.db.Model(&models.ClassMember{}).
		Where("class_id = ? AND user_id = ?", class.ID, userID).
		Count(&memberCount).Error; err != nil {
		return nil, err
	}
	if memberCount > 0 {
		return nil, response.NewConflict("you are already a member of this class")
	}

	// Duplicate requests are allowed; approval is what must stay
	// idempotent, and the membership insert takes care of that.
	request := models.JoinRequest{
		ClassID:        class.ID,
		UserID:         userID,
		RequesterName:  requesterDisplayName(&user),
		RequesterEmail: user.Email,
		Message:        req.Message,
		Status:         models.JoinRequestPending,
		RequestedAt:    time.Now(),
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func requesterDisplayName(user *models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

// Approve moves a pending request to approved and creates the student
// membership. The membership insert ignores conflicts on the
// (class, user) unique index, so a double approval still yields exactly
// one member row.
func (s *JoinRequestService) Approve(requestID uint, actorID uint) (*models.JoinRequest, error) {
	request, err := s.getForModeration(requestID, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Only a pending row may transition; the conditional update
		// also serializes concurrent approve/reject calls.
		result := tx.Model(&models.JoinRequest{}).
			Where("id = ? AND status = ?", requestID, models.JoinRequestPending).
			Updates(map[string]interface{}{
				"status":       models.JoinRequestApproved,
				"processed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return response.NewConflict("request has already been processed")
		}

		member := models.ClassMember{
			ClassID:  request.ClassID,
			UserID:   request.UserID,
			Role:     models.MemberRoleStudent,
			JoinedAt: now,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.points.Award(request.UserID, models.ActivityJoinClass, "class", request.ClassID); err != nil {
		logger.Error().Err(err).Uint("user_id", request.UserID).Msg("failed to award join points")
	}

	className := ""
	if request.Class != nil {
		className = request.Class.Name
	}
	s.notifier.Notify(request.UserID, models.NotificationJoinApproved,
		"Join request approved",
		"Your request to join \""+className+"\" has been approved.",
		"class", request.ClassID)

	return s.GetByID(requestID)
}

// Reject moves a pending request to rejected with a mandatory reason.
// The row is kept as history and the user may submit again.
func (s *JoinRequestService) Reject(requestID uint, actorID uint, reason string) (*models.JoinRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, response.NewBadRequest("a rejection reason is required")
	}

	request, err := s.getForModeration(requestID, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.db.Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", requestID, models.JoinRequestPending).
		Updates(map[string]interface{}{
			"status":           models.JoinRequestRejected,
			"rejection_reason": reason,
			"processed_at":     now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, response.NewConflict("request has already been processed")
	}

	className := ""
	if request.Class != nil {
		className = request.Class.Name
	}
	s.notifier.Notify(request.UserID, models.NotificationJoinRejected,
		"Join request rejected",
		"Your request to join \""+className+"\" was rejected: "+reason,
		"class", request.ClassID)

	return s.GetByID(requestID)
}

// getForModeration loads a request and checks the actor may moderate it
// (class creator, or platform admin).
func (s *JoinRequestService) getForModeration(requestID, actorID uint) (*models.JoinRequest, error) {
	request, err := s.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		return nil, err
	}
	if actor.Role == "admin" {
		return request, nil
	}

	if request.Class == nil || request.Class.CreatorID != actorID {
		return nil, response.NewForbidden("only the class creator can process join requests")
	}
	return request, nil
}

// GetByID loads a request with its class and user
func (s *JoinRequestService) GetByID(id uint) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := s.db.Preload("Class").Preload("User").First(&request, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, response.NewNotFound("join request not found")
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// StatusFor returns the most recent request a user has filed for a
// class. Older rows are history only.
func (s *JoinRequestService) StatusFor(classID, userID uint) (*models.JoinRequest, error) {
	var request models.JoinRequest
	// id breaks ties between resubmissions in the same second
	err := s.db.Where("class_id = ? AND user_id = ?", classID, userID).
		Order("requested_at DESC, id DESC").
		First(&request).Error
	if err == gorm.ErrRecordNotFound {
		return nil, response.NewNotFound("no join request found")
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

type JoinRequestListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type JoinRequestListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.JoinRequest `json:"items"`
}

// ListForClass returns the moderation queue for a class, creator only.
func (s *JoinRequestService) ListForClass(classID uint, actorID uint, req *JoinRequestListRequest) (*JoinRequestListResponse, error) {
	var class models.Class
	if err := s.db.First(&class, classID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("class not found")
		}
		return nil, err
	}

	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		return nil, err
	}
	if actor.Role != "admin" && class.CreatorID != actorID {
		return nil, response.NewForbidden("only the class creator can list join requests")
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.JoinRequest{}).Where("class_id = ?", classID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	query.Count(&total)

	var items []models.JoinRequest
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("User").
		Offset(offset).Limit(req.PageSize).
		Order("requested_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &JoinRequestListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// ExpireStale rejects pending requests older than the configured
// retention window so queues do not accumulate forever.
func (s *JoinRequestService) ExpireStale() (int64, error) {
	days := NewSystemConfigService(s.db).GetIntWithDefault("join_request_retention_days", 14)
	if days <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	now := time.Now()
	result := s.db.Model(&models.JoinRequest{}).
		Where("status = ? AND requested_at < ?", models.JoinRequestPending, cutoff).
		Updates(map[string]interface{}{
			"status":           models.JoinRequestRejected,
			"rejection_reason": "request expired without review",
			"processed_at":     now,
		})
	return result.RowsAffected, result.Error
}

// StartJoinRequestSweeper periodically expires stale pending requests
func StartJoinRequestSweeper(db *gorm.DB) {
	go func() {
		service := NewJoinRequestService(db)

		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			expired, err := service.ExpireStale()
			if err != nil {
				logger.Error().Err(err).Msg("join request sweep failed")
				continue
			}
			if expired > 0 {
				logger.Infof("expired %d stale join requests", expired)
			}
		}
	}()
}
