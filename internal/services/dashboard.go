package services

import (
	"time"

	"github.com/campushub/backend/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type DashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	ActiveClasses   int64 `json:"active_classes"`
	PendingRequests int64 `json:"pending_requests"`
	NotesShared     int64 `json:"notes_shared"`
	EventsScheduled int64 `json:"events_scheduled"`
	ChatMessages    int64 `json:"chat_messages"`
}

type ClassActivityStats struct {
	ClassID      uint   `json:"class_id"`
	ClassName    string `json:"class_name"`
	MemberCount  int64  `json:"member_count"`
	NoteCount    int64  `json:"note_count"`
	MessageCount int64  `json:"message_count"`
}

type ActivityTrendPoint struct {
	Date     string `json:"date"`
	Joins    int64  `json:"joins"`
	Notes    int64  `json:"notes"`
	Messages int64  `json:"messages"`
}

type DashboardResponse struct {
	Stats         DashboardStats       `json:"stats"`
	TopClasses    []ClassActivityStats `json:"top_classes"`
	ActivityTrend []ActivityTrendPoint `json:"activity_trend"`
}

// GetStats aggregates platform-wide numbers for the admin dashboard.
// The date range bounds the trend and per-class activity; totals are
// current counts.
func (s *DashboardService) GetStats(req *DashboardStatsRequest) (*DashboardResponse, error) {
	startDate, endDate := s.parseRange(req)

	var stats DashboardStats

	s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.TotalUsers)
	s.db.Model(&models.Class{}).Where("is_active = ?", true).Count(&stats.ActiveClasses)
	s.db.Model(&models.JoinRequest{}).Where("status = ?", models.JoinRequestPending).Count(&stats.PendingRequests)

	s.db.Model(&models.Note{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Count(&stats.NotesShared)
	s.db.Model(&models.ClassEvent{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Count(&stats.EventsScheduled)
	s.db.Model(&models.ChatMessage{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Count(&stats.ChatMessages)

	return &DashboardResponse{
		Stats:         stats,
		TopClasses:    s.topClasses(startDate, endDate, 10),
		ActivityTrend: s.activityTrend(startDate, endDate),
	}, nil
}

func (s *DashboardService) parseRange(req *DashboardStatsRequest) (time.Time, time.Time) {
	startDate := time.Now().AddDate(0, 0, -7)
	endDate := time.Now()

	if req.StartDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			startDate = parsed
		}
	}
	if req.EndDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			endDate = parsed.Add(24*time.Hour - time.Second)
		}
	}
	return startDate, endDate
}

func (s *DashboardService) topClasses(startDate, endDate time.Time, limit int) []ClassActivityStats {
	var results []struct {
		ClassID      uint
		MessageCount int64
	}

	s.db.Model(&models.ChatMessage{}).
		Select("class_id, COUNT(*) as message_count").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("class_id").
		Order("message_count DESC").
		Limit(limit).
		Scan(&results)

	var stats []ClassActivityStats
	for _, r := range results {
		var class models.Class
		if err := s.db.First(&class, r.ClassID).Error; err != nil {
			continue
		}

		entry := ClassActivityStats{
			ClassID:      r.ClassID,
			ClassName:    class.Name,
			MessageCount: r.MessageCount,
		}
		s.db.Model(&models.ClassMember{}).Where("class_id = ?", r.ClassID).Count(&entry.MemberCount)
		s.db.Model(&models.Note{}).
			Where("class_id = ? AND created_at BETWEEN ? AND ?", r.ClassID, startDate, endDate).
			Count(&entry.NoteCount)

		stats = append(stats, entry)
	}
	return stats
}

func (s *DashboardService) activityTrend(startDate, endDate time.Time) []ActivityTrendPoint {
	var trend []ActivityTrendPoint

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.Add(24 * time.Hour)

		point := ActivityTrendPoint{Date: dayStart.Format("2006-01-02")}
		s.db.Model(&models.ClassMember{}).
			Where("joined_at >= ? AND joined_at < ?", dayStart, dayEnd).
			Count(&point.Joins)
		s.db.Model(&models.Note{}).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&point.Notes)
		s.db.Model(&models.ChatMessage{}).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&point.Messages)

		trend = append(trend, point)
	}
	return trend
}
