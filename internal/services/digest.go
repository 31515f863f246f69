package services

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const digestLockName = "weekly_digest"

// DigestService generates the weekly campus activity digest and mails it
// to class creators. Only one instance runs the job per period, guarded by
// a row in scheduler_locks.
type DigestService struct {
	db            *gorm.DB
	email         *EmailService
	holidays      *HolidayService
	configSvc     *SystemConfigService
	cronScheduler *cron.Cron
	currentEntry  cron.EntryID
}

func NewDigestService(db *gorm.DB, holidays *HolidayService) *DigestService {
	return &DigestService{
		db:        db,
		email:     NewEmailService(db),
		holidays:  holidays,
		configSvc: NewSystemConfigService(db),
	}
}

type DigestStats struct {
	NewUsers         int64 `json:"new_users"`
	NewClasses       int64 `json:"new_classes"`
	JoinsApproved    int64 `json:"joins_approved"`
	NotesShared      int64 `json:"notes_shared"`
	AssignmentsAdded int64 `json:"assignments_added"`
	EventsScheduled  int64 `json:"events_scheduled"`
	ChatMessages     int64 `json:"chat_messages"`
}

type TopContributor struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Points   int    `json:"points"`
}

func (s *DigestService) StartScheduler() {
	s.cronScheduler = cron.New()
	s.updateSchedule()
	s.cronScheduler.Start()
	logger.Info().Msg("digest scheduler started")
}

func (s *DigestService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *DigestService) updateSchedule() {
	if s.currentEntry != 0 {
		s.cronScheduler.Remove(s.currentEntry)
	}

	cronExpr := s.configSvc.GetWithDefault("digest_cron", "0 8 * * 1")
	entryID, err := s.cronScheduler.AddFunc(cronExpr, func() {
		if err := s.GenerateAndSend(); err != nil {
			logger.Error().Err(err).Msg("weekly digest run failed")
		}
	})
	if err != nil {
		logger.Error().Err(err).Str("cron", cronExpr).Msg("failed to schedule weekly digest")
		return
	}

	s.currentEntry = entryID
	logger.Info().Str("cron", cronExpr).Msg("weekly digest scheduled")
}

// GenerateAndSend builds the digest for the past seven days, stores it and
// mails it out. A no-op when disabled, when the day is a holiday and the
// skip option is set, or when another instance already holds the period lock.
func (s *DigestService) GenerateAndSend() error {
	if !s.configSvc.GetBoolWithDefault("digest_enabled", false) {
		return nil
	}

	now := time.Now()
	if s.configSvc.GetBoolWithDefault("digest_skip_holidays", true) {
		country := s.configSvc.GetWithDefault("holiday_country", "US")
		if name, ok := s.holidays.HolidayName(now, country); ok {
			logger.Info().Str("holiday", name).Msg("skipping weekly digest on a holiday")
			return nil
		}
	}

	periodEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	periodStart := periodEnd.AddDate(0, 0, -7)

	acquired, err := s.tryAcquireLock(periodStart)
	if err != nil {
		return err
	}
	if !acquired {
		logger.Info().Time("period_start", periodStart).Msg("digest already generated by another instance")
		return nil
	}

	digest, err := s.Generate(periodStart, periodEnd)
	if err != nil {
		return err
	}

	return s.send(digest)
}

// Generate builds and stores the digest row for one period.
func (s *DigestService) Generate(periodStart, periodEnd time.Time) (*models.ActivityDigest, error) {
	stats := s.collectStats(periodStart, periodEnd)
	top := s.topContributors(periodStart, periodEnd, 5)

	statsJSON, _ := json.Marshal(stats)
	content := s.buildContent(periodStart, periodEnd, stats, top)

	digest := &models.ActivityDigest{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Content:     content,
		Stats:       string(statsJSON),
	}

	var existing models.ActivityDigest
	if err := s.db.Where("period_start = ?", periodStart).First(&existing).Error; err == nil {
		digest.ID = existing.ID
		digest.CreatedAt = existing.CreatedAt
		digest.SentTo = existing.SentTo
		if err := s.db.Save(digest).Error; err != nil {
			return nil, err
		}
	} else {
		if err := s.db.Create(digest).Error; err != nil {
			return nil, err
		}
	}

	return digest, nil
}

func (s *DigestService) collectStats(start, end time.Time) DigestStats {
	var stats DigestStats

	s.db.Model(&models.User{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.NewUsers)

	s.db.Model(&models.Class{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.NewClasses)

	s.db.Model(&models.JoinRequest{}).
		Where("processed_at BETWEEN ? AND ? AND status = ?", start, end, models.JoinRequestApproved).
		Count(&stats.JoinsApproved)

	s.db.Model(&models.Note{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.NotesShared)

	s.db.Model(&models.Assignment{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.AssignmentsAdded)

	s.db.Model(&models.ClassEvent{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.EventsScheduled)

	s.db.Model(&models.ChatMessage{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.ChatMessages)

	return stats
}

func (s *DigestService) topContributors(start, end time.Time, limit int) []TopContributor {
	var results []struct {
		UserID uint
		Earned int
	}

	s.db.Model(&models.PointsLog{}).
		Select("user_id, SUM(delta) as earned").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("user_id").
		Order("earned DESC").
		Limit(limit).
		Scan(&results)

	var top []TopContributor
	for _, r := range results {
		var user models.User
		if err := s.db.First(&user, r.UserID).Error; err == nil {
			top = append(top, TopContributor{
				Username: user.Username,
				FullName: user.FullName,
				Points:   r.Earned,
			})
		}
	}
	return top
}

func (s *DigestService) buildContent(start, end time.Time, stats DigestStats, top []TopContributor) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<h2>CampusHub Weekly Digest: %s to %s</h2>",
		start.Format("Jan 2"), end.Format("Jan 2, 2006")))

	sb.WriteString("<h3>This week on campus</h3><ul>")
	sb.WriteString(fmt.Sprintf("<li>%d new members joined classes</li>", stats.JoinsApproved))
	sb.WriteString(fmt.Sprintf("<li>%d notes shared</li>", stats.NotesShared))
	sb.WriteString(fmt.Sprintf("<li>%d assignments posted</li>", stats.AssignmentsAdded))
	sb.WriteString(fmt.Sprintf("<li>%d events scheduled</li>", stats.EventsScheduled))
	sb.WriteString(fmt.Sprintf("<li>%d chat messages</li>", stats.ChatMessages))
	sb.WriteString(fmt.Sprintf("<li>%d new users, %d new classes</li>", stats.NewUsers, stats.NewClasses))
	sb.WriteString("</ul>")

	if len(top) > 0 {
		sb.WriteString("<h3>Top contributors</h3><ol>")
		for _, c := range top {
			name := c.FullName
			if name == "" {
				name = c.Username
			}
			sb.WriteString(fmt.Sprintf("<li>%s (+%d points)</li>", name, c.Points))
		}
		sb.WriteString("</ol>")
	}

	return sb.String()
}

func (s *DigestService) send(digest *models.ActivityDigest) error {
	recipients := s.creatorEmails()
	if len(recipients) == 0 {
		logger.Info().Msg("no digest recipients, storing digest only")
		return nil
	}

	subject := fmt.Sprintf("[CampusHub] Weekly Digest %s", digest.PeriodEnd.Format("2006-01-02"))
	if err := s.email.SendDigest(recipients, subject, digest.Content); err != nil {
		return err
	}

	digest.SentTo = strings.Join(recipients, ",")
	return s.db.Save(digest).Error
}

// creatorEmails collects the distinct email addresses of active class creators.
func (s *DigestService) creatorEmails() []string {
	var emails []string
	s.db.Model(&models.User{}).
		Distinct("users.email").
		Joins("JOIN class_members ON class_members.user_id = users.id").
		Where("class_members.role = ? AND users.is_active = ? AND users.email != ''", models.MemberRoleCreator, true).
		Pluck("users.email", &emails)
	return emails
}

// tryAcquireLock claims the digest run for one period. The first instance
// to insert the (name, key) row wins. Stale locks from crashed runs expire
// and can be taken over.
func (s *DigestService) tryAcquireLock(periodStart time.Time) (bool, error) {
	lockKey := periodStart.Format("2006-01-02")
	hostname, _ := os.Hostname()
	now := time.Now()

	lock := models.SchedulerLock{
		LockName:  digestLockName,
		LockKey:   lockKey,
		LockedBy:  hostname,
		LockedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}

	if err := s.db.Create(&lock).Error; err == nil {
		return true, nil
	}

	// Row exists. Take it over only if the previous holder's lock expired.
	result := s.db.Model(&models.SchedulerLock{}).
		Where("lock_name = ? AND lock_key = ? AND expires_at < ?", digestLockName, lockKey, now).
		Updates(map[string]interface{}{
			"locked_by":  hostname,
			"locked_at":  now,
			"expires_at": now.Add(time.Hour),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns stored digests, newest first.
func (s *DigestService) List(page, pageSize int) ([]models.ActivityDigest, int64, error) {
	var digests []models.ActivityDigest
	var total int64

	s.db.Model(&models.ActivityDigest{}).Count(&total)

	offset := (page - 1) * pageSize
	if err := s.db.Order("period_start DESC").Offset(offset).Limit(pageSize).Find(&digests).Error; err != nil {
		return nil, 0, err
	}
	return digests, total, nil
}
