package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/campushub/backend/internal/models"
)

func TestDigestGenerate_CollectsWeeklyStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewDigestService(db, NewHolidayService())
	creator := createTestUser(t, db, "creator")
	class := seedClass(t, db, creator, "DGST01")

	notes := NewNoteService(db)
	notes.Create(class.ID, &CreateNoteRequest{Title: "Week notes"}, creator.ID)
	chat := NewChatService(db)
	chat.Post(class.ID, &PostMessageRequest{Body: "hi"}, creator.ID)

	end := time.Now().Add(time.Hour)
	start := end.AddDate(0, 0, -7)
	digest, err := svc.Generate(start, end)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	var stats DigestStats
	if err := json.Unmarshal([]byte(digest.Stats), &stats); err != nil {
		t.Fatalf("stats payload does not parse: %v", err)
	}
	if stats.NotesShared != 1 {
		t.Errorf("notes_shared = %d, expected 1", stats.NotesShared)
	}
	if stats.ChatMessages != 1 {
		t.Errorf("chat_messages = %d, expected 1", stats.ChatMessages)
	}
	if !strings.Contains(digest.Content, "Weekly Digest") {
		t.Error("digest content should carry the digest heading")
	}
}

func TestDigestGenerate_UpsertsPerPeriod(t *testing.T) {
	db := newTestDB(t)
	svc := NewDigestService(db, NewHolidayService())

	end := time.Now()
	start := end.AddDate(0, 0, -7)

	first, err := svc.Generate(start, end)
	if err != nil {
		t.Fatalf("first Generate() error: %v", err)
	}
	second, err := svc.Generate(start, end)
	if err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}
	if first.ID != second.ID {
		t.Error("regenerating the same period must update, not duplicate")
	}

	var count int64
	db.Model(&models.ActivityDigest{}).Count(&count)
	if count != 1 {
		t.Errorf("digest rows = %d, expected 1", count)
	}
}

func TestDigestLock_SecondAcquireFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewDigestService(db, NewHolidayService())

	periodStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	acquired, err := svc.tryAcquireLock(periodStart)
	if err != nil {
		t.Fatalf("tryAcquireLock() error: %v", err)
	}
	if !acquired {
		t.Fatal("first acquire should succeed")
	}

	again, err := svc.tryAcquireLock(periodStart)
	if err != nil {
		t.Fatalf("second tryAcquireLock() error: %v", err)
	}
	if again {
		t.Error("a held lock must not be acquired twice")
	}
}

func TestDigestLock_ExpiredLockIsTakenOver(t *testing.T) {
	db := newTestDB(t)
	svc := NewDigestService(db, NewHolidayService())

	periodStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	stale := models.SchedulerLock{
		LockName:  digestLockName,
		LockKey:   periodStart.Format("2006-01-02"),
		LockedBy:  "crashed-host",
		LockedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed stale lock: %v", err)
	}

	acquired, err := svc.tryAcquireLock(periodStart)
	if err != nil {
		t.Fatalf("tryAcquireLock() error: %v", err)
	}
	if !acquired {
		t.Error("an expired lock should be taken over")
	}
}

func TestDigestGenerateAndSend_DisabledIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewDigestService(db, NewHolidayService())

	if err := svc.GenerateAndSend(); err != nil {
		t.Fatalf("GenerateAndSend() error: %v", err)
	}

	var count int64
	db.Model(&models.ActivityDigest{}).Count(&count)
	if count != 0 {
		t.Error("digest must not run while disabled")
	}
}

func TestDashboardStats_CountsPlatformActivity(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	creator := createTestUser(t, db, "creator")
	class := seedClass(t, db, creator, "DASH01")

	NewNoteService(db).Create(class.ID, &CreateNoteRequest{Title: "n"}, creator.ID)
	NewChatService(db).Post(class.ID, &PostMessageRequest{Body: "hi"}, creator.ID)
	db.Create(&models.JoinRequest{
		ClassID:        class.ID,
		UserID:         creator.ID,
		RequesterName:  "x",
		RequesterEmail: "x@campus.test",
		Status:         models.JoinRequestPending,
		RequestedAt:    time.Now(),
	})

	resp, err := svc.GetStats(&DashboardStatsRequest{})
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}

	if resp.Stats.TotalUsers != 1 {
		t.Errorf("total_users = %d, expected 1", resp.Stats.TotalUsers)
	}
	if resp.Stats.ActiveClasses != 1 {
		t.Errorf("active_classes = %d, expected 1", resp.Stats.ActiveClasses)
	}
	if resp.Stats.PendingRequests != 1 {
		t.Errorf("pending_requests = %d, expected 1", resp.Stats.PendingRequests)
	}
	if resp.Stats.NotesShared != 1 || resp.Stats.ChatMessages != 1 {
		t.Error("weekly note and chat counts should both be 1")
	}
	if len(resp.TopClasses) != 1 || resp.TopClasses[0].ClassID != class.ID {
		t.Error("the active class should lead the top list")
	}
	if len(resp.ActivityTrend) == 0 {
		t.Error("activity trend should cover the default week")
	}
}
