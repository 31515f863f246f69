package services

import (
	"context"
	"testing"
)

func TestTaskTypeNotification_Constant(t *testing.T) {
	if TaskTypeNotification != "notification:deliver" {
		t.Errorf("TaskTypeNotification = %q, expected %q", TaskTypeNotification, "notification:deliver")
	}
}

func TestNotificationTask_Structure(t *testing.T) {
	task := NotificationTask{
		NotificationID: 1,
		UserID:         10,
		Type:           "join_approved",
		Title:          "Welcome to Algorithms 101",
		Message:        "Your request to join was approved",
		RefType:        "class",
		RefID:          5,
	}

	if task.NotificationID != 1 {
		t.Errorf("NotificationID = %d, expected 1", task.NotificationID)
	}
	if task.UserID != 10 {
		t.Errorf("UserID = %d, expected 10", task.UserID)
	}
	if task.Type != "join_approved" {
		t.Errorf("Type = %q, expected %q", task.Type, "join_approved")
	}
	if task.RefType != "class" || task.RefID != 5 {
		t.Errorf("ref = %s/%d, expected class/5", task.RefType, task.RefID)
	}
}

func TestSyncQueue_New(t *testing.T) {
	queue := NewSyncQueue()
	if queue == nil {
		t.Error("NewSyncQueue should not return nil")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	queue := NewSyncQueue()
	if queue.IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_Close(t *testing.T) {
	queue := NewSyncQueue()
	err := queue.Close()
	if err != nil {
		t.Errorf("SyncQueue.Close() should return nil, got %v", err)
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	task := &NotificationTask{
		NotificationID: 1,
		UserID:         1,
	}

	err := queue.Enqueue(task)
	if err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_SetProcessor(t *testing.T) {
	queue := NewSyncQueue()

	queue.SetProcessor(func(ctx context.Context, task *NotificationTask) error {
		return nil
	})

	if queue.processor == nil {
		t.Error("processor should be set")
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}
