package services

import (
	"testing"
	"time"

	"github.com/campushub/backend/internal/models"
)

func TestNoteCreate_MemberOnlyAndAwardsPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewNoteService(db)
	creator := createTestUser(t, db, "creator")
	outsider := createTestUser(t, db, "outsider")
	class := seedClass(t, db, creator, "NOTE01")

	if _, err := svc.Create(class.ID, &CreateNoteRequest{Title: "Week 1"}, outsider.ID); err == nil {
		t.Error("non-members must not share notes")
	}

	note, err := svc.Create(class.ID, &CreateNoteRequest{Title: "Week 1", Content: "intro"}, creator.ID)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if note.ClassID != class.ID {
		t.Errorf("class_id = %d, expected %d", note.ClassID, class.ID)
	}

	var user models.User
	db.First(&user, creator.ID)
	if user.Points != 15 {
		t.Errorf("points = %d, expected 15 for sharing a note", user.Points)
	}
}

func TestNoteCreate_RejectsForeignUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewNoteService(db)
	creator := createTestUser(t, db, "creator")
	classA := seedClass(t, db, creator, "NOTE02")
	classB := seedClass(t, db, creator, "NOTE03")

	unit := models.ClassUnit{ClassID: classB.ID, Name: "Module 1"}
	db.Create(&unit)

	_, err := svc.Create(classA.ID, &CreateNoteRequest{Title: "Misfiled", UnitID: &unit.ID}, creator.ID)
	if err == nil {
		t.Error("attaching a note to another class's unit must fail")
	}
}

func TestNoteDelete_AuthorOrCreator(t *testing.T) {
	db := newTestDB(t)
	svc := NewNoteService(db)
	creator := createTestUser(t, db, "creator")
	student := createTestUser(t, db, "student")
	other := createTestUser(t, db, "other")
	class := seedClass(t, db, creator, "NOTE04")
	addStudent(t, db, class.ID, student)
	addStudent(t, db, class.ID, other)

	note, err := svc.Create(class.ID, &CreateNoteRequest{Title: "Mine"}, student.ID)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(note.ID, other.ID); err == nil {
		t.Error("an unrelated member must not delete another's note")
	}
	if err := svc.Delete(note.ID, creator.ID); err != nil {
		t.Errorf("the class creator should be able to delete any note: %v", err)
	}
}

func TestNoteList_FiltersByUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewNoteService(db)
	creator := createTestUser(t, db, "creator")
	class := seedClass(t, db, creator, "NOTE05")

	unit := models.ClassUnit{ClassID: class.ID, Name: "Module 1"}
	db.Create(&unit)

	svc.Create(class.ID, &CreateNoteRequest{Title: "In unit", UnitID: &unit.ID}, creator.ID)
	svc.Create(class.ID, &CreateNoteRequest{Title: "Loose"}, creator.ID)

	all, err := svc.List(class.ID, creator.ID, &NoteListRequest{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("total = %d, expected 2", all.Total)
	}

	filtered, err := svc.List(class.ID, creator.ID, &NoteListRequest{UnitID: &unit.ID})
	if err != nil {
		t.Fatalf("List(unit) error: %v", err)
	}
	if filtered.Total != 1 || filtered.Items[0].Title != "In unit" {
		t.Error("unit filter should return only the unit's notes")
	}
}

func TestAssignmentCreate_RejectsPastDue(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	creator := createTestUser(t, db, "creator")
	class := seedClass(t, db, creator, "ASGN01")

	past := time.Now().Add(-time.Hour)
	_, err := svc.Create(class.ID, &CreateAssignmentRequest{Title: "Late", DueAt: &past}, creator.ID)
	if err == nil {
		t.Error("an assignment due in the past must be rejected")
	}
}

func TestAssignmentCreate_AwardsPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	creator := createTestUser(t, db, "creator")
	class := seedClass(t, db, creator, "ASGN02")

	due := time.Now().Add(7 * 24 * time.Hour)
	if _, err := svc.Create(class.ID, &CreateAssignmentRequest{Title: "Problem set 1", DueAt: &due}, creator.ID); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var user models.User
	db.First(&user, creator.ID)
	if user.Points != 10 {
		t.Errorf("points = %d, expected 10 for posting an assignment", user.Points)
	}
}

func TestAssignmentList_UpcomingSortsByDueDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	creator := createTestUser(t, db, "creator")
	class := seedClass(t, db, creator, "ASGN03")

	far := time.Now().Add(14 * 24 * time.Hour)
	near := time.Now().Add(2 * 24 * time.Hour)
	svc.Create(class.ID, &CreateAssignmentRequest{Title: "Final project", DueAt: &far}, creator.ID)
	svc.Create(class.ID, &CreateAssignmentRequest{Title: "Quiz", DueAt: &near}, creator.ID)

	resp, err := svc.List(class.ID, creator.ID, &AssignmentListRequest{Upcoming: true})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, expected 2", len(resp.Items))
	}
	if resp.Items[0].Title != "Quiz" {
		t.Errorf("soonest due should come first, got %q", resp.Items[0].Title)
	}
}
