package services

import (
	"errors"
	"testing"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
)

func TestCreateClass_SetsCodeAndCreatorMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db)
	creator := createTestUser(t, db, "creator")

	class, err := svc.Create(&CreateClassRequest{Name: "Compilers"}, creator.ID)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if len(class.ClassCode) != ClassCodeLength {
		t.Errorf("class code %q has wrong length", class.ClassCode)
	}
	if class.CreatorID != creator.ID {
		t.Errorf("creator_id = %d, expected %d", class.CreatorID, creator.ID)
	}
	if class.CodeExpires {
		t.Error("code should not expire when no deadline is given")
	}

	var member models.ClassMember
	if err := db.Where("class_id = ? AND user_id = ?", class.ID, creator.ID).First(&member).Error; err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	if member.Role != models.MemberRoleCreator {
		t.Errorf("creator member role = %q, expected creator", member.Role)
	}
}

func TestUpdateClass_CreatorOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db)
	creator := createTestUser(t, db, "creator")
	other := createTestUser(t, db, "other")

	class, _ := svc.Create(&CreateClassRequest{Name: "Networks"}, creator.ID)

	if _, err := svc.Update(class.ID, &UpdateClassRequest{Name: "Networks II"}, other.ID); err == nil {
		t.Error("Update() by a non-creator should fail")
	}

	updated, err := svc.Update(class.ID, &UpdateClassRequest{Name: "Networks II"}, creator.ID)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	var reloaded models.Class
	db.First(&reloaded, updated.ID)
	if reloaded.Name != "Networks II" {
		t.Errorf("name = %q, expected %q", reloaded.Name, "Networks II")
	}
}

func TestGetDetail_CountsMembersAndOrdersUnits(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db)
	creator := createTestUser(t, db, "creator")
	student := createTestUser(t, db, "student")

	class, _ := svc.Create(&CreateClassRequest{Name: "Databases"}, creator.ID)
	addStudent(t, db, class.ID, student)

	db.Create(&models.ClassUnit{ClassID: class.ID, Name: "Indexing", OrderIndex: 1})
	db.Create(&models.ClassUnit{ClassID: class.ID, Name: "Relational model", OrderIndex: 0})

	detail, err := svc.GetDetail(class.ID)
	if err != nil {
		t.Fatalf("GetDetail() error: %v", err)
	}
	if detail.MemberCount != 2 {
		t.Errorf("member count = %d, expected 2", detail.MemberCount)
	}
	if len(detail.Units) != 2 || detail.Units[0].Name != "Relational model" {
		t.Errorf("units not ordered by index: %+v", detail.Units)
	}
}

func TestRemoveMember_CreatorCannotLeave(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db)
	creator := createTestUser(t, db, "creator")

	class, _ := svc.Create(&CreateClassRequest{Name: "Ethics"}, creator.ID)

	err := svc.RemoveMember(class.ID, creator.ID, creator.ID)
	if err == nil {
		t.Fatal("the creator must not be removable without a transfer")
	}
	assertConflict(t, err)
}

func TestRemoveMember_StudentMayLeave(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db)
	creator := createTestUser(t, db, "creator")
	student := createTestUser(t, db, "student")

	class, _ := svc.Create(&CreateClassRequest{Name: "Statistics"}, creator.ID)
	db.Create(&models.ClassMember{
		ClassID: class.ID, UserID: student.ID,
		Role: models.MemberRoleStudent, JoinedAt: time.Now(),
	})

	// A third student cannot remove someone else
	outsider := createTestUser(t, db, "outsider")
	if err := svc.RemoveMember(class.ID, student.ID, outsider.ID); err == nil {
		t.Error("a non-creator cannot remove another member")
	}

	if err := svc.RemoveMember(class.ID, student.ID, student.ID); err != nil {
		t.Fatalf("self-removal error: %v", err)
	}

	var count int64
	db.Model(&models.ClassMember{}).
		Where("class_id = ? AND user_id = ?", class.ID, student.ID).
		Count(&count)
	if count != 0 {
		t.Error("membership row should be gone after leaving")
	}
}

func TestTransferCreator_Success(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	class, _ := svc.Create(&CreateClassRequest{Name: "Linear Algebra"}, alice.ID)
	db.Create(&models.ClassMember{
		ClassID: class.ID, UserID: bob.ID,
		Role: models.MemberRoleStudent, JoinedAt: time.Now(),
	})

	transferred, err := svc.TransferCreator(class.ID, alice.ID, bob.Email)
	if err != nil {
		t.Fatalf("TransferCreator() error: %v", err)
	}
	if transferred.CreatorID != bob.ID {
		t.Errorf("creator_id = %d, expected %d", transferred.CreatorID, bob.ID)
	}

	var bobMember, aliceMember models.ClassMember
	db.Where("class_id = ? AND user_id = ?", class.ID, bob.ID).First(&bobMember)
	db.Where("class_id = ? AND user_id = ?", class.ID, alice.ID).First(&aliceMember)

	if bobMember.Role != models.MemberRoleCreator {
		t.Errorf("target role = %q, expected creator", bobMember.Role)
	}
	if aliceMember.Role != models.MemberRoleStudent {
		t.Errorf("former creator role = %q, expected student", aliceMember.Role)
	}

	// Exactly one creator remains
	var creatorCount int64
	db.Model(&models.ClassMember{}).
		Where("class_id = ? AND role = ?", class.ID, models.MemberRoleCreator).
		Count(&creatorCount)
	if creatorCount != 1 {
		t.Errorf("creator member rows = %d, expected exactly 1", creatorCount)
	}
}

func TestTransferCreator_StaleCallerFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	class, _ := svc.Create(&CreateClassRequest{Name: "Astronomy"}, alice.ID)
	for _, u := range []*models.User{bob, carol} {
		db.Create(&models.ClassMember{
			ClassID: class.ID, UserID: u.ID,
			Role: models.MemberRoleStudent, JoinedAt: time.Now(),
		})
	}

	if _, err := svc.TransferCreator(class.ID, alice.ID, bob.Email); err != nil {
		t.Fatalf("first transfer error: %v", err)
	}

	// Alice no longer holds the role; her second attempt must fail
	_, err := svc.TransferCreator(class.ID, alice.ID, carol.Email)
	if err == nil {
		t.Fatal("a transfer by a former creator should fail")
	}

	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected an AppError, got %T", err)
	}
	if appErr.Code != 403 && appErr.Code != 409 {
		t.Errorf("error code = %d, expected 403 or 409", appErr.Code)
	}

	var reloaded models.Class
	db.First(&reloaded, class.ID)
	if reloaded.CreatorID != bob.ID {
		t.Errorf("creator_id = %d, expected %d (no partial mutation)", reloaded.CreatorID, bob.ID)
	}
}

func TestTransferCreator_PreconditionErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	class, _ := svc.Create(&CreateClassRequest{Name: "Chemistry"}, alice.ID)

	// Target email does not resolve to a user
	_, err := svc.TransferCreator(class.ID, alice.ID, "ghost@campus.test")
	if err == nil || err.Error() != "target user not found" {
		t.Errorf("unknown email: got %v, expected target-not-found", err)
	}

	// Target exists but is not a member
	_, err = svc.TransferCreator(class.ID, alice.ID, bob.Email)
	if err == nil || err.Error() != "target user is not a member of this class" {
		t.Errorf("non-member target: got %v, expected not-a-member", err)
	}

	// Target is already the creator
	_, err = svc.TransferCreator(class.ID, alice.ID, alice.Email)
	if err == nil || err.Error() != "target user is already the creator" {
		t.Errorf("self transfer: got %v, expected already-creator", err)
	}

	// Nothing changed
	var reloaded models.Class
	db.First(&reloaded, class.ID)
	if reloaded.CreatorID != alice.ID {
		t.Error("failed preconditions must not mutate the class")
	}
}
