package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/ValterGames-Coder/IDMS/internal/models"
)

func TestAcquire_Fresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "d1")

	lock, acquired, err := svc.Acquire(diagram.ID, owner.ID)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !acquired {
		t.Error("fresh acquire should succeed")
	}
	if lock.UserID != owner.ID {
		t.Errorf("lock holder = %d, expected %d", lock.UserID, owner.ID)
	}
	if !lock.IsActive {
		t.Error("lock should be active")
	}
}

func TestAcquire_RefreshByHolder(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "d1")

	first, _, err := svc.Acquire(diagram.ID, owner.ID)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	second, acquired, err := svc.Acquire(diagram.ID, owner.ID)
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if !acquired {
		t.Error("holder re-acquire should succeed")
	}
	if second.ID != first.ID {
		t.Errorf("refresh created a new row: %d != %d", second.ID, first.ID)
	}
	if !second.LockedAt.Equal(first.LockedAt) && second.LockedAt.Before(first.LockedAt) {
		t.Error("refresh should not move locked_at backwards")
	}

	var count int64
	db.Model(&models.DiagramLock{}).Where("diagram_id = ?", diagram.ID).Count(&count)
	if count != 1 {
		t.Errorf("lock rows = %d, expected 1", count)
	}
}

func TestAcquire_HeldByOther(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	project := createTestProject(t, db, owner.ID, "p1")
	addTestMember(t, db, project.ID, member.ID)
	diagram := createTestDiagram(t, db, project.ID, "d1")

	if _, _, err := svc.Acquire(diagram.ID, owner.ID); err != nil {
		t.Fatalf("owner Acquire: %v", err)
	}

	lock, acquired, err := svc.Acquire(diagram.ID, member.ID)
	if err != nil {
		t.Fatalf("member Acquire: %v", err)
	}
	if acquired {
		t.Error("acquire on a held lock must not steal it")
	}
	if lock.UserID != owner.ID {
		t.Errorf("reported holder = %d, expected owner %d", lock.UserID, owner.ID)
	}

	// The holder is unaffected.
	current, err := svc.Get(diagram.ID, owner.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if current.UserID != owner.ID {
		t.Error("holder changed after contended acquire")
	}
}

func TestAcquire_AccessDenied(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "d1")

	_, _, err := svc.Acquire(diagram.ID, stranger.ID)
	assertStatus(t, err, http.StatusForbidden)

	_, _, err = svc.Acquire(9999, owner.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestRelease_ThenReacquire(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	project := createTestProject(t, db, owner.ID, "p1")
	addTestMember(t, db, project.ID, member.ID)
	diagram := createTestDiagram(t, db, project.ID, "d1")

	if _, _, err := svc.Acquire(diagram.ID, owner.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := svc.Release(diagram.ID, owner.ID); err != nil {
		t.Fatalf("Release: %v", err)
	}

	lock, acquired, err := svc.Acquire(diagram.ID, member.ID)
	if err != nil {
		t.Fatalf("re-Acquire: %v", err)
	}
	if !acquired {
		t.Error("acquire after release should succeed")
	}
	if lock.UserID != member.ID {
		t.Errorf("new holder = %d, expected %d", lock.UserID, member.ID)
	}
}

func TestRelease_NotHolderIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	project := createTestProject(t, db, owner.ID, "p1")
	addTestMember(t, db, project.ID, member.ID)
	diagram := createTestDiagram(t, db, project.ID, "d1")

	if _, _, err := svc.Acquire(diagram.ID, owner.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if err := svc.Release(diagram.ID, member.ID); err != nil {
		t.Fatalf("non-holder Release should be silent, got %v", err)
	}

	lock, err := svc.Get(diagram.ID, owner.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if lock.UserID != owner.ID || !lock.IsActive {
		t.Error("owner's lock should survive a non-holder release")
	}
}

func TestRelease_Unlocked(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "d1")

	if err := svc.Release(diagram.ID, owner.ID); err != nil {
		t.Errorf("release of an unlocked diagram should be silent, got %v", err)
	}
}

func TestGet_Unlocked(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "d1")

	_, err := svc.Get(diagram.ID, owner.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestReleaseAllForUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	project := createTestProject(t, db, owner.ID, "p1")
	addTestMember(t, db, project.ID, other.ID)
	d1 := createTestDiagram(t, db, project.ID, "d1")
	d2 := createTestDiagram(t, db, project.ID, "d2")
	d3 := createTestDiagram(t, db, project.ID, "d3")

	for _, d := range []uint{d1.ID, d2.ID} {
		if _, _, err := svc.Acquire(d, owner.ID); err != nil {
			t.Fatalf("Acquire %d: %v", d, err)
		}
	}
	if _, _, err := svc.Acquire(d3.ID, other.ID); err != nil {
		t.Fatalf("Acquire d3: %v", err)
	}

	if err := svc.ReleaseAllForUser(owner.ID); err != nil {
		t.Fatalf("ReleaseAllForUser: %v", err)
	}

	var active int64
	db.Model(&models.DiagramLock{}).Where("user_id = ? AND is_active = ?", owner.ID, true).Count(&active)
	if active != 0 {
		t.Errorf("owner still holds %d locks", active)
	}

	// Other users' locks survive.
	lock, err := svc.Get(d3.ID, other.ID)
	if err != nil {
		t.Fatalf("Get d3: %v", err)
	}
	if lock.UserID != other.ID {
		t.Error("unrelated lock was released")
	}
}

func TestReleaseAllForUser_NoLocks(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	user := createTestUser(t, db, "u1")
	if err := svc.ReleaseAllForUser(user.ID); err != nil {
		t.Errorf("ReleaseAllForUser with no locks: %v", err)
	}
}

func TestAcquire_PublishesEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "d1")

	hub := GetLockEventHub()
	events := hub.Subscribe("lock-test-client")
	defer hub.Unsubscribe("lock-test-client")

	if _, _, err := svc.Acquire(diagram.ID, owner.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	select {
	case event := <-events:
		if event.Action != LockActionLocked {
			t.Errorf("action = %q, expected %q", event.Action, LockActionLocked)
		}
		if event.DiagramID != diagram.ID || event.UserID != owner.ID {
			t.Error("event carries wrong identifiers")
		}
	case <-time.After(time.Second):
		t.Fatal("no lock event published")
	}
}
