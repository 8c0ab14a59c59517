package services

import (
	"testing"
	"time"

	"github.com/ValterGames-Coder/IDMS/internal/config"
	"github.com/ValterGames-Coder/IDMS/internal/models"
)

func TestRunCleanup_PurgesOnlyDeadRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db, &config.SystemConfig{
		LogRetentionDays:  30,
		InvitePurgeDays:   30,
		LockRowRetainDays: 7,
	})

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	d1 := createTestDiagram(t, db, project.ID, "d1")
	d2 := createTestDiagram(t, db, project.ID, "d2")

	// Invite expired long ago, invite freshly expired, invite still live.
	dead := createTestInvite(t, db, project.ID, owner.ID, time.Now().AddDate(0, 0, -60), true)
	recent := createTestInvite(t, db, project.ID, owner.ID, time.Now().Add(-time.Hour), true)
	live := createTestInvite(t, db, project.ID, owner.ID, time.Now().Add(time.Hour), true)

	// Lock released months ago, lock currently held.
	db.Create(&models.DiagramLock{DiagramID: d1.ID, UserID: owner.ID, LockedAt: time.Now().AddDate(0, 0, -30), IsActive: false})
	db.Create(&models.DiagramLock{DiagramID: d2.ID, UserID: owner.ID, LockedAt: time.Now().AddDate(0, 0, -30), IsActive: true})

	svc.RunCleanup()

	var inviteIDs []uint
	db.Model(&models.ProjectInvite{}).Order("id").Pluck("id", &inviteIDs)
	if len(inviteIDs) != 2 {
		t.Fatalf("invites remaining = %d, expected 2", len(inviteIDs))
	}
	for _, id := range inviteIDs {
		if id == dead.ID {
			t.Error("long-dead invite should be purged")
		}
	}
	if inviteIDs[0] != recent.ID || inviteIDs[1] != live.ID {
		t.Error("recently expired and live invites must survive")
	}

	var lockIDs []uint
	db.Model(&models.DiagramLock{}).Pluck("diagram_id", &lockIDs)
	if len(lockIDs) != 1 || lockIDs[0] != d2.ID {
		t.Errorf("only the active lock should survive, got diagram ids %v", lockIDs)
	}
}

func TestRunCleanup_DisabledByZeroConfig(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db, &config.SystemConfig{})

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	createTestInvite(t, db, project.ID, owner.ID, time.Now().AddDate(0, 0, -365), true)

	svc.RunCleanup()

	var count int64
	db.Model(&models.ProjectInvite{}).Count(&count)
	if count != 1 {
		t.Error("zeroed retention settings must disable purging")
	}
}
