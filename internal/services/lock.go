package services

import (
	"errors"
	"time"

	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
	"gorm.io/gorm"
)

// LockService serializes edits to a diagram behind a single advisory lock.
//
// Conflict policy: acquiring a diagram locked by someone else does not fail;
// the caller receives the current lock without gaining write access, so a
// polling UI can show who is editing. The policy is applied uniformly (lock
// theft is impossible regardless of caller).
//
// Atomicity: there is at most one lock row per diagram (unique index). An
// acquire is a single conditional UPDATE whose precondition is "unlocked or
// already mine"; creation of a missing row races on the unique index. Two
// callers can never both observe UNLOCKED and both win.
type LockService struct {
	db       *gorm.DB
	diagrams *DiagramService
}

func NewLockService(db *gorm.DB) *LockService {
	return &LockService{
		db:       db,
		diagrams: NewDiagramService(db),
	}
}

// Acquire claims the diagram lock for the user, or refreshes it when the
// user already holds it (the heartbeat path). When another user holds the
// lock, the existing lock is returned with acquired=false.
func (s *LockService) Acquire(diagramID, userID uint) (*models.DiagramLock, bool, error) {
	diagram, err := s.diagrams.load(diagramID, userID)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()

	// Snapshot used only to label the published event; the conditional
	// update below is what decides the winner.
	action := LockActionLocked
	if prev, err := s.activeLock(diagramID); err == nil && prev != nil && prev.UserID == userID {
		action = LockActionRefreshed
	}

	// Two rounds cover the insert race and a release happening between the
	// failed update and the re-read.
	for attempt := 0; attempt < 2; attempt++ {
		res := s.db.Model(&models.DiagramLock{}).
			Where("diagram_id = ? AND (is_active = ? OR user_id = ?)", diagramID, false, userID).
			Updates(map[string]interface{}{
				"user_id":   userID,
				"locked_at": now,
				"is_active": true,
			})
		if res.Error != nil {
			return nil, false, res.Error
		}
		if res.RowsAffected == 1 {
			lock, err := s.activeLock(diagramID)
			if err != nil {
				return nil, false, err
			}
			PublishLockEvent(diagramID, diagram.ProjectID, userID, action, now)
			return lock, true, nil
		}

		var existing models.DiagramLock
		err := s.db.Where("diagram_id = ?", diagramID).First(&existing).Error
		switch {
		case err == nil:
			if existing.IsActive && existing.UserID != userID {
				// Held by someone else: report, do not grant.
				s.db.Preload("User").Where("diagram_id = ?", diagramID).First(&existing)
				return &existing, false, nil
			}
			// Row flipped under us; retry the conditional update.
		case errors.Is(err, gorm.ErrRecordNotFound):
			lock := models.DiagramLock{
				DiagramID: diagramID,
				UserID:    userID,
				LockedAt:  now,
				IsActive:  true,
			}
			createErr := s.db.Create(&lock).Error
			if createErr == nil {
				PublishLockEvent(diagramID, diagram.ProjectID, userID, LockActionLocked, now)
				return &lock, true, nil
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return nil, false, createErr
			}
			// Lost the insert race; loop re-reads the winner.
		default:
			return nil, false, err
		}
	}

	// A competing writer won both rounds; report the current holder.
	lock, err := s.activeLock(diagramID)
	if err != nil {
		return nil, false, err
	}
	if lock == nil {
		return nil, false, response.NewConflict("diagram lock is contended, retry")
	}
	return lock, lock.UserID == userID, nil
}

// Release frees the lock if the caller holds it. Releasing a lock you do not
// hold is a silent no-op so duplicate or late unlock calls are harmless.
func (s *LockService) Release(diagramID, userID uint) error {
	diagram, err := s.diagrams.load(diagramID, userID)
	if err != nil {
		return err
	}

	res := s.db.Model(&models.DiagramLock{}).
		Where("diagram_id = ? AND user_id = ? AND is_active = ?", diagramID, userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 1 {
		PublishLockEvent(diagramID, diagram.ProjectID, userID, LockActionUnlocked, time.Now())
	}
	return nil
}

// Get returns the active lock on a diagram, or NotFound when it is unlocked.
func (s *LockService) Get(diagramID, userID uint) (*models.DiagramLock, error) {
	if _, err := s.diagrams.load(diagramID, userID); err != nil {
		return nil, err
	}

	lock, err := s.activeLock(diagramID)
	if err != nil {
		return nil, err
	}
	if lock == nil {
		return nil, response.NewNotFound("diagram is not locked")
	}
	return lock, nil
}

// ReleaseAllForUser frees every lock the user holds, across all diagrams.
// Called on logout so a vanished session cannot strand other editors.
func (s *LockService) ReleaseAllForUser(userID uint) error {
	var held []models.DiagramLock
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&held).Error; err != nil {
		return err
	}
	if len(held) == 0 {
		return nil
	}

	if err := s.db.Model(&models.DiagramLock{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, lock := range held {
		var diagram models.Diagram
		if err := s.db.Select("id", "project_id").First(&diagram, lock.DiagramID).Error; err == nil {
			PublishLockEvent(lock.DiagramID, diagram.ProjectID, userID, LockActionUnlocked, now)
		}
	}
	return nil
}

func (s *LockService) activeLock(diagramID uint) (*models.DiagramLock, error) {
	var lock models.DiagramLock
	err := s.db.Preload("User").
		Where("diagram_id = ? AND is_active = ?", diagramID, true).
		First(&lock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lock, nil
}
