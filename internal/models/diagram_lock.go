package models

import "time"

// DiagramLock is an advisory single-holder claim on a diagram. The unique
// index on diagram_id keeps at most one lock row per diagram, so the
// "at most one active lock" invariant is structural: acquisition is either a
// conditional UPDATE of the existing row or an INSERT racing on the index.
type DiagramLock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DiagramID uint      `gorm:"uniqueIndex;not null" json:"diagram_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	LockedAt  time.Time `json:"locked_at"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

func (DiagramLock) TableName() string { return "diagram_locks" }
