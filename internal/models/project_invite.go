package models

import "time"

// ProjectInvite is a shareable, time-bounded token granting project
// membership on acceptance. Invites are multi-use: accepting does not
// consume them. Expiry is checked lazily at read time.
type ProjectInvite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"token"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProjectInvite) TableName() string { return "project_invites" }

// IsExpired reports whether the invite's expiry timestamp has passed.
func (i *ProjectInvite) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsValid reports whether the invite can still be accepted.
func (i *ProjectInvite) IsValid() bool {
	return i.IsActive && !i.IsExpired()
}
