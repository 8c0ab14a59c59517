package models

import "time"

// ProjectMember is the membership row linking a user to a shared project.
// The owner never appears here; owner access is derived from projects.owner_id.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
