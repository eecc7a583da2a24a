package models

import (
	"time"
)

// Like represents a user's like on a project.
// The combination of UserID and ProjectID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_project" json:"user_id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_user_project" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}
