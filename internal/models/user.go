// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated identity in the Folio application.
// ExternalID is the subject issued by the external identity provider;
// exactly one User row exists per external subject.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ExternalID      string         `gorm:"uniqueIndex;not null" json:"-"`
	Email           *string        `gorm:"unique" json:"email,omitempty"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	ProfileImageURL string         `json:"profile_image_url"`
	IsAdmin         bool           `gorm:"default:false" json:"is_admin"`
	IsOwner         bool           `gorm:"default:false" json:"is_owner"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// DisplayName returns the name shown in notification messages.
// Falls back to a generic placeholder when the provider supplied no name.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Someone"
}
