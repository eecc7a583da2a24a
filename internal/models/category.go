package models

import "time"

// Category groups projects for catalog filtering. Projects reference a
// category but are never required to have one.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;unique;not null" json:"name"`
	Color     string    `gorm:"size:7;default:#007bff" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}
