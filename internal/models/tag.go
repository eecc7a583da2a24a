package models

import "time"

// Tag is a free-form label attachable to projects.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:30;unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectTag is the project/tag association row. A project's tag set is the
// set of ProjectTag rows for it; the unique pair prevents duplicate tags on
// the same project.
type ProjectTag struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProjectID uint `gorm:"not null;uniqueIndex:idx_project_tag" json:"project_id"`
	TagID     uint `gorm:"not null;uniqueIndex:idx_project_tag" json:"tag_id"`
}
