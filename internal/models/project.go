// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// ProjectStatus is the publication lifecycle state of a project.
type ProjectStatus string

const (
	// ProjectStatusDraft is the initial state; drafts are invisible to visitors.
	ProjectStatusDraft ProjectStatus = "draft"
	// ProjectStatusPublished makes a project visible in the public catalog.
	ProjectStatusPublished ProjectStatus = "published"
)

// Project represents a portfolio work item.
//
// Views, LikesCount and CommentsCount are denormalized counters. They are
// maintained exclusively by the engagement engine inside the same transaction
// as the association-row writes, so they always equal the row counts of the
// likes and comments tables.
type Project struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Content     string        `gorm:"type:text" json:"content"`
	GithubURL   string        `gorm:"size:500" json:"github_url"`
	DemoURL     string        `gorm:"size:500" json:"demo_url"`
	ImageURL    string        `gorm:"size:500" json:"image_url"`
	Status      ProjectStatus `gorm:"size:20;default:draft;index" json:"status"`
	IsFeatured  bool          `gorm:"default:false" json:"is_featured"`

	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Views         int `gorm:"default:0" json:"views"`
	LikesCount    int `gorm:"default:0" json:"likes_count"`
	CommentsCount int `gorm:"default:0" json:"comments_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Published reports whether the project is visible to visitors.
func (p *Project) Published() bool {
	return p.Status == ProjectStatusPublished
}
