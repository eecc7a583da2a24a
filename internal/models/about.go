package models

import "time"

// About holds the single owner profile rendered on the about page.
// Skills, Languages and Interests are stored as JSON-encoded strings,
// matching the shape the presentation layer consumes.
type About struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100" json:"name"`
	Title        string    `gorm:"size:200" json:"title"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Location     string    `gorm:"size:100" json:"location"`
	Email        string    `gorm:"size:120" json:"email"`
	LinkedinURL  string    `gorm:"size:500" json:"linkedin_url"`
	GithubURL    string    `gorm:"size:500" json:"github_url"`
	ProfileImage string    `gorm:"size:500" json:"profile_image"`
	ResumeURL    string    `gorm:"size:500" json:"resume_url"`
	Skills       string    `gorm:"type:text" json:"skills"`
	Languages    string    `gorm:"type:text" json:"languages"`
	Interests    string    `gorm:"type:text" json:"interests"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
