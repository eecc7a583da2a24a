// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"fmt"
	"log"
	"math/rand"

	"folio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumProjects int
	ShouldClean bool
}

var categoryNames = []string{
	"Web Development", "Mobile", "Machine Learning", "DevOps", "Games", "Data Visualization",
}

var tagNames = []string{
	"go", "python", "javascript", "react", "docker", "kubernetes",
	"postgres", "redis", "terraform", "grafana", "svelte", "wasm",
}

// Seed populates the database with demo data. Counters on projects are
// derived from the generated likes and comments so the seeded state satisfies
// the same consistency the engagement engine maintains.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d projects...", opts.NumUsers, opts.NumProjects)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("warning: could not clear all existing data, continuing anyway")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}

	tags, err := createTags(db)
	if err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}

	projects, err := createProjects(db, users, categories, tags, opts.NumProjects)
	if err != nil {
		return fmt.Errorf("failed to create projects: %w", err)
	}
	log.Printf("created %d projects", len(projects))

	if err := createEngagement(db, users, projects); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	if err := createAbout(db); err != nil {
		return fmt.Errorf("failed to create about profile: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	tables := []interface{}{
		&models.Notification{},
		&models.Like{},
		&models.Comment{},
		&models.ProjectTag{},
		&models.Project{},
		&models.Tag{},
		&models.Category{},
		&models.About{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	if count < 1 {
		count = 1
	}
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		email := gofakeit.Email()
		user := &models.User{
			ExternalID:      gofakeit.UUID(),
			Email:           &email,
			FirstName:       gofakeit.FirstName(),
			LastName:        gofakeit.LastName(),
			ProfileImageURL: gofakeit.ImageURL(200, 200),
		}
		// First user is the site owner and an admin.
		if i == 0 {
			user.IsAdmin = true
			user.IsOwner = true
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(db *gorm.DB) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category := &models.Category{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createTags(db *gorm.DB) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag := &models.Tag{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func createProjects(db *gorm.DB, users []*models.User, categories []*models.Category, tags []*models.Tag, count int) ([]*models.Project, error) {
	author := users[0]
	projects := make([]*models.Project, 0, count)

	for i := 0; i < count; i++ {
		status := models.ProjectStatusPublished
		if rand.Intn(4) == 0 {
			status = models.ProjectStatusDraft
		}
		category := categories[rand.Intn(len(categories))]
		project := &models.Project{
			Title:       gofakeit.ProductName(),
			Description: gofakeit.Sentence(12),
			Content:     gofakeit.Paragraph(3, 4, 10, "\n\n"),
			GithubURL:   "https://github.com/" + gofakeit.Username() + "/" + gofakeit.Word(),
			DemoURL:     gofakeit.URL(),
			ImageURL:    gofakeit.ImageURL(800, 450),
			Status:      status,
			IsFeatured:  i < 3,
			AuthorID:    author.ID,
			CategoryID:  &category.ID,
			Views:       rand.Intn(500),
		}
		if err := db.Create(project).Error; err != nil {
			return nil, err
		}

		picked := rand.Perm(len(tags))[:2+rand.Intn(3)]
		for _, idx := range picked {
			pt := models.ProjectTag{ProjectID: project.ID, TagID: tags[idx].ID}
			if err := db.Create(&pt).Error; err != nil {
				return nil, err
			}
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func createEngagement(db *gorm.DB, users []*models.User, projects []*models.Project) error {
	for _, project := range projects {
		if !project.Published() {
			continue
		}

		likeCount := 0
		for _, user := range users {
			if rand.Intn(3) != 0 {
				continue
			}
			like := models.Like{UserID: user.ID, ProjectID: project.ID}
			if err := db.Create(&like).Error; err != nil {
				return err
			}
			likeCount++
		}

		commentCount := rand.Intn(4)
		for i := 0; i < commentCount; i++ {
			user := users[rand.Intn(len(users))]
			comment := models.Comment{
				Content:   gofakeit.Sentence(10),
				UserID:    user.ID,
				ProjectID: project.ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}

		if err := db.Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]interface{}{
				"likes_count":    likeCount,
				"comments_count": commentCount,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func createAbout(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.About{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	about := models.About{
		Name:         gofakeit.Name(),
		Title:        gofakeit.JobTitle(),
		Bio:          gofakeit.Paragraph(2, 3, 12, "\n\n"),
		Location:     gofakeit.City(),
		Email:        gofakeit.Email(),
		LinkedinURL:  "https://linkedin.com/in/" + gofakeit.Username(),
		GithubURL:    "https://github.com/" + gofakeit.Username(),
		ProfileImage: gofakeit.ImageURL(400, 400),
		Skills:       `["Go","PostgreSQL","Redis","Docker"]`,
		Languages:    `["English","Spanish"]`,
		Interests:    `["Open source","Photography","Climbing"]`,
	}
	return db.Create(&about).Error
}
