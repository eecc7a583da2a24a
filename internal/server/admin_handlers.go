package server

import (
	"io"
	"strconv"
	"strings"

	"folio/internal/models"
	"folio/internal/service"
	"folio/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard handles GET /api/admin/dashboard
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	view, err := s.catalogService.Dashboard(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// AdminGetProjects handles GET /api/admin/projects
func (s *Server) AdminGetProjects(c *fiber.Ctx) error {
	page, err := s.catalogService.AdminListProjects(c.UserContext(), service.AdminListInput{
		Status: c.Query("status"),
		Page:   parsePage(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// CreateProject handles POST /api/admin/projects. The body is a multipart
// form so the project image can ride along with the fields.
func (s *Server) CreateProject(c *fiber.Ctx) error {
	in, ok := s.parseProjectForm(c)
	if !ok {
		return nil
	}
	in.AuthorID = currentUserID(c)

	project, err := s.projectService.SaveProject(c.UserContext(), *in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject handles PUT /api/admin/projects/:id. Saves are whole-record
// overwrites: omitted fields are cleared, and the submitted tag list replaces
// the stored set.
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in, ok := s.parseProjectForm(c)
	if !ok {
		return nil
	}
	in.ID = projectID
	in.AuthorID = currentUserID(c)

	project, err := s.projectService.SaveProject(c.UserContext(), *in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(project)
}

// DeleteProject handles DELETE /api/admin/projects/:id
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.projectService.DeleteProject(c.UserContext(), projectID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project deleted"})
}

// UpdateAbout handles PUT /api/admin/about
func (s *Server) UpdateAbout(c *fiber.Ctx) error {
	var about models.About
	if err := c.BodyParser(&about); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.aboutService.Update(c.UserContext(), &about)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(updated)
}

// parseProjectForm reads the multipart project form. On a malformed form it
// writes the 400 response itself and returns ok=false.
func (s *Server) parseProjectForm(c *fiber.Ctx) (*service.SaveProjectInput, bool) {
	in := &service.SaveProjectInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Content:     c.FormValue("content"),
		GithubURL:   c.FormValue("github_url"),
		DemoURL:     c.FormValue("demo_url"),
		Status:      models.ProjectStatus(c.FormValue("status")),
		IsFeatured:  c.FormValue("is_featured") == "true",
	}

	if raw := c.FormValue("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid category"))
			return nil, false
		}
		categoryID := uint(id)
		in.CategoryID = &categoryID
	}

	if raw := c.FormValue("tags"); raw != "" {
		in.Tags = strings.Split(raw, ",")
	}

	file, err := c.FormFile("image")
	if err == nil && file != nil {
		if err := validation.ValidateImageUpload(file.Filename, file.Size); err != nil {
			_ = respondServiceError(c, err)
			return nil, false
		}
		f, err := file.Open()
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unreadable image upload"))
			return nil, false
		}
		defer func() { _ = f.Close() }()
		content, err := io.ReadAll(f)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unreadable image upload"))
			return nil, false
		}
		in.Image = &service.ImageUpload{Filename: file.Filename, Content: content}
	}

	return in, true
}
