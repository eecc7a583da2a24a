package server

import (
	"strconv"

	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetHomeFeed handles GET /api/home
func (s *Server) GetHomeFeed(c *fiber.Ctx) error {
	feed, err := s.catalogService.HomeFeed(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// GetProjects handles GET /api/projects with category, tag, search and page
// query parameters.
func (s *Server) GetProjects(c *fiber.Ctx) error {
	in := service.ListProjectsInput{
		TagName: c.Query("tag"),
		Search:  c.Query("search"),
		Page:    parsePage(c),
	}
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid category"))
		}
		categoryID := uint(id)
		in.CategoryID = &categoryID
	}

	page, err := s.catalogService.ListProjects(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetProject handles GET /api/projects/:id
func (s *Server) GetProject(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.catalogService.ProjectDetail(c.UserContext(), projectID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// GetProjectComments handles GET /api/projects/:id/comments
func (s *Server) GetProjectComments(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.catalogService.ProjectComments(c.UserContext(), projectID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.catalogService.Categories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.catalogService.Tags(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// GetAbout handles GET /api/about
func (s *Server) GetAbout(c *fiber.Ctx) error {
	about, err := s.aboutService.Get(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(about)
}
