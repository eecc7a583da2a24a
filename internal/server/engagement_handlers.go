package server

import (
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/projects/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleLike(c.UserContext(), currentUserID(c), projectID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// createCommentRequest is the body for POST /api/projects/:id/comments
type createCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/projects/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.engagementService.AddComment(c.UserContext(), service.AddCommentInput{
		ActorID:   currentUserID(c),
		ProjectID: projectID,
		Content:   req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
