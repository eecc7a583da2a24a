package server

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"folio/internal/auth"
	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

const stateCookie = "oauth_state"

// Login handles GET /api/auth/login by redirecting to the identity provider.
// A random state value is pinned in a short-lived cookie and checked on the
// way back.
func (s *Server) Login(c *fiber.Ctx) error {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	state := hex.EncodeToString(buf)

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(s.provider.AuthCodeURL(state), fiber.StatusFound)
}

// AuthCallback handles GET /api/auth/callback. It validates state, exchanges
// the code, resolves the external identity to a local user and issues the
// service's own session token.
func (s *Server) AuthCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid OAuth state"))
	}
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing authorization code"))
	}

	token, err := s.provider.Exchange(c.UserContext(), code)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization code exchange failed"))
	}

	info, err := s.provider.FetchUserInfo(c.UserContext(), token)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Failed to fetch identity"))
	}

	user, err := s.userService.ResolveLogin(c.UserContext(), info)
	if err != nil {
		return respondServiceError(c, err)
	}

	session, err := auth.IssueToken(s.config.JWTSecret, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": session,
		"user":  user,
	})
}
