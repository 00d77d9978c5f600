package server

import (
	"kindling/internal/models"
	"kindling/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/v1/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateMyProfile handles PATCH /api/v1/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var update service.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), s.currentUserID(c), update)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUserProfile handles GET /api/v1/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "user ID")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetPreferences handles GET /api/v1/users/preferences
func (s *Server) GetPreferences(c *fiber.Ctx) error {
	prefs, err := s.userService.GetPreferences(c.Context(), s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"preferences": prefs})
}

// UpdatePreferences handles PATCH /api/v1/users/preferences
func (s *Server) UpdatePreferences(c *fiber.Ctx) error {
	var update service.PreferencesUpdate
	if err := c.BodyParser(&update); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	prefs, err := s.userService.UpdatePreferences(c.Context(), s.currentUserID(c), update)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"preferences": prefs})
}
