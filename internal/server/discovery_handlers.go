package server

import (
	"kindling/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetDiscovery handles GET /api/v1/discovery
func (s *Server) GetDiscovery(c *fiber.Ctx) error {
	candidates, prefs, err := s.discoveryService.Discover(c.Context(), s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"users":       candidates,
		"preferences": prefs,
	})
}

// Swipe handles POST /api/v1/discovery/swipe
func (s *Server) Swipe(c *fiber.Ctx) error {
	var req struct {
		TargetUserID uint  `json:"targetUserId"`
		Liked        *bool `json:"liked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Liked == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("liked is required"))
	}

	result, err := s.discoveryService.Swipe(c.Context(), s.currentUserID(c), req.TargetUserID, *req.Liked)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetLikedYouCount handles GET /api/v1/discovery/likes/count
func (s *Server) GetLikedYouCount(c *fiber.Ctx) error {
	count, err := s.discoveryService.LikedYouCount(c.Context(), s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
