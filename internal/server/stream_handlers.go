package server

import (
	"errors"

	"kindling/internal/chat"
	"kindling/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetStreamToken handles GET /api/v1/stream/token. It issues a chat provider
// token for the authenticated user so the client can connect directly.
func (s *Server) GetStreamToken(c *fiber.Ctx) error {
	creds, err := s.matchService.ChatToken(c.Context(), s.currentUserID(c))
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				models.NewValidationError("Chat is not configured on this server"))
		}
		return respondServiceError(c, err)
	}
	return c.JSON(creds)
}
