package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMatches handles GET /api/v1/match
func (s *Server) GetMatches(c *fiber.Ctx) error {
	matches, err := s.matchService.ListMatches(c.Context(), s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches})
}

// GetMatchChannel handles GET /api/v1/match/:matchId/channel
func (s *Server) GetMatchChannel(c *fiber.Ctx) error {
	matchID, err := s.parseID(c, "matchId", "match ID")
	if err != nil {
		return nil
	}

	channel, err := s.matchService.GetChannel(c.Context(), s.currentUserID(c), matchID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(channel)
}

// Unmatch handles DELETE /api/v1/match/unmatch/:matchId
func (s *Server) Unmatch(c *fiber.Ctx) error {
	matchID, err := s.parseID(c, "matchId", "match ID")
	if err != nil {
		return nil
	}

	if err := s.matchService.Unmatch(c.Context(), s.currentUserID(c), matchID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unmatched successfully"})
}
