package server

import (
	"github.com/gofiber/fiber/v2"
)

// OwnFame returns the caller's fame profile across all expertise areas.
func (s *Server) OwnFame(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.renderFame(c, user.ID)
}

// UserFame returns another user's fame profile.
func (s *Server) UserFame(c *fiber.Ctx) error {
	if _, err := s.requireActiveUser(c); err != nil {
		return respondServiceError(c, err)
	}
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.renderFame(c, userID)
}

func (s *Server) renderFame(c *fiber.Ctx, userID uint) error {
	user, entries, err := s.fameService.Fame(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user": toUserResponse(user),
		"fame": entries,
	})
}

// Bullshitters returns the per-area leaderboard of users with negative fame,
// worst reputation first.
func (s *Server) Bullshitters(c *fiber.Ctx) error {
	if _, err := s.requireActiveUser(c); err != nil {
		return respondServiceError(c, err)
	}
	areas, err := s.fameService.Bullshitters(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"areas": areas})
}

// SimilarUsers ranks other users by how closely their fame profile agrees
// with the caller's across the caller's expertise areas.
func (s *Server) SimilarUsers(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	similar, err := s.fameService.SimilarUsers(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": similar, "count": len(similar)})
}
