package server

import (
	"famenet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Follow makes the caller follow another user.
func (s *Server) Follow(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	result, err := s.socialService.Follow(c.UserContext(), user.ID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// Unfollow removes a follow relationship.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	result, err := s.socialService.Unfollow(c.UserContext(), user.ID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// Follows lists the users the caller follows.
func (s *Server) Follows(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	start, end, err := parseWindow(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	users, err := s.socialService.Follows(c.UserContext(), user.ID, start, end)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": toUserResponses(users), "count": len(users)})
}

// Followers lists the users following the caller.
func (s *Server) Followers(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	start, end, err := parseWindow(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	users, err := s.socialService.Followers(c.UserContext(), user.ID, start, end)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": toUserResponses(users), "count": len(users)})
}

func toUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}
