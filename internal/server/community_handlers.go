package server

import (
	"famenet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Communities lists the expertise-area communities the caller belongs to.
func (s *Server) Communities(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	areas, err := s.communityService.Communities(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"communities": areas, "count": len(areas)})
}

// JoinCommunity admits the caller into an expertise-area community.
// Membership requires Super Pro fame in that area; the eligibility check
// lives here at the boundary, the join itself is unconditional.
func (s *Server) JoinCommunity(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	areaID, err := parseUintParam(c, "areaID")
	if err != nil {
		return respondServiceError(c, err)
	}

	eligible, err := s.communityService.CanJoin(c.UserContext(), user.ID, areaID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if !eligible {
		return respondServiceError(c, models.NewUnauthorizedError("Super Pro fame in this area is required to join"))
	}

	result, err := s.communityService.Join(c.UserContext(), user.ID, areaID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// LeaveCommunity removes the caller from a community.
func (s *Server) LeaveCommunity(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	areaID, err := parseUintParam(c, "areaID")
	if err != nil {
		return respondServiceError(c, err)
	}
	result, err := s.communityService.Leave(c.UserContext(), user.ID, areaID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
