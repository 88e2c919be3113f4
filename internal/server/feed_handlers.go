package server

import (
	"famenet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Timeline returns the caller's feed. With community=true the feed is
// restricted to posts sharing at least one community between reader and
// author; a caller without memberships gets an empty feed. unpublished=true
// flips the published filter so moderators can inspect withheld posts.
func (s *Server) Timeline(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	start, end, err := parseWindow(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	posts, err := s.feedService.Timeline(c.UserContext(), service.TimelineInput{
		UserID:        user.ID,
		Start:         start,
		End:           end,
		Published:     !c.QueryBool("unpublished", false),
		CommunityMode: c.QueryBool("community", false),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts, "count": len(posts)})
}

// Search returns published posts whose content or author identity matches
// the keyword.
func (s *Server) Search(c *fiber.Ctx) error {
	if _, err := s.requireActiveUser(c); err != nil {
		return respondServiceError(c, err)
	}
	start, end, err := parseWindow(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	posts, err := s.feedService.Search(c.UserContext(), c.Query("q"), start, end)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts, "count": len(posts)})
}
