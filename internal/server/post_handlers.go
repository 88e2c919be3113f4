package server

import (
	"famenet/internal/models"
	"famenet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitPost accepts a new post, runs the publication pipeline, and reports
// the outcome. A submission that got its author banned carries
// forced_logout so the client terminates the session.
func (s *Server) SubmitPost(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Content     string `json:"content"`
		CitesID     *uint  `json:"cites_id"`
		RepliesToID *uint  `json:"replies_to_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	result, err := s.postService.SubmitPost(c.UserContext(), service.SubmitPostInput{
		UserID:      user.ID,
		Content:     req.Content,
		CitesID:     req.CitesID,
		RepliesToID: req.RepliesToID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetPost returns a single post with author and per-area verdicts.
func (s *Server) GetPost(c *fiber.Ctx) error {
	if _, err := s.requireActiveUser(c); err != nil {
		return respondServiceError(c, err)
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// RatePost records or updates the caller's rating of another user's post.
func (s *Server) RatePost(c *fiber.Ctx) error {
	user, err := s.requireActiveUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Type  string `json:"type"`
		Score int    `json:"score"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	result, err := s.postService.RatePost(c.UserContext(), user.ID, postID, req.Type, req.Score)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
