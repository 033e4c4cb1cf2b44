package server

import (
	"github.com/gofiber/fiber/v2"
)

// LikePost records the actor's like on a post and bumps its counter
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.likeService.LikePost(ctx, userID, postID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// UnlikePost removes the actor's like from a post and drops its counter
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.likeService.UnlikePost(ctx, userID, postID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeComment records the actor's like on a comment and bumps its counter
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.likeService.LikeComment(ctx, userID, commentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// UnlikeComment removes the actor's like from a comment and drops its counter
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.likeService.UnlikeComment(ctx, userID, commentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
