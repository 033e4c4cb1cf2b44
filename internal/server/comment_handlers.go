package server

import (
	"parley/internal/models"
	"parley/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentBody struct {
	Content string `json:"content"`
}

// CreateComment creates a top-level comment on a post. Each user may hold at
// most one top-level comment per post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentBody
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(ctx, service.AddCommentInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// CreateReply creates a reply under a top-level comment. Each user may hold
// at most one reply per parent comment.
func (s *Server) CreateReply(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	parentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentBody
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.commentService.AddReply(ctx, service.AddReplyInput{
		UserID:          userID,
		ParentCommentID: parentID,
		Content:         req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetCommentTree returns a post's top-level comments with their replies
func (s *Server) GetCommentTree(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	threads, err := s.commentService.FetchCommentTree(ctx, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(threads)
}

// GetComment returns a single comment by ID
func (s *Server) GetComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// UpdateComment updates a comment's content (owner only)
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentBody
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		UserID:    userID,
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment deletes a comment and its whole reply subtree, likes
// included (owner only). The response reports how many comments went.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	deleted, err := s.commentService.DeleteComment(ctx, userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
