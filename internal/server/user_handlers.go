package server

import (
	"parley/internal/models"
	"parley/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterUser creates a new user account
func (s *Server) RegisterUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Name         string `json:"name"`
		MobileNumber string `json:"mobile_number"`
		Email        string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(ctx, service.RegisterUserInput{
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUsers lists users, or searches by name when ?q= is present
func (s *Server) GetUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := parsePagination(c, 20)

	query := c.Query("q")
	if query != "" {
		users, err := s.userService.SearchUsers(ctx, query, p.Limit, p.Offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(users)
	}

	users, err := s.userService.ListUsers(ctx, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUser returns a single user by ID
func (s *Server) GetUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts returns the posts authored by a user
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.GetPostsByUser(ctx, id, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// UpdateUser updates the user's own profile
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if actorID(c) != id {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only update your own profile"))
	}

	var req struct {
		Name         string `json:"name"`
		MobileNumber string `json:"mobile_number"`
		Email        string `json:"email"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateUser(ctx, service.UpdateUserInput{
		UserID:       id,
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser soft-deletes the user's own account, freeing the email and
// mobile number for future registrations
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if actorID(c) != id {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only delete your own account"))
	}

	if err := s.userService.DeleteUser(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
