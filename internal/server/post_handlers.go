package server

import (
	"fmt"
	"mime/multipart"
	"strings"

	"parley/internal/models"
	"parley/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm holds the parsed fields of a create/update post request. Requests
// carrying an image arrive as multipart form data; plain posts may use JSON.
type postForm struct {
	Content string
	Tags    []string
	Image   *service.ImageUpload
	file    multipart.File
}

func (f *postForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

// parsePostForm reads a post payload from either a multipart form or a JSON
// body. On failure it writes the 400 response and returns errResponseWritten.
func (s *Server) parsePostForm(c *fiber.Ctx) (*postForm, error) {
	ct := string(c.Request().Header.ContentType())
	if !strings.HasPrefix(ct, fiber.MIMEMultipartForm) {
		var req struct {
			Content string   `json:"content"`
			Tags    []string `json:"tags"`
		}
		if err := c.BodyParser(&req); err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
			return nil, errResponseWritten
		}
		return &postForm{Content: req.Content, Tags: req.Tags}, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form"))
		return nil, errResponseWritten
	}

	out := &postForm{}
	if v := form.Value["content"]; len(v) > 0 {
		out.Content = v[0]
	}
	// Tags may repeat as separate fields or arrive as one comma-joined field.
	for _, raw := range form.Value["tags"] {
		for _, label := range strings.Split(raw, ",") {
			if label = strings.TrimSpace(label); label != "" {
				out.Tags = append(out.Tags, label)
			}
		}
	}

	if files := form.File["image"]; len(files) > 0 {
		header := files[0]
		maxBytes := int64(s.config.UploadMaxSizeMB) * 1024 * 1024
		if header.Size > maxBytes {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(fmt.Sprintf("Image exceeds the %dMB upload limit", s.config.UploadMaxSizeMB)))
			return nil, errResponseWritten
		}
		file, err := header.Open()
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded image"))
			return nil, errResponseWritten
		}
		out.file = file
		out.Image = &service.ImageUpload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		}
	}

	return out, nil
}

// CreatePost creates a post, optionally with tags and an image
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	form, err := s.parsePostForm(c)
	if err != nil {
		return nil
	}
	defer form.close()

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:  userID,
		Content: form.Content,
		Tags:    form.Tags,
		Image:   form.Image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts lists posts newest first
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(ctx, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// SearchPosts searches posts by content (?q=) or by tag labels
// (?tag=a,b). Tag search wins when both are present.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := parsePagination(c, 20)

	if tag := c.Query("tag"); tag != "" {
		posts, err := s.postService.SearchByTags(ctx, strings.Split(tag, ","), p.Limit, p.Offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(posts)
	}

	posts, err := s.postService.SearchByText(ctx, c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost returns a single post with its tags and image links
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost applies the supplied changes to a post (owner only). Omitted
// content or tags keep their current values; a new image replaces the old one
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, err := s.parsePostForm(c)
	if err != nil {
		return nil
	}
	defer form.close()

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		PostID:  id,
		UserID:  userID,
		Content: form.Content,
		Tags:    form.Tags,
		Image:   form.Image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost deletes a post along with its tags and image (owner only).
// Comments on the post survive.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := actorID(c)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, id, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
