package service

import (
	"context"
	"io"
	"strings"

	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/repository"
	"parley/internal/storage"

	"golang.org/x/sync/errgroup"
)

const maxPostContentLen = 50000

type PostService struct {
	postRepo  repository.PostRepository
	tagRepo   repository.TagRepository
	userRepo  repository.UserRepository
	imageRepo repository.ImageRepository
	blobs     storage.BlobStore
}

// ImageUpload carries a pending image upload. Content is consumed once.
type ImageUpload struct {
	Name        string
	ContentType string
	Content     io.Reader
}

type CreatePostInput struct {
	UserID  uint
	Content string
	Tags    []string
	Image   *ImageUpload
}

// UpdatePostInput carries the fields to change. Blank Content keeps the
// existing text; a Tags list that is empty after trimming keeps the existing
// tags, a non-empty one fully replaces them; a non-nil Image swaps the
// post's image.
type UpdatePostInput struct {
	PostID  uint
	UserID  uint
	Content string
	Tags    []string
	Image   *ImageUpload
}

func NewPostService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	userRepo repository.UserRepository,
	imageRepo repository.ImageRepository,
	blobs storage.BlobStore,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		tagRepo:   tagRepo,
		userRepo:  userRepo,
		imageRepo: imageRepo,
		blobs:     blobs,
	}
}

func validatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxPostContentLen {
		return models.NewValidationError("Post too long (max 50000 characters)")
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// storeImage uploads the blob and records it. The blob goes out first; if the
// record insert fails the blob is released so the provider holds no orphans.
func (s *PostService) storeImage(ctx context.Context, upload *ImageUpload) (*models.Image, error) {
	if s.blobs == nil {
		return nil, models.NewDependencyError("Image uploads are not configured", nil)
	}
	result, err := s.blobs.Upload(ctx, storage.UniqueName(upload.Name), upload.ContentType, upload.Content)
	if err != nil {
		return nil, models.NewDependencyError("Image upload failed", err)
	}

	image := &models.Image{
		ExternalID:   result.ExternalID,
		ViewLink:     result.ViewLink,
		DownloadLink: result.DownloadLink,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		if delErr := s.blobs.Delete(ctx, result.ExternalID); delErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to release orphaned blob",
				"external_id", result.ExternalID, "error", delErr.Error())
		}
		return nil, err
	}
	return image, nil
}

// releaseImage removes the blob and then its record. The record survives a
// failed blob delete so a retry can find the external ID again.
func (s *PostService) releaseImage(ctx context.Context, imageID uint) error {
	if s.blobs == nil {
		return models.NewDependencyError("Image storage is not configured", nil)
	}
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return notFoundOr(err, "Image", imageID)
	}
	if err := s.blobs.Delete(ctx, image.ExternalID); err != nil {
		return models.NewDependencyError("Image release failed", err)
	}
	return s.imageRepo.Delete(ctx, imageID)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostContent(in.Content); err != nil {
		return nil, err
	}
	ok, err := s.userRepo.Exists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("User", in.UserID)
	}

	post := &models.Post{
		Content: in.Content,
		UserID:  in.UserID,
	}

	if in.Image != nil {
		image, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		post.ImageID = &image.ID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if post.ImageID != nil {
			if relErr := s.releaseImage(ctx, *post.ImageID); relErr != nil {
				middleware.Logger.WarnContext(ctx, "failed to release image of failed post",
					"image_id", *post.ImageID, "error", relErr.Error())
			}
		}
		return nil, err
	}

	// The post row is already committed; a tag failure is surfaced without
	// rolling it back.
	if tags := normalizeTags(in.Tags); len(tags) > 0 {
		if err := s.tagRepo.AddForPost(ctx, post.ID, tags); err != nil {
			return nil, models.NewDependencyError("Tag insert failed", err)
		}
	}

	return s.GetPost(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, clampLimit(limit), offset)
}

func (s *PostService) GetPostsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("User", userID)
	}
	return s.postRepo.GetByUserID(ctx, userID, clampLimit(limit), offset)
}

func (s *PostService) SearchByText(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.SearchByText(ctx, query, clampLimit(limit), offset)
}

func (s *PostService) SearchByTags(ctx context.Context, labels []string, limit, offset int) ([]*models.Post, error) {
	labels = normalizeTags(labels)
	if len(labels) == 0 {
		return nil, models.NewValidationError("At least one tag label is required")
	}
	return s.postRepo.SearchByTags(ctx, labels, clampLimit(limit), offset)
}

// guardOwnedPost loads the post and verifies ownership.
func (s *PostService) guardOwnedPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, "Post", postID)
	}
	if post.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only modify your own posts")
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.guardOwnedPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) != "" {
		if err := validatePostContent(in.Content); err != nil {
			return nil, err
		}
		post.Content = in.Content
	}

	oldImageID := post.ImageID

	// When swapping images the new one is fully in place before the old one
	// is released, so a failed upload never strips the existing image.
	if in.Image != nil {
		image, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		post.ImageID = &image.ID
		post.Image = nil
	}

	post.Tags = nil
	post.TagLabels = nil
	post.ImageViewLink = ""
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if tags := normalizeTags(in.Tags); len(tags) > 0 {
		if err := s.tagRepo.ReplaceForPost(ctx, post.ID, tags); err != nil {
			return nil, err
		}
	}

	if in.Image != nil && oldImageID != nil {
		if err := s.releaseImage(ctx, *oldImageID); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to release replaced image",
				"image_id", *oldImageID, "error", err.Error())
		}
	}

	return s.GetPost(ctx, post.ID)
}

// DeletePost soft-deletes the post and cleans up its owned resources (tags
// and image). Comments and their likes survive the post.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.guardOwnedPost(ctx, postID, userID)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.tagRepo.DeleteForPost(gctx, postID)
	})
	if post.ImageID != nil {
		imageID := *post.ImageID
		g.Go(func() error {
			return s.releaseImage(gctx, imageID)
		})
	}
	return g.Wait()
}
