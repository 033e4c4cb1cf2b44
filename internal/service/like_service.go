package service

import (
	"context"

	"parley/internal/models"
	"parley/internal/repository"
)

type LikeService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

func (s *LikeService) guardUser(ctx context.Context, userID uint) error {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}

func (s *LikeService) guardPost(ctx context.Context, postID uint) error {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func (s *LikeService) guardComment(ctx context.Context, commentID uint) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return notFoundOr(err, "Comment", commentID)
	}
	return nil
}

// LikePost records the like and bumps the post counter. A like that already
// exists, whether from an earlier request or a concurrent one, surfaces as
// ALREADY_LIKED without touching the counter.
func (s *LikeService) LikePost(ctx context.Context, userID, postID uint) error {
	if err := s.guardUser(ctx, userID); err != nil {
		return err
	}
	if err := s.guardPost(ctx, postID); err != nil {
		return err
	}

	inserted, err := s.likeRepo.LikePost(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !inserted {
		return models.NewAlreadyLikedError("post", postID)
	}
	return nil
}

func (s *LikeService) UnlikePost(ctx context.Context, userID, postID uint) error {
	if err := s.guardUser(ctx, userID); err != nil {
		return err
	}
	if err := s.guardPost(ctx, postID); err != nil {
		return err
	}

	removed, err := s.likeRepo.UnlikePost(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotLikedError("post", postID)
	}
	return nil
}

func (s *LikeService) LikeComment(ctx context.Context, userID, commentID uint) error {
	if err := s.guardUser(ctx, userID); err != nil {
		return err
	}
	if err := s.guardComment(ctx, commentID); err != nil {
		return err
	}

	inserted, err := s.likeRepo.LikeComment(ctx, userID, commentID)
	if err != nil {
		return err
	}
	if !inserted {
		return models.NewAlreadyLikedError("comment", commentID)
	}
	return nil
}

func (s *LikeService) UnlikeComment(ctx context.Context, userID, commentID uint) error {
	if err := s.guardUser(ctx, userID); err != nil {
		return err
	}
	if err := s.guardComment(ctx, commentID); err != nil {
		return err
	}

	removed, err := s.likeRepo.UnlikeComment(ctx, userID, commentID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotLikedError("comment", commentID)
	}
	return nil
}
