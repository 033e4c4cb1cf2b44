package service

import (
	"context"
	"strings"

	"parley/internal/models"
	"parley/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

type AddCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type AddReplyInput struct {
	UserID          uint
	ParentCommentID uint
	Content         string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return nil
}

func (s *CommentService) guardUser(ctx context.Context, userID uint) error {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}

// AddComment creates a top-level comment. Each user gets one top-level
// comment per post: the pre-check gives the friendly error, the unique index
// catches the concurrent race.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}
	if err := s.guardUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	ok, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	already, err := s.commentRepo.HasTopLevel(ctx, in.UserID, in.PostID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, models.NewDuplicateError("User has already commented on this post")
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if isDuplicate(err) {
			return nil, models.NewDuplicateError("User has already commented on this post")
		}
		return nil, err
	}
	return comment, nil
}

// AddReply creates a reply under a top-level comment. The reply inherits the
// parent's post; threading is one level deep, so replying to a reply is
// rejected.
func (s *CommentService) AddReply(ctx context.Context, in AddReplyInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}
	if err := s.guardUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	parent, err := s.commentRepo.GetByID(ctx, in.ParentCommentID)
	if err != nil {
		return nil, notFoundOr(err, "Comment", in.ParentCommentID)
	}
	if parent.ParentCommentID != nil {
		return nil, models.NewValidationError("Replies can only target top-level comments")
	}

	already, err := s.commentRepo.HasReply(ctx, in.UserID, parent.ID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, models.NewDuplicateError("User has already replied to this comment")
	}

	reply := &models.Comment{
		Content:         in.Content,
		UserID:          in.UserID,
		PostID:          parent.PostID,
		ParentCommentID: &parent.ID,
	}
	if err := s.commentRepo.Create(ctx, reply); err != nil {
		if isDuplicate(err) {
			return nil, models.NewDuplicateError("User has already replied to this comment")
		}
		return nil, err
	}
	return reply, nil
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, notFoundOr(err, "Comment", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the comment and its whole reply subtree, likes
// included. Returns the number of comments removed.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) (int, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return 0, notFoundOr(err, "Comment", commentID)
	}
	if comment.UserID != userID {
		return 0, models.NewUnauthorizedError("You can only delete your own comments")
	}
	return s.commentRepo.DeleteTree(ctx, commentID)
}

// FetchCommentTree returns the post's top-level comments with their replies.
func (s *CommentService) FetchCommentTree(ctx context.Context, postID uint) ([]models.CommentThread, error) {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.commentRepo.FetchThreads(ctx, postID)
}
