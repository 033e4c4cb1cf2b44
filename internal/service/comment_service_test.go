package service

import (
	"context"
	"testing"

	"parley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommentService(comments *stubCommentRepo, posts *stubPostRepo, users *stubUserRepo) *CommentService {
	if comments == nil {
		comments = &stubCommentRepo{}
	}
	if posts == nil {
		posts = &stubPostRepo{}
	}
	if users == nil {
		users = &stubUserRepo{}
	}
	return NewCommentService(comments, posts, users)
}

func TestCommentService_AddComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc := newCommentService(nil, nil, nil)
		comment, err := svc.AddComment(ctx, AddCommentInput{UserID: 1, PostID: 2, Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, uint(1), comment.UserID)
		assert.Equal(t, uint(2), comment.PostID)
		assert.Nil(t, comment.ParentCommentID)
	})

	t.Run("second top-level comment on same post rejected", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{
			hasTopLevelFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		}
		svc := newCommentService(comments, nil, nil)
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: 1, PostID: 2, Content: "again"})
		assert.Equal(t, models.CodeDuplicate, appErrCode(t, err))
	})

	t.Run("concurrent duplicate surfaces the same way", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{
			createFn: func(_ context.Context, _ *models.Comment) error {
				return gorm.ErrDuplicatedKey
			},
		}
		svc := newCommentService(comments, nil, nil)
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: 1, PostID: 2, Content: "race"})
		assert.Equal(t, models.CodeDuplicate, appErrCode(t, err))
	})

	t.Run("unknown post", func(t *testing.T) {
		t.Parallel()
		posts := &stubPostRepo{existsFn: func(_ context.Context, _ uint) (bool, error) { return false, nil }}
		svc := newCommentService(nil, posts, nil)
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: 1, PostID: 2, Content: "x"})
		assert.Equal(t, models.CodeNotFound, appErrCode(t, err))
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		svc := newCommentService(nil, nil, nil)
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: 1, PostID: 2, Content: " "})
		assert.Equal(t, models.CodeValidation, appErrCode(t, err))
	})
}

func TestCommentService_AddReply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	topLevel := func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 9, PostID: 4}, nil
	}

	t.Run("reply inherits the parent's post", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{getByIDFn: topLevel}
		svc := newCommentService(comments, nil, nil)

		reply, err := svc.AddReply(ctx, AddReplyInput{UserID: 1, ParentCommentID: 3, Content: "re"})
		require.NoError(t, err)
		assert.Equal(t, uint(4), reply.PostID)
		require.NotNil(t, reply.ParentCommentID)
		assert.Equal(t, uint(3), *reply.ParentCommentID)
	})

	t.Run("replying to a reply is rejected", func(t *testing.T) {
		t.Parallel()
		grandparent := uint(2)
		comments := &stubCommentRepo{
			getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, PostID: 4, ParentCommentID: &grandparent}, nil
			},
		}
		svc := newCommentService(comments, nil, nil)
		_, err := svc.AddReply(ctx, AddReplyInput{UserID: 1, ParentCommentID: 3, Content: "re"})
		assert.Equal(t, models.CodeValidation, appErrCode(t, err))
	})

	t.Run("second reply to same parent rejected", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{
			getByIDFn: topLevel,
			hasReplyFn: func(_ context.Context, _, _ uint) (bool, error) {
				return true, nil
			},
		}
		svc := newCommentService(comments, nil, nil)
		_, err := svc.AddReply(ctx, AddReplyInput{UserID: 1, ParentCommentID: 3, Content: "re"})
		assert.Equal(t, models.CodeDuplicate, appErrCode(t, err))
	})

	t.Run("unknown parent", func(t *testing.T) {
		t.Parallel()
		svc := newCommentService(nil, nil, nil)
		_, err := svc.AddReply(ctx, AddReplyInput{UserID: 1, ParentCommentID: 3, Content: "re"})
		assert.Equal(t, models.CodeNotFound, appErrCode(t, err))
	})
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	owned := func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 1, PostID: 2, Content: "old"}, nil
	}

	t.Run("owner can update", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{getByIDFn: owned}
		svc := newCommentService(comments, nil, nil)
		comment, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 1, CommentID: 5, Content: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", comment.Content)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{getByIDFn: owned}
		svc := newCommentService(comments, nil, nil)
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 2, CommentID: 5, Content: "new"})
		assert.Equal(t, models.CodeUnauthorized, appErrCode(t, err))
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner delete cascades and reports the count", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{
			getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, UserID: 1}, nil
			},
			deleteTreeFn: func(_ context.Context, _ uint) (int, error) {
				return 4, nil
			},
		}
		svc := newCommentService(comments, nil, nil)
		n, err := svc.DeleteComment(ctx, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{
			getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, UserID: 1}, nil
			},
		}
		svc := newCommentService(comments, nil, nil)
		_, err := svc.DeleteComment(ctx, 2, 5)
		assert.Equal(t, models.CodeUnauthorized, appErrCode(t, err))
	})
}

func TestCommentService_FetchCommentTree(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown post", func(t *testing.T) {
		t.Parallel()
		posts := &stubPostRepo{existsFn: func(_ context.Context, _ uint) (bool, error) { return false, nil }}
		svc := newCommentService(nil, posts, nil)
		_, err := svc.FetchCommentTree(ctx, 2)
		assert.Equal(t, models.CodeNotFound, appErrCode(t, err))
	})

	t.Run("threads pass through", func(t *testing.T) {
		t.Parallel()
		comments := &stubCommentRepo{
			fetchThreadsFn: func(_ context.Context, _ uint) ([]models.CommentThread, error) {
				return []models.CommentThread{{ID: 1, Replies: []models.CommentReply{{ID: 2}}}}, nil
			},
		}
		svc := newCommentService(comments, nil, nil)
		threads, err := svc.FetchCommentTree(ctx, 2)
		require.NoError(t, err)
		require.Len(t, threads, 1)
		assert.Len(t, threads[0].Replies, 1)
	})
}
