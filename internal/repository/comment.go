package repository

import (
	"context"
	"time"

	"parley/internal/cache"
	"parley/internal/models"
	"parley/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	HasTopLevel(ctx context.Context, userID, postID uint) (bool, error)
	HasReply(ctx context.Context, userID, parentID uint) (bool, error)
	DeleteTree(ctx context.Context, rootID uint) (int, error)
	FetchThreads(ctx context.Context, postID uint) ([]models.CommentThread, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		cache.InvalidateCommentTree(ctx, comment.PostID)
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return err
	}
	cache.InvalidateCommentTree(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) HasTopLevel(ctx context.Context, userID, postID uint) (bool, error) {
	return exists(ctx, r.db, &models.Comment{},
		"user_id = ? AND post_id = ? AND parent_comment_id IS NULL", userID, postID)
}

func (r *commentRepository) HasReply(ctx context.Context, userID, parentID uint) (bool, error) {
	return exists(ctx, r.db, &models.Comment{},
		"user_id = ? AND parent_comment_id = ?", userID, parentID)
}

// DeleteTree removes the comment, every comment transitively replying to it,
// and all their like rows, in one transaction. The frontier walk handles
// arbitrary depth without recursion; the visited set guards against a cycle
// in parent links ever looping the walk. Returns the number of comments
// removed.
func (r *commentRepository) DeleteTree(ctx context.Context, rootID uint) (int, error) {
	var doomed []uint
	var postID uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.Comment
		if err := tx.First(&root, rootID).Error; err != nil {
			return err
		}
		postID = root.PostID

		visited := map[uint]struct{}{rootID: {}}
		doomed = []uint{rootID}
		frontier := []uint{rootID}

		for len(frontier) > 0 {
			var childIDs []uint
			if err := tx.Model(&models.Comment{}).
				Where("parent_comment_id IN ?", frontier).
				Pluck("id", &childIDs).Error; err != nil {
				return err
			}

			frontier = frontier[:0]
			for _, id := range childIDs {
				if _, seen := visited[id]; seen {
					continue
				}
				visited[id] = struct{}{}
				doomed = append(doomed, id)
				frontier = append(frontier, id)
			}
		}

		if err := tx.Where("comment_id IN ?", doomed).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", doomed).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return 0, err
	}

	observability.CommentsCascadeDeleted.Add(float64(len(doomed)))
	cache.InvalidateCommentTree(ctx, postID)
	return len(doomed), nil
}

// threadRow is one row of the flat comment/reply join. Reply columns are
// nullable because top-level comments without replies still produce a row.
type threadRow struct {
	CommentID        uint      `gorm:"column:comment_id"`
	CommentUserID    uint      `gorm:"column:comment_user_id"`
	CommentContent   string    `gorm:"column:comment_content"`
	CommentLikes     int       `gorm:"column:comment_likes"`
	CommentCreatedAt time.Time `gorm:"column:comment_created_at"`

	ReplyID        *uint      `gorm:"column:reply_id"`
	ReplyUserID    *uint      `gorm:"column:reply_user_id"`
	ReplyContent   *string    `gorm:"column:reply_content"`
	ReplyLikes     *int       `gorm:"column:reply_likes"`
	ReplyCreatedAt *time.Time `gorm:"column:reply_created_at"`
}

// FetchThreads returns the post's top-level comments with their replies,
// reconstructed from a single flat join ordered by comment then reply ID.
func (r *commentRepository) FetchThreads(ctx context.Context, postID uint) ([]models.CommentThread, error) {
	return cache.Aside(ctx, cache.CommentTreeKey(postID), "comment_tree", cache.CommentTreeTTL, func() ([]models.CommentThread, error) {
		var rows []threadRow
		err := r.db.WithContext(ctx).Raw(`
			SELECT c.id AS comment_id,
			       c.user_id AS comment_user_id,
			       c.content AS comment_content,
			       c.like_count AS comment_likes,
			       c.created_at AS comment_created_at,
			       r.id AS reply_id,
			       r.user_id AS reply_user_id,
			       r.content AS reply_content,
			       r.like_count AS reply_likes,
			       r.created_at AS reply_created_at
			FROM comments c
			LEFT JOIN comments r ON r.parent_comment_id = c.id
			WHERE c.post_id = ? AND c.parent_comment_id IS NULL
			ORDER BY c.id ASC, r.id ASC`, postID).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		return foldThreads(rows), nil
	})
}

// foldThreads folds the ordered flat rows into one entry per top-level
// comment. Rows arrive grouped by comment ID, so a single pass suffices.
func foldThreads(rows []threadRow) []models.CommentThread {
	threads := make([]models.CommentThread, 0)
	index := make(map[uint]int)

	for _, row := range rows {
		pos, ok := index[row.CommentID]
		if !ok {
			pos = len(threads)
			index[row.CommentID] = pos
			threads = append(threads, models.CommentThread{
				ID:        row.CommentID,
				UserID:    row.CommentUserID,
				Content:   row.CommentContent,
				LikeCount: row.CommentLikes,
				CreatedAt: row.CommentCreatedAt,
				Replies:   []models.CommentReply{},
			})
		}

		if row.ReplyID == nil {
			continue
		}
		threads[pos].Replies = append(threads[pos].Replies, models.CommentReply{
			ID:        *row.ReplyID,
			UserID:    *row.ReplyUserID,
			Content:   *row.ReplyContent,
			LikeCount: *row.ReplyLikes,
			CreatedAt: *row.ReplyCreatedAt,
		})
	}
	return threads
}
