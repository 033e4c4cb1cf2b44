package repository

import (
	"context"

	"parley/internal/cache"
	"parley/internal/models"
	"parley/internal/observability"

	"gorm.io/gorm"
)

// LikeRepository maintains the like ledgers and their denormalized counters.
// Membership row and counter always move together inside one transaction, so
// the counter can never drift from the ledger.
type LikeRepository interface {
	LikePost(ctx context.Context, userID, postID uint) (bool, error)
	UnlikePost(ctx context.Context, userID, postID uint) (bool, error)
	LikeComment(ctx context.Context, userID, commentID uint) (bool, error)
	UnlikeComment(ctx context.Context, userID, commentID uint) (bool, error)
	IsPostLiked(ctx context.Context, userID, postID uint) (bool, error)
	IsCommentLiked(ctx context.Context, userID, commentID uint) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// LikePost inserts the membership row and bumps the counter. Returns false
// when the user already liked the post; concurrent duplicates resolve at the
// unique index, so exactly one of two racing requests increments.
func (r *likeRepository) LikePost(ctx context.Context, userID, postID uint) (bool, error) {
	inserted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			`INSERT INTO post_likes (user_id, post_id, created_at, updated_at)
			 VALUES (?, ?, NOW(), NOW())
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		inserted = true
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return false, err
	}
	if inserted {
		cache.InvalidatePost(ctx, postID)
	} else {
		observability.LikeConflicts.WithLabelValues("post").Inc()
	}
	return inserted, nil
}

// UnlikePost removes the membership row and decrements the counter. Returns
// false when there was nothing to remove.
func (r *likeRepository) UnlikePost(ctx context.Context, userID, postID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.PostLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Post{}).Where("id = ? AND like_count > 0", postID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
	if err != nil {
		return false, err
	}
	if removed {
		cache.InvalidatePost(ctx, postID)
	}
	return removed, nil
}

func (r *likeRepository) LikeComment(ctx context.Context, userID, commentID uint) (bool, error) {
	inserted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			`INSERT INTO comment_likes (user_id, comment_id, created_at, updated_at)
			 VALUES (?, ?, NOW(), NOW())
			 ON CONFLICT (user_id, comment_id) DO NOTHING`,
			userID, commentID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		inserted = true
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return false, err
	}
	if inserted {
		r.invalidateCommentTree(ctx, commentID)
	} else {
		observability.LikeConflicts.WithLabelValues("comment").Inc()
	}
	return inserted, nil
}

func (r *likeRepository) UnlikeComment(ctx context.Context, userID, commentID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&models.CommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Comment{}).Where("id = ? AND like_count > 0", commentID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
	if err != nil {
		return false, err
	}
	if removed {
		r.invalidateCommentTree(ctx, commentID)
	}
	return removed, nil
}

func (r *likeRepository) IsPostLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return exists(ctx, r.db, &models.PostLike{}, "user_id = ? AND post_id = ?", userID, postID)
}

func (r *likeRepository) IsCommentLiked(ctx context.Context, userID, commentID uint) (bool, error) {
	return exists(ctx, r.db, &models.CommentLike{}, "user_id = ? AND comment_id = ?", userID, commentID)
}

func (r *likeRepository) invalidateCommentTree(ctx context.Context, commentID uint) {
	var postID uint
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", commentID).
		Pluck("post_id", &postID).Error; err == nil && postID != 0 {
		cache.InvalidateCommentTree(ctx, postID)
	}
}
