package repository

import (
	"context"

	"parley/internal/cache"
	"parley/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// TagRepository defines the interface for tag operations. Tags are owned by
// their post: creation adds a batch, updates replace the whole set, deletes
// remove it.
type TagRepository interface {
	AddForPost(ctx context.Context, postID uint, labels []string) error
	ReplaceForPost(ctx context.Context, postID uint, labels []string) error
	DeleteForPost(ctx context.Context, postID uint) error
	ListForPost(ctx context.Context, postID uint) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// AddForPost inserts one row per label as an unordered batch. Rows are
// independent inserts, so a failure can leave the post partially tagged; the
// error is returned for the caller to surface.
func (r *tagRepository) AddForPost(ctx context.Context, postID uint, labels []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, label := range labels {
		tag := models.Tag{Label: label, PostID: postID}
		g.Go(func() error {
			return r.db.WithContext(gctx).Create(&tag).Error
		})
	}
	err := g.Wait()
	cache.InvalidatePost(ctx, postID)
	return err
}

// ReplaceForPost swaps the post's tag set for the given labels in one
// transaction, so a failed insert never leaves the post half-tagged.
func (r *tagRepository) ReplaceForPost(ctx context.Context, postID uint, labels []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Tag{}).Error; err != nil {
			return err
		}
		if len(labels) == 0 {
			return nil
		}
		tags := make([]models.Tag, 0, len(labels))
		for _, label := range labels {
			tags = append(tags, models.Tag{Label: label, PostID: postID})
		}
		return tx.CreateInBatches(tags, 100).Error
	})
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *tagRepository) DeleteForPost(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Tag{}).Error
}

func (r *tagRepository) ListForPost(ctx context.Context, postID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&tags).Error
	return tags, err
}
