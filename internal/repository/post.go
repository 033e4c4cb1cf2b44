package repository

import (
	"context"

	"parley/internal/cache"
	"parley/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	SearchByText(ctx context.Context, query string, limit, offset int) ([]*models.Post, error)
	SearchByTags(ctx context.Context, labels []string, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	IsOwner(ctx context.Context, userID, postID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePostsList(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	post, err := cache.Aside(ctx, cache.PostKey(id), "post", cache.PostTTL, func() (models.Post, error) {
		var p models.Post
		err := r.db.WithContext(ctx).
			Preload("Tags").
			Preload("Image").
			First(&p, id).Error
		if err != nil {
			return p, err
		}
		enrich(&p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Image").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	enrichAll(posts)
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Image").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	enrichAll(posts)
	return posts, nil
}

func (r *postRepository) SearchByText(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Image").
		Where("content ILIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	enrichAll(posts)
	return posts, nil
}

// SearchByTags returns posts carrying any of the exact tag labels. The
// subquery keeps duplicate labels on one post from producing duplicate rows.
func (r *postRepository) SearchByTags(ctx context.Context, labels []string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Image").
		Where("id IN (?)", r.db.Model(&models.Tag{}).Select("post_id").Where("label IN ?", labels)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	enrichAll(posts)
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Post{}, "id = ?", id)
}

func (r *postRepository) IsOwner(ctx context.Context, userID, postID uint) (bool, error) {
	return exists(ctx, r.db, &models.Post{}, "id = ? AND user_id = ?", postID, userID)
}

// enrich fills the transient read-model fields from the preloaded relations.
func enrich(p *models.Post) {
	if len(p.Tags) > 0 {
		labels := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			labels = append(labels, t.Label)
		}
		p.TagLabels = labels
	}
	if p.Image != nil {
		p.ImageViewLink = p.Image.ViewLink
	}
}

func enrichAll(posts []*models.Post) {
	for _, p := range posts {
		enrich(p)
	}
}
