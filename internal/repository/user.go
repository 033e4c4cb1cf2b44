package repository

import (
	"context"

	"parley/internal/cache"
	"parley/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	SearchByName(ctx context.Context, query string, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	EmailInUse(ctx context.Context, email string, excludeID uint) (bool, error)
	MobileInUse(ctx context.Context, mobile string, excludeID uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := cache.Aside(ctx, cache.UserKey(id), "user", cache.UserTTL, func() (models.User, error) {
		var u models.User
		err := r.db.WithContext(ctx).First(&u, id).Error
		return u, err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *userRepository) SearchByName(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.User{}, "id = ?", id)
}

// EmailInUse reports whether an active user other than excludeID already has
// the email. Soft-deleted users do not block reuse.
func (r *userRepository) EmailInUse(ctx context.Context, email string, excludeID uint) (bool, error) {
	return exists(ctx, r.db, &models.User{}, "email = ? AND id <> ?", email, excludeID)
}

func (r *userRepository) MobileInUse(ctx context.Context, mobile string, excludeID uint) (bool, error) {
	return exists(ctx, r.db, &models.User{}, "mobile_number = ? AND id <> ?", mobile, excludeID)
}
