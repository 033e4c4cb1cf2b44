package service

import (
	"context"
	"io"

	"parley/internal/models"
	"parley/internal/storage"

	"gorm.io/gorm"
)

// Function-field stubs for the repository interfaces. Unset fields return
// zero values so each test only wires what it exercises.

type stubUserRepo struct {
	createFn      func(ctx context.Context, user *models.User) error
	getByIDFn     func(ctx context.Context, id uint) (*models.User, error)
	listFn        func(ctx context.Context, limit, offset int) ([]*models.User, error)
	searchFn      func(ctx context.Context, query string, limit, offset int) ([]*models.User, error)
	updateFn      func(ctx context.Context, user *models.User) error
	deleteFn      func(ctx context.Context, id uint) error
	existsFn      func(ctx context.Context, id uint) (bool, error)
	emailInUseFn  func(ctx context.Context, email string, excludeID uint) (bool, error)
	mobileInUseFn func(ctx context.Context, mobile string, excludeID uint) (bool, error)
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *stubUserRepo) SearchByName(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query, limit, offset)
	}
	return nil, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubUserRepo) Exists(ctx context.Context, id uint) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, id)
	}
	return true, nil
}

func (s *stubUserRepo) EmailInUse(ctx context.Context, email string, excludeID uint) (bool, error) {
	if s.emailInUseFn != nil {
		return s.emailInUseFn(ctx, email, excludeID)
	}
	return false, nil
}

func (s *stubUserRepo) MobileInUse(ctx context.Context, mobile string, excludeID uint) (bool, error) {
	if s.mobileInUseFn != nil {
		return s.mobileInUseFn(ctx, mobile, excludeID)
	}
	return false, nil
}

type stubPostRepo struct {
	createFn       func(ctx context.Context, post *models.Post) error
	getByIDFn      func(ctx context.Context, id uint) (*models.Post, error)
	getByUserIDFn  func(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	listFn         func(ctx context.Context, limit, offset int) ([]*models.Post, error)
	searchByTextFn func(ctx context.Context, query string, limit, offset int) ([]*models.Post, error)
	searchByTagsFn func(ctx context.Context, labels []string, limit, offset int) ([]*models.Post, error)
	updateFn       func(ctx context.Context, post *models.Post) error
	deleteFn       func(ctx context.Context, id uint) error
	existsFn       func(ctx context.Context, id uint) (bool, error)
	isOwnerFn      func(ctx context.Context, userID, postID uint) (bool, error)
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (s *stubPostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPostRepo) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	if s.getByUserIDFn != nil {
		return s.getByUserIDFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (s *stubPostRepo) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *stubPostRepo) SearchByText(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	if s.searchByTextFn != nil {
		return s.searchByTextFn(ctx, query, limit, offset)
	}
	return nil, nil
}

func (s *stubPostRepo) SearchByTags(ctx context.Context, labels []string, limit, offset int) ([]*models.Post, error) {
	if s.searchByTagsFn != nil {
		return s.searchByTagsFn(ctx, labels, limit, offset)
	}
	return nil, nil
}

func (s *stubPostRepo) Update(ctx context.Context, post *models.Post) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, post)
	}
	return nil
}

func (s *stubPostRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubPostRepo) Exists(ctx context.Context, id uint) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, id)
	}
	return true, nil
}

func (s *stubPostRepo) IsOwner(ctx context.Context, userID, postID uint) (bool, error) {
	if s.isOwnerFn != nil {
		return s.isOwnerFn(ctx, userID, postID)
	}
	return true, nil
}

type stubTagRepo struct {
	addFn     func(ctx context.Context, postID uint, labels []string) error
	replaceFn func(ctx context.Context, postID uint, labels []string) error
	deleteFn  func(ctx context.Context, postID uint) error
	listFn    func(ctx context.Context, postID uint) ([]models.Tag, error)
}

func (s *stubTagRepo) AddForPost(ctx context.Context, postID uint, labels []string) error {
	if s.addFn != nil {
		return s.addFn(ctx, postID, labels)
	}
	return nil
}

func (s *stubTagRepo) ReplaceForPost(ctx context.Context, postID uint, labels []string) error {
	if s.replaceFn != nil {
		return s.replaceFn(ctx, postID, labels)
	}
	return nil
}

func (s *stubTagRepo) DeleteForPost(ctx context.Context, postID uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, postID)
	}
	return nil
}

func (s *stubTagRepo) ListForPost(ctx context.Context, postID uint) ([]models.Tag, error) {
	if s.listFn != nil {
		return s.listFn(ctx, postID)
	}
	return nil, nil
}

type stubImageRepo struct {
	createFn  func(ctx context.Context, image *models.Image) error
	getByIDFn func(ctx context.Context, id uint) (*models.Image, error)
	deleteFn  func(ctx context.Context, id uint) error
}

func (s *stubImageRepo) Create(ctx context.Context, image *models.Image) error {
	if s.createFn != nil {
		return s.createFn(ctx, image)
	}
	image.ID = 1
	return nil
}

func (s *stubImageRepo) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.Image{ID: id, ExternalID: "ext"}, nil
}

func (s *stubImageRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubLikeRepo struct {
	likePostFn       func(ctx context.Context, userID, postID uint) (bool, error)
	unlikePostFn     func(ctx context.Context, userID, postID uint) (bool, error)
	likeCommentFn    func(ctx context.Context, userID, commentID uint) (bool, error)
	unlikeCommentFn  func(ctx context.Context, userID, commentID uint) (bool, error)
	isPostLikedFn    func(ctx context.Context, userID, postID uint) (bool, error)
	isCommentLikedFn func(ctx context.Context, userID, commentID uint) (bool, error)
}

func (s *stubLikeRepo) LikePost(ctx context.Context, userID, postID uint) (bool, error) {
	if s.likePostFn != nil {
		return s.likePostFn(ctx, userID, postID)
	}
	return true, nil
}

func (s *stubLikeRepo) UnlikePost(ctx context.Context, userID, postID uint) (bool, error) {
	if s.unlikePostFn != nil {
		return s.unlikePostFn(ctx, userID, postID)
	}
	return true, nil
}

func (s *stubLikeRepo) LikeComment(ctx context.Context, userID, commentID uint) (bool, error) {
	if s.likeCommentFn != nil {
		return s.likeCommentFn(ctx, userID, commentID)
	}
	return true, nil
}

func (s *stubLikeRepo) UnlikeComment(ctx context.Context, userID, commentID uint) (bool, error) {
	if s.unlikeCommentFn != nil {
		return s.unlikeCommentFn(ctx, userID, commentID)
	}
	return true, nil
}

func (s *stubLikeRepo) IsPostLiked(ctx context.Context, userID, postID uint) (bool, error) {
	if s.isPostLikedFn != nil {
		return s.isPostLikedFn(ctx, userID, postID)
	}
	return false, nil
}

func (s *stubLikeRepo) IsCommentLiked(ctx context.Context, userID, commentID uint) (bool, error) {
	if s.isCommentLikedFn != nil {
		return s.isCommentLikedFn(ctx, userID, commentID)
	}
	return false, nil
}

type stubCommentRepo struct {
	createFn       func(ctx context.Context, comment *models.Comment) error
	getByIDFn      func(ctx context.Context, id uint) (*models.Comment, error)
	updateFn       func(ctx context.Context, comment *models.Comment) error
	hasTopLevelFn  func(ctx context.Context, userID, postID uint) (bool, error)
	hasReplyFn     func(ctx context.Context, userID, parentID uint) (bool, error)
	deleteTreeFn   func(ctx context.Context, rootID uint) (int, error)
	fetchThreadsFn func(ctx context.Context, postID uint) ([]models.CommentThread, error)
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if s.createFn != nil {
		return s.createFn(ctx, comment)
	}
	comment.ID = 1
	return nil
}

func (s *stubCommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, comment)
	}
	return nil
}

func (s *stubCommentRepo) HasTopLevel(ctx context.Context, userID, postID uint) (bool, error) {
	if s.hasTopLevelFn != nil {
		return s.hasTopLevelFn(ctx, userID, postID)
	}
	return false, nil
}

func (s *stubCommentRepo) HasReply(ctx context.Context, userID, parentID uint) (bool, error) {
	if s.hasReplyFn != nil {
		return s.hasReplyFn(ctx, userID, parentID)
	}
	return false, nil
}

func (s *stubCommentRepo) DeleteTree(ctx context.Context, rootID uint) (int, error) {
	if s.deleteTreeFn != nil {
		return s.deleteTreeFn(ctx, rootID)
	}
	return 1, nil
}

func (s *stubCommentRepo) FetchThreads(ctx context.Context, postID uint) ([]models.CommentThread, error) {
	if s.fetchThreadsFn != nil {
		return s.fetchThreadsFn(ctx, postID)
	}
	return nil, nil
}

type stubBlobStore struct {
	uploadFn func(ctx context.Context, name, contentType string, content io.Reader) (*storage.UploadResult, error)
	deleteFn func(ctx context.Context, externalID string) error
}

func (s *stubBlobStore) Upload(ctx context.Context, name, contentType string, content io.Reader) (*storage.UploadResult, error) {
	if s.uploadFn != nil {
		return s.uploadFn(ctx, name, contentType, content)
	}
	return &storage.UploadResult{ExternalID: "ext", ViewLink: "view", DownloadLink: "download"}, nil
}

func (s *stubBlobStore) Delete(ctx context.Context, externalID string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, externalID)
	}
	return nil
}
