package service

import (
	"context"
	"strings"

	"parley/internal/models"
	"parley/internal/repository"
	"parley/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

type RegisterUserInput struct {
	Name         string
	MobileNumber string
	Email        string
}

type UpdateUserInput struct {
	UserID       uint
	Name         string
	MobileNumber string
	Email        string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func validateIdentity(name, mobile, email string) error {
	for _, err := range []error{
		validation.Name(name),
		validation.MobileNumber(mobile),
		validation.Email(email),
	} {
		if err != nil {
			return models.NewValidationError(capitalize(err.Error()))
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// checkIdentityFree rejects an email or mobile number already held by an
// active user other than excludeID. Soft-deleted users do not count.
func (s *UserService) checkIdentityFree(ctx context.Context, email, mobile string, excludeID uint) error {
	inUse, err := s.userRepo.EmailInUse(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if inUse {
		return models.NewDuplicateError("Email address is already registered")
	}

	inUse, err = s.userRepo.MobileInUse(ctx, mobile, excludeID)
	if err != nil {
		return err
	}
	if inUse {
		return models.NewDuplicateError("Mobile number is already registered")
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	if err := validateIdentity(in.Name, in.MobileNumber, in.Email); err != nil {
		return nil, err
	}
	if err := s.checkIdentityFree(ctx, in.Email, in.MobileNumber, 0); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		MobileNumber: in.MobileNumber,
		Email:        strings.ToLower(in.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, clampLimit(limit), offset)
}

func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.userRepo.SearchByName(ctx, query, clampLimit(limit), offset)
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User", in.UserID)
	}

	if err := validateIdentity(in.Name, in.MobileNumber, in.Email); err != nil {
		return nil, err
	}
	if err := s.checkIdentityFree(ctx, in.Email, in.MobileNumber, in.UserID); err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(in.Name)
	user.MobileNumber = in.MobileNumber
	user.Email = strings.ToLower(in.Email)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	ok, err := s.userRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	return s.userRepo.Delete(ctx, id)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
