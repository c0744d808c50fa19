package services

import (
	"context"
	"errors"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userService struct {
	repo ports.UserRepository
	log  *logger.Logger
}

func NewUserService(repo ports.UserRepository, log *logger.Logger) ports.UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || len(input.Password) < 8 {
		return nil, ErrUserInvalidInput
	}

	if existing, err := s.repo.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.UserRole(input.Role)
	if role == "" {
		role = domain.UserRoleEmployee
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Email:        input.Email,
		Role:         role,
		Department:   input.Department,
		Enabled:      true,
		EmployeeID:   input.EmployeeID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter ports.UserFilter) ([]domain.User, int64, error) {
	if filter.PageSize <= 0 || filter.PageSize > 200 {
		filter.PageSize = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *userService) UpdateUser(ctx context.Context, id uint, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = domain.UserRole(*input.Role)
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Enabled != nil {
		user.Enabled = *input.Enabled
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
