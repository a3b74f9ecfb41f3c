package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type userService struct {
	repo ports.UserRepository
	auth ports.AuthService
}

func NewUserService(repo ports.UserRepository, auth ports.AuthService) ports.UserService {
	return &userService{repo: repo, auth: auth}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, limit, offset int, search string) ([]*domain.User, error) {
	return s.repo.List(ctx, limit, offset, search)
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, actor *domain.User, input ports.UpdateUserInput) (*domain.User, error) {
	if id != actor.ID && !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	emailChanged := false
	if input.Email != "" && strings.ToLower(input.Email) != user.Email {
		user.Email = strings.ToLower(input.Email)
		user.IsVerified = false
		emailChanged = true
	}
	if input.Username != "" {
		user.Username = strings.ToLower(input.Username)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	// A changed address must be proven again before the account regains
	// access to verified-only routes.
	if emailChanged {
		if err := s.auth.SendVerificationMail(ctx, user.Email); err != nil {
			return nil, fmt.Errorf("failed to send verification mail: %w", err)
		}
	}

	return user, nil
}
