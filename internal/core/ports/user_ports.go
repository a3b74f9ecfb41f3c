package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/steptzi/api/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int, search string) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type UpdateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, limit, offset int, search string) ([]*domain.User, error)
	// Update changes username and/or email. An email change marks the user
	// unverified again and re-sends the verification mail. Only the user
	// themselves or an admin may update.
	Update(ctx context.Context, id uuid.UUID, actor *domain.User, input UpdateUserInput) (*domain.User, error)
}
