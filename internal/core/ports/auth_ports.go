package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/steptzi/api/internal/core/domain"
)

// TokenCodec signs and verifies compact, expiring, purpose-scoped tokens.
// Verification is stateless; single-use enforcement is layered on top via
// the UsedTokenRepository.
type TokenCodec interface {
	Issue(userID uuid.UUID, scope domain.Scope) (string, error)
	Verify(token string, scope domain.Scope) (uuid.UUID, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// UsedTokenRepository records consumed single-use tokens. Add must be atomic:
// inserting an already-recorded token returns domain.ErrTokenUsed, so a token
// can never be redeemed twice even under concurrent attempts.
type UsedTokenRepository interface {
	Get(ctx context.Context, token string) (*domain.UsedToken, error)
	Add(ctx context.Context, token string) error
}

// Mailer delivers a templated message. Implementations render the named
// template with the given body variables.
type Mailer interface {
	Send(ctx context.Context, subject, template string, to []string, vars map[string]string) error
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, token string) (*domain.TokenPair, error)
	SendVerificationMail(ctx context.Context, email string) error
	SendResetPasswordMail(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
	ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) (*domain.User, error)
	AuthenticateAccess(ctx context.Context, token string) (*domain.User, error)
}
