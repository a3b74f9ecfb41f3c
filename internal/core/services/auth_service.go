package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

const (
	projectTitle = "Steptzi"

	// Outbound mail is fire-and-forget; give each send its own deadline so
	// a stuck SMTP connection cannot pile up goroutines forever.
	mailSendTimeout = 30 * time.Second
)

type AuthService struct {
	users      ports.UserRepository
	usedTokens ports.UsedTokenRepository
	codec      ports.TokenCodec
	hasher     ports.PasswordHasher
	mailer     ports.Mailer
	log        *slog.Logger

	// linkBase is the frontend base URL when configured, otherwise the
	// API's own base URL. Verification and reset links are built on it.
	linkBase string
}

func NewAuthService(
	users ports.UserRepository,
	usedTokens ports.UsedTokenRepository,
	codec ports.TokenCodec,
	hasher ports.PasswordHasher,
	mailer ports.Mailer,
	log *slog.Logger,
	linkBase string,
) *AuthService {
	return &AuthService{
		users:      users,
		usedTokens: usedTokens,
		codec:      codec,
		hasher:     hasher,
		mailer:     mailer,
		log:        log,
		linkBase:   strings.TrimSuffix(linkBase, "/"),
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	username := strings.ToLower(input.Username)
	email := strings.ToLower(input.Email)

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	existing, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}

	// The repository maps unique violations back to the taken errors, which
	// closes the window between the checks above and the insert.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issuePair(user)
}

// Refresh redeems a refresh token and rotates it: the presented token is
// recorded as used before a new pair is minted, so it can never be replayed.
func (s *AuthService) Refresh(ctx context.Context, token string) (*domain.TokenPair, error) {
	userID, err := s.codec.Verify(token, domain.ScopeRefresh)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}

	if err := s.usedTokens.Add(ctx, token); err != nil {
		return nil, err
	}

	return s.issuePair(user)
}

func (s *AuthService) SendVerificationMail(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	token, err := s.codec.Issue(user.ID, domain.ScopeEmailVerification)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/email-verify/confirm?token=%s", s.linkBase, token)
	s.dispatchMail(projectTitle+" email verification", "email_verification", []string{user.Email}, map[string]string{
		"verification_link": link,
	})
	return nil
}

func (s *AuthService) SendResetPasswordMail(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	token, err := s.codec.Issue(user.ID, domain.ScopeResetPassword)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/reset-password/confirm?token=%s", s.linkBase, token)
	s.dispatchMail(projectTitle+" password reset", "reset_password", []string{user.Email}, map[string]string{
		"reset_link": link,
	})
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	used, err := s.usedTokens.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if used != nil {
		return nil, domain.ErrTokenUsed
	}

	userID, err := s.codec.Verify(token, domain.ScopeEmailVerification)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}

	if user.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}

	if err := s.usedTokens.Add(ctx, token); err != nil {
		return nil, err
	}

	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) (*domain.User, error) {
	if newPassword != confirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	used, err := s.usedTokens.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if used != nil {
		return nil, domain.ErrTokenUsed
	}

	userID, err := s.codec.Verify(token, domain.ScopeResetPassword)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}

	if err := s.usedTokens.Add(ctx, token); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// AuthenticateAccess resolves a bearer access token to an active, verified
// user. It backs the RequireUser middleware.
func (s *AuthService) AuthenticateAccess(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.codec.Verify(token, domain.ScopeAccess)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}

	if !user.IsActive || !user.IsVerified {
		return nil, domain.ErrUserDisabled
	}

	return user, nil
}

func (s *AuthService) issuePair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.codec.Issue(user.ID, domain.ScopeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.codec.Issue(user.ID, domain.ScopeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// dispatchMail sends in the background. Failures are logged and swallowed;
// the caller's request never waits on or learns about SMTP.
func (s *AuthService) dispatchMail(subject, template string, to []string, vars map[string]string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, subject, template, to, vars); err != nil {
			s.log.Error("failed to send mail", "template", template, "error", err)
		}
	}()
}
