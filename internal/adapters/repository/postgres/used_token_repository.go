package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type UsedTokenRepository struct {
	db *sql.DB
}

func NewUsedTokenRepository(db *sql.DB) ports.UsedTokenRepository {
	return &UsedTokenRepository{db: db}
}

func (r *UsedTokenRepository) Get(ctx context.Context, token string) (*domain.UsedToken, error) {
	query := `SELECT token, created_at FROM used_tokens WHERE token = $1`
	used := &domain.UsedToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&used.Token, &used.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get used token: %w", err)
	}
	return used, nil
}

// Add records the token as consumed. The primary key makes the insert the
// atomic redemption signal: when two attempts race, exactly one insert takes
// effect and the other gets domain.ErrTokenUsed.
func (r *UsedTokenRepository) Add(ctx context.Context, token string) error {
	query := `INSERT INTO used_tokens (token) VALUES ($1) ON CONFLICT (token) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to add used token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check used token insert: %w", err)
	}
	if affected == 0 {
		return domain.ErrTokenUsed
	}
	return nil
}
