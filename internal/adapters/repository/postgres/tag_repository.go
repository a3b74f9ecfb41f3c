package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type tagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) ports.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	query := `
		INSERT INTO tags (title, slug, excerpt, description, cover_image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		tag.Title, tag.Slug, tag.Excerpt, tag.Description, tag.CoverImage,
	).Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	return nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	query := tagSelect + ` WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	query := tagSelect + ` WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

func (r *tagRepository) List(ctx context.Context, limit, offset int, search string) ([]*domain.Tag, error) {
	query := tagSelect + `
		WHERE ($3 = '' OR title ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		tag := &domain.Tag{}
		if err := scanTag(rows, tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	query := `
		UPDATE tags
		SET title = $2, slug = $3, excerpt = $4, description = $5, cover_image = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		tag.ID, tag.Title, tag.Slug, tag.Excerpt, tag.Description, tag.CoverImage,
	).Scan(&tag.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update tag %s: %w", tag.ID, err)
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", id, err)
	}
	return nil
}

const tagSelect = `
	SELECT id, title, slug, COALESCE(excerpt, ''), COALESCE(description, ''), COALESCE(cover_image, ''), created_at, updated_at
	FROM tags`

func scanTag(row rowScanner, tag *domain.Tag) error {
	return row.Scan(
		&tag.ID, &tag.Title, &tag.Slug, &tag.Excerpt, &tag.Description, &tag.CoverImage,
		&tag.CreatedAt, &tag.UpdatedAt,
	)
}

func (r *tagRepository) scanOne(row *sql.Row) (*domain.Tag, error) {
	tag := &domain.Tag{}
	if err := scanTag(row, tag); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return tag, nil
}
