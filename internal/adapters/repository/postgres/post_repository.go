package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

const foreignKeyViolation = "23503"

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) ports.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post, tagIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts (author_id, title, slug, excerpt, content, featured_image, is_published, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		post.AuthorID, post.Title, post.Slug, post.Excerpt, post.Content,
		post.FeaturedImage, post.IsPublished, post.IsFeatured,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	if err := attachTags(ctx, tx, post.ID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	query := postSelect + ` WHERE p.slug = $1`

	post := &domain.Post{Author: &domain.User{}}
	if err := scanPost(r.db.QueryRowContext(ctx, query, slug), post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	tags, err := r.fetchTags(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Tags = tags

	return post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, search string) ([]*domain.Post, error) {
	query := postSelect + `
		WHERE ($3 = '' OR p.title ILIKE '%' || $3 || '%')
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post := &domain.Post{Author: &domain.User{}}
		if err := scanPost(rows, post); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post, tagIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE posts
		SET title = $2, slug = $3, excerpt = $4, content = $5, featured_image = $6,
		    is_published = $7, is_featured = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Slug, post.Excerpt, post.Content, post.FeaturedImage,
		post.IsPublished, post.IsFeatured,
	).Scan(&post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update post %s: %w", post.ID, err)
	}

	if tagIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, post.ID); err != nil {
			return fmt.Errorf("failed to detach tags: %w", err)
		}
		if err := attachTags(ctx, tx, post.ID, tagIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

func (r *postRepository) fetchTags(ctx context.Context, postID uuid.UUID) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.title, t.slug, COALESCE(t.excerpt, ''), COALESCE(t.description, ''), COALESCE(t.cover_image, ''), t.created_at, t.updated_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.title
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := scanTag(rows, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func attachTags(ctx context.Context, tx *sql.Tx, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare tag statement: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.ExecContext(ctx, postID, tagID); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
				return domain.ErrTagNotFound
			}
			return fmt.Errorf("failed to attach tag %s: %w", tagID, err)
		}
	}
	return nil
}

const postSelect = `
	SELECT p.id, p.author_id, p.title, p.slug, COALESCE(p.excerpt, ''), p.content,
	       COALESCE(p.featured_image, ''), p.is_published, p.is_featured, p.created_at, p.updated_at,
	       u.id, u.username, u.email, u.is_active, u.is_verified, u.is_admin, u.created_at, u.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanPost(row rowScanner, post *domain.Post) error {
	return row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Slug, &post.Excerpt, &post.Content,
		&post.FeaturedImage, &post.IsPublished, &post.IsFeatured, &post.CreatedAt, &post.UpdatedAt,
		&post.Author.ID, &post.Author.Username, &post.Author.Email,
		&post.Author.IsActive, &post.Author.IsVerified, &post.Author.IsAdmin,
		&post.Author.CreatedAt, &post.Author.UpdatedAt,
	)
}
