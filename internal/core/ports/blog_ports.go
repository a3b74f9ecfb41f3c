package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/steptzi/api/internal/core/domain"
)

type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	List(ctx context.Context, limit, offset int, search string) ([]*domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostRepository interface {
	// Create stores the post and attaches the given tags in one transaction.
	Create(ctx context.Context, post *domain.Post, tagIDs []uuid.UUID) error
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, limit, offset int, search string) ([]*domain.Post, error)
	// Update saves the post; a non-nil tagIDs replaces the attached tags.
	Update(ctx context.Context, post *domain.Post, tagIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateTagInput struct {
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

type UpdateTagInput struct {
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

type TagService interface {
	Create(ctx context.Context, input CreateTagInput) (*domain.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	List(ctx context.Context, limit, offset int, search string) ([]*domain.Tag, error)
	Update(ctx context.Context, slug string, input UpdateTagInput) (*domain.Tag, error)
	Delete(ctx context.Context, slug string) error
}

type CreatePostInput struct {
	Title         string      `json:"title"`
	Excerpt       string      `json:"excerpt"`
	Content       string      `json:"content"`
	FeaturedImage string      `json:"featured_image"`
	IsPublished   bool        `json:"is_published"`
	IsFeatured    bool        `json:"is_featured"`
	TagIDs        []uuid.UUID `json:"tags"`
}

type UpdatePostInput struct {
	Title         string      `json:"title"`
	Excerpt       string      `json:"excerpt"`
	Content       string      `json:"content"`
	FeaturedImage string      `json:"featured_image"`
	IsPublished   *bool       `json:"is_published"`
	IsFeatured    *bool       `json:"is_featured"`
	TagIDs        []uuid.UUID `json:"tags"`
}

type PostService interface {
	Create(ctx context.Context, author *domain.User, input CreatePostInput) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, limit, offset int, search string) ([]*domain.Post, error)
	// Update and Delete require the actor to be the author or an admin.
	Update(ctx context.Context, slug string, actor *domain.User, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, slug string, actor *domain.User) error
}

type CommentService interface {
	Create(ctx context.Context, postSlug string, author *domain.User, content string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postSlug string, limit, offset int) ([]*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID, actor *domain.User) error
}
