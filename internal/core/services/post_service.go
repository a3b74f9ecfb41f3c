package services

import (
	"context"
	"fmt"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type postService struct {
	repo ports.PostRepository
}

func NewPostService(repo ports.PostRepository) ports.PostService {
	return &postService{repo: repo}
}

func (s *postService) Create(ctx context.Context, author *domain.User, input ports.CreatePostInput) (*domain.Post, error) {
	post := &domain.Post{
		AuthorID:      author.ID,
		Title:         input.Title,
		Slug:          newSlug(input.Title),
		Excerpt:       input.Excerpt,
		Content:       input.Content,
		FeaturedImage: input.FeaturedImage,
		IsPublished:   input.IsPublished,
		IsFeatured:    input.IsFeatured,
	}

	if err := s.repo.Create(ctx, post, input.TagIDs); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return s.repo.GetBySlug(ctx, post.Slug)
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *postService) List(ctx context.Context, limit, offset int, search string) ([]*domain.Post, error) {
	return s.repo.List(ctx, limit, offset, search)
}

func (s *postService) Update(ctx context.Context, slug string, actor *domain.User, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actor.ID && !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}

	if input.Title != "" {
		post.Title = input.Title
		post.Slug = newSlug(input.Title)
	}
	if input.Excerpt != "" {
		post.Excerpt = input.Excerpt
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.FeaturedImage != "" {
		post.FeaturedImage = input.FeaturedImage
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}
	if input.IsFeatured != nil {
		post.IsFeatured = *input.IsFeatured
	}

	if err := s.repo.Update(ctx, post, input.TagIDs); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return s.repo.GetBySlug(ctx, post.Slug)
}

func (s *postService) Delete(ctx context.Context, slug string, actor *domain.User) error {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if post.AuthorID != actor.ID && !actor.IsAdmin {
		return domain.ErrForbidden
	}

	return s.repo.Delete(ctx, post.ID)
}
