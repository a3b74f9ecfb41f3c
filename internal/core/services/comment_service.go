package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type commentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository) ports.CommentService {
	return &commentService{comments: comments, posts: posts}
}

func (s *commentService) Create(ctx context.Context, postSlug string, author *domain.User, content string) (*domain.Comment, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  content,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) ListByPost(ctx context.Context, postSlug string, limit, offset int) ([]*domain.Comment, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, post.ID, limit, offset)
}

func (s *commentService) Delete(ctx context.Context, id uuid.UUID, actor *domain.User) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if comment.AuthorID != actor.ID && !actor.IsAdmin {
		return domain.ErrForbidden
	}

	return s.comments.Delete(ctx, id)
}
