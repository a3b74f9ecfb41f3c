package services

import (
	"context"
	"fmt"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type tagService struct {
	repo ports.TagRepository
}

func NewTagService(repo ports.TagRepository) ports.TagService {
	return &tagService{repo: repo}
}

func (s *tagService) Create(ctx context.Context, input ports.CreateTagInput) (*domain.Tag, error) {
	tag := &domain.Tag{
		Title:       input.Title,
		Slug:        newSlug(input.Title),
		Excerpt:     input.Excerpt,
		Description: input.Description,
		CoverImage:  input.CoverImage,
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *tagService) List(ctx context.Context, limit, offset int, search string) ([]*domain.Tag, error) {
	return s.repo.List(ctx, limit, offset, search)
}

func (s *tagService) Update(ctx context.Context, slug string, input ports.UpdateTagInput) (*domain.Tag, error) {
	tag, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		tag.Title = input.Title
		tag.Slug = newSlug(input.Title)
	}
	if input.Excerpt != "" {
		tag.Excerpt = input.Excerpt
	}
	if input.Description != "" {
		tag.Description = input.Description
	}
	if input.CoverImage != "" {
		tag.CoverImage = input.CoverImage
	}

	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, slug string) error {
	tag, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, tag.ID)
}
