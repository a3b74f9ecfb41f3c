package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type memTagRepo struct {
	mu   sync.Mutex
	tags map[uuid.UUID]*domain.Tag
}

func newMemTagRepo() *memTagRepo {
	return &memTagRepo{tags: make(map[uuid.UUID]*domain.Tag)}
}

func (r *memTagRepo) Create(ctx context.Context, tag *domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag.ID = uuid.New()
	tag.CreatedAt = time.Now()
	tag.UpdatedAt = tag.CreatedAt
	cp := *tag
	r.tags[tag.ID] = &cp
	return nil
}

func (r *memTagRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tags[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTagNotFound
}

func (r *memTagRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

func (r *memTagRepo) List(ctx context.Context, limit, offset int, search string) ([]*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memTagRepo) Update(ctx context.Context, tag *domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[tag.ID]; !ok {
		return domain.ErrTagNotFound
	}
	tag.UpdatedAt = time.Now()
	cp := *tag
	r.tags[tag.ID] = &cp
	return nil
}

func (r *memTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tags, id)
	return nil
}

type memPostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*domain.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[uuid.UUID]*domain.Post)}
}

func (r *memPostRepo) Create(ctx context.Context, post *domain.Post, tagIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (r *memPostRepo) List(ctx context.Context, limit, offset int, search string) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memPostRepo) Update(ctx context.Context, post *domain.Post, tagIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return domain.ErrPostNotFound
	}
	post.UpdatedAt = time.Now()
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

// A title change regenerates the slug; other field changes leave it alone.
func TestTagUpdateRegeneratesSlug(t *testing.T) {
	svc := NewTagService(newMemTagRepo())

	tag, err := svc.Create(context.Background(), ports.CreateTagInput{Title: "Go Programming"})
	require.NoError(t, err)
	assert.Contains(t, tag.Slug, "go-programming")

	updated, err := svc.Update(context.Background(), tag.Slug, ports.UpdateTagInput{Title: "Golang"})
	require.NoError(t, err)
	assert.NotEqual(t, tag.Slug, updated.Slug)
	assert.Contains(t, updated.Slug, "golang")

	// Editing only the excerpt keeps the slug stable.
	again, err := svc.Update(context.Background(), updated.Slug, ports.UpdateTagInput{Excerpt: "short"})
	require.NoError(t, err)
	assert.Equal(t, updated.Slug, again.Slug)
	assert.Equal(t, "short", again.Excerpt)
}

func TestPostUpdateRegeneratesSlug(t *testing.T) {
	svc := NewPostService(newMemPostRepo())
	author := &domain.User{ID: uuid.New()}

	post, err := svc.Create(context.Background(), author, ports.CreatePostInput{
		Title:   "Hello World",
		Content: "body",
	})
	require.NoError(t, err)
	assert.Contains(t, post.Slug, "hello-world")

	updated, err := svc.Update(context.Background(), post.Slug, author, ports.UpdatePostInput{Title: "Goodbye World"})
	require.NoError(t, err)
	assert.NotEqual(t, post.Slug, updated.Slug)
	assert.Contains(t, updated.Slug, "goodbye-world")

	// The old slug no longer resolves.
	_, err = svc.GetBySlug(context.Background(), post.Slug)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	// Content-only edits keep the slug.
	again, err := svc.Update(context.Background(), updated.Slug, author, ports.UpdatePostInput{Content: "new body"})
	require.NoError(t, err)
	assert.Equal(t, updated.Slug, again.Slug)
}
