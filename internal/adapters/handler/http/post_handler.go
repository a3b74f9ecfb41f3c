package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create godoc
// @Summary      Creates a post
// @Description  The authenticated user becomes the author. Tags are attached by id.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ports.CreatePostInput true "Post data"
// @Success      201 {object} domain.Post
// @Failure      401
// @Router       /posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input ports.CreatePostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if input.Title == "" || input.Content == "" {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Create(r.Context(), CurrentUser(r), input)
	if err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// List godoc
// @Summary      Lists posts
// @Tags         posts
// @Produce      json
// @Param        limit  query int    false "Page size"
// @Param        offset query int    false "Page offset"
// @Param        search query string false "Title filter"
// @Success      200 {array} domain.Post
// @Router       /posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	posts, err := h.posts.List(r.Context(), limit, offset, r.URL.Query().Get("search"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetBySlug godoc
// @Summary      Returns a post by slug
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200 {object} domain.Post
// @Failure      404
// @Router       /posts/{slug} [get]
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Update godoc
// @Summary      Updates a post
// @Description  Only the author or an admin may update a post.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Param        request body ports.UpdatePostInput true "Fields to update"
// @Success      200 {object} domain.Post
// @Failure      403
// @Failure      404
// @Router       /posts/{slug} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input ports.UpdatePostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Update(r.Context(), chi.URLParam(r, "slug"), CurrentUser(r), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, domain.ErrPostNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrTagNotFound):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete godoc
// @Summary      Deletes a post
// @Description  Only the author or an admin may delete a post. Its comments go with it.
// @Tags         posts
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Success      204
// @Failure      403
// @Failure      404
// @Router       /posts/{slug} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), chi.URLParam(r, "slug"), CurrentUser(r)); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrPostNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
