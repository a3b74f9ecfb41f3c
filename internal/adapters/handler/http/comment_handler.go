package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type CommentHandler struct {
	comments ports.CommentService
}

func NewCommentHandler(comments ports.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// Create godoc
// @Summary      Comments on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Param        request body createCommentRequest true "Comment content"
// @Success      201 {object} domain.Comment
// @Failure      404
// @Router       /posts/{slug}/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	comment, err := h.comments.Create(r.Context(), chi.URLParam(r, "slug"), CurrentUser(r), req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// ListByPost godoc
// @Summary      Lists the comments of a post
// @Tags         comments
// @Produce      json
// @Param        slug   path  string true  "Post slug"
// @Param        limit  query int    false "Page size"
// @Param        offset query int    false "Page offset"
// @Success      200 {array} domain.Comment
// @Failure      404
// @Router       /posts/{slug}/comments [get]
func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	comments, err := h.comments.ListByPost(r.Context(), chi.URLParam(r, "slug"), limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// Delete godoc
// @Summary      Deletes a comment
// @Description  Only the comment author or an admin may delete it.
// @Tags         comments
// @Security     BearerAuth
// @Param        id path string true "Comment id"
// @Success      204
// @Failure      403
// @Failure      404
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	if err := h.comments.Delete(r.Context(), id, CurrentUser(r)); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrCommentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
