package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type TagHandler struct {
	tags ports.TagService
}

func NewTagHandler(tags ports.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// Create godoc
// @Summary      Creates a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ports.CreateTagInput true "Tag data"
// @Success      201 {object} domain.Tag
// @Failure      403
// @Router       /tags [post]
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input ports.CreateTagInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	tag, err := h.tags.Create(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// List godoc
// @Summary      Lists tags
// @Tags         tags
// @Produce      json
// @Param        limit  query int    false "Page size"
// @Param        offset query int    false "Page offset"
// @Param        search query string false "Title filter"
// @Success      200 {array} domain.Tag
// @Router       /tags [get]
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	tags, err := h.tags.List(r.Context(), limit, offset, r.URL.Query().Get("search"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// GetBySlug godoc
// @Summary      Returns a tag by slug
// @Tags         tags
// @Produce      json
// @Param        slug path string true "Tag slug"
// @Success      200 {object} domain.Tag
// @Failure      404
// @Router       /tags/{slug} [get]
func (h *TagHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	tag, err := h.tags.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Update godoc
// @Summary      Updates a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Tag slug"
// @Param        request body ports.UpdateTagInput true "Fields to update"
// @Success      200 {object} domain.Tag
// @Failure      403
// @Failure      404
// @Router       /tags/{slug} [put]
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input ports.UpdateTagInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tag, err := h.tags.Update(r.Context(), chi.URLParam(r, "slug"), input)
	if err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Delete godoc
// @Summary      Deletes a tag
// @Tags         tags
// @Security     BearerAuth
// @Param        slug path string true "Tag slug"
// @Success      204
// @Failure      403
// @Failure      404
// @Router       /tags/{slug} [delete]
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tags.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
