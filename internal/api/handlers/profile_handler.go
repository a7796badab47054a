package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/birdgotwit-be/internal/services"
)

// ProfileHandler handles HTTP requests for user profiles.
type ProfileHandler struct {
	profiles services.ProfileServiceProvider
	posts    services.PostServiceProvider
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles services.ProfileServiceProvider, posts services.PostServiceProvider) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, posts: posts}
}

// Get handles retrieving a public profile by username or "@username" slug.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimPrefix(chi.URLParam(r, "username"), "@")
	user, err := h.profiles.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Posts handles listing the posts written by a user.
func (h *ProfileHandler) Posts(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimPrefix(chi.URLParam(r, "username"), "@")
	user, err := h.profiles.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := h.posts.GetByAuthor(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
