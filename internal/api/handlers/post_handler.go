package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/birdgotwit-be/internal/auth"
	"github.com/isdelr/birdgotwit-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests related to posts.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePostPayload is the body of a create request. The author comes from the session.
type CreatePostPayload struct {
	Content string `json:"content"`
}

// GetAll handles the request for the feed.
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Get handles the request for a single post.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Create handles a new post from the signed-in user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreatePostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	session := auth.SessionFromContext(r.Context())
	post, err := h.service.Create(r.Context(), session, payload.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("Post created")
	writeJSON(w, http.StatusCreated, post)
}
