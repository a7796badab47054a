package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/birdgotwit-be/internal/auth"
	"github.com/isdelr/birdgotwit-be/internal/identity"
	"github.com/isdelr/birdgotwit-be/internal/models"
	"github.com/isdelr/birdgotwit-be/internal/refresh"
	"github.com/isdelr/birdgotwit-be/internal/store"
	"github.com/rs/zerolog/log"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	GetAll(ctx context.Context) ([]models.FeedEntry, error)
	GetByID(ctx context.Context, id string) (models.FeedEntry, error)
	GetByAuthor(ctx context.Context, authorID string) ([]models.FeedEntry, error)
	Create(ctx context.Context, session *auth.Session, content string) (models.Post, error)
}

// PostOptions bounds the feed and post sizes.
type PostOptions struct {
	FeedLimit     int
	PostMaxLength int
}

// PostService provides the feed and post creation.
type PostService struct {
	store     store.PostStore
	directory identity.Directory
	notifier  refresh.Notifier
	validate  *validator.Validate
	opts      PostOptions
}

// NewPostService creates a new PostService.
func NewPostService(postStore store.PostStore, directory identity.Directory, notifier refresh.Notifier, opts PostOptions) *PostService {
	return &PostService{
		store:     postStore,
		directory: directory,
		notifier:  notifier,
		validate:  validator.New(),
		opts:      opts,
	}
}

// GetAll returns the most recent posts with their authors, newest first.
func (s *PostService) GetAll(ctx context.Context) ([]models.FeedEntry, error) {
	posts, err := s.store.ListRecent(ctx, s.opts.FeedLimit)
	if err != nil {
		return nil, err
	}
	return s.attachAuthors(ctx, posts)
}

// GetByAuthor returns the most recent posts written by authorID, newest first.
func (s *PostService) GetByAuthor(ctx context.Context, authorID string) ([]models.FeedEntry, error) {
	posts, err := s.store.ListByAuthor(ctx, authorID, s.opts.FeedLimit)
	if err != nil {
		return nil, err
	}
	return s.attachAuthors(ctx, posts)
}

// GetByID returns a single post with its author.
func (s *PostService) GetByID(ctx context.Context, id string) (models.FeedEntry, error) {
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.FeedEntry{}, &NotFoundError{Resource: "post"}
		}
		return models.FeedEntry{}, err
	}

	entries, err := s.attachAuthors(ctx, []models.Post{post})
	if err != nil {
		return models.FeedEntry{}, err
	}
	return entries[0], nil
}

// Create validates content and stores it as a post by the session's user.
func (s *PostService) Create(ctx context.Context, session *auth.Session, content string) (models.Post, error) {
	if session == nil || session.UserID == "" {
		return models.Post{}, ErrUnauthorized
	}
	if err := s.validateContent(content); err != nil {
		return models.Post{}, err
	}

	post, err := s.store.Insert(ctx, session.UserID, content)
	if err != nil {
		return models.Post{}, err
	}

	if err := s.notifier.PostCreated(ctx, post); err != nil {
		log.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to signal feed refresh")
	}
	return post, nil
}

func (s *PostService) validateContent(content string) error {
	err := s.validate.Var(content, fmt.Sprintf("required,max=%d", s.opts.PostMaxLength))
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	switch fieldErrs[0].Tag() {
	case "required":
		return newValidationError("content", "Post must not be empty")
	case "max":
		return newValidationError("content", fmt.Sprintf("Post must be at most %d characters", s.opts.PostMaxLength))
	default:
		return newValidationError("content", "Post is invalid")
	}
}

// attachAuthors resolves every distinct author with one directory call. If any author is
// missing the whole batch fails; a partial feed is never returned.
func (s *PostService) attachAuthors(ctx context.Context, posts []models.Post) ([]models.FeedEntry, error) {
	if len(posts) == 0 {
		return []models.FeedEntry{}, nil
	}

	seen := make(map[string]bool, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	identities, err := s.directory.ListUsersByID(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve post authors: %w", err)
	}
	authors := make(map[string]models.User, len(identities))
	for _, ident := range identities {
		authors[ident.ID] = ident.Public()
	}

	entries := make([]models.FeedEntry, 0, len(posts))
	for _, p := range posts {
		author, ok := authors[p.AuthorID]
		if !ok {
			return nil, &ResolutionError{PostID: p.ID, AuthorID: p.AuthorID}
		}
		entries = append(entries, models.FeedEntry{Post: p, Author: author})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Post.CreatedAt.After(entries[j].Post.CreatedAt)
	})
	return entries, nil
}
