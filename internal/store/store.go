// Package store persists posts. Posts are append-only: there is no update or delete.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/birdgotwit-be/internal/models"
)

// ErrNotFound is returned when a post lookup matches no row.
var ErrNotFound = errors.New("post not found")

// PostStore is the relational store behind the post services.
type PostStore interface {
	// ListRecent returns at most limit posts, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)
	// ListByAuthor returns at most limit posts by authorID, newest first.
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error)
	FindByID(ctx context.Context, id string) (models.Post, error)
	// Insert stores a new post, assigning its id and creation time.
	Insert(ctx context.Context, authorID, content string) (models.Post, error)
}

func newPost(authorID, content string) models.Post {
	return models.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}
