package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/birdgotwit-be/internal/models"
)

// SQLStore keeps posts in SQLite through database/sql.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a new SQLStore.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const selectPosts = "SELECT id, author_id, content, created_at FROM posts"

// scanPost is a helper to scan a post from a row or rows object.
func scanPost(scanner interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	var createdAt int64
	if err := scanner.Scan(&post.ID, &post.AuthorID, &post.Content, &createdAt); err != nil {
		return models.Post{}, err
	}
	post.CreatedAt = time.UnixMicro(createdAt).UTC()
	return post, nil
}

func (s *SQLStore) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, selectPosts+" ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	return collectPosts(rows)
}

func (s *SQLStore) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, selectPosts+" WHERE author_id = ? ORDER BY created_at DESC LIMIT ?", authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts for author %s: %w", authorID, err)
	}
	return collectPosts(rows)
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (models.Post, error) {
	post, err := scanPost(s.db.QueryRowContext(ctx, selectPosts+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

func (s *SQLStore) Insert(ctx context.Context, authorID, content string) (models.Post, error) {
	post := newPost(authorID, content)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (id, author_id, content, created_at) VALUES (?, ?, ?, ?)",
		post.ID, post.AuthorID, post.Content, post.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
