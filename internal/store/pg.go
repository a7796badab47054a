package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/isdelr/birdgotwit-be/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore keeps posts in Postgres through a pgx pool.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new PgStore.
func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(ctx, selectPosts+" ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	return collectPgPosts(rows)
}

func (s *PgStore) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(ctx, selectPosts+" WHERE author_id = $1 ORDER BY created_at DESC LIMIT $2", authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts for author %s: %w", authorID, err)
	}
	return collectPgPosts(rows)
}

func (s *PgStore) FindByID(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	err := s.db.QueryRow(ctx, selectPosts+" WHERE id = $1", id).
		Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, err
	}
	post.CreatedAt = post.CreatedAt.UTC()
	return post, nil
}

func (s *PgStore) Insert(ctx context.Context, authorID, content string) (models.Post, error) {
	post := newPost(authorID, content)

	_, err := s.db.Exec(ctx,
		"INSERT INTO posts (id, author_id, content, created_at) VALUES ($1, $2, $3, $4)",
		post.ID, post.AuthorID, post.Content, post.CreatedAt,
	)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

func collectPgPosts(rows pgx.Rows) ([]models.Post, error) {
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Post, error) {
		var post models.Post
		err := row.Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt)
		post.CreatedAt = post.CreatedAt.UTC()
		return post, err
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}
