package store

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/isdelr/birdgotwit-be/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewSQLStore(db)
}

func TestSQLStoreInsertAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, "u1", "🐦🔥")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.AuthorID)
	assert.Equal(t, "🐦🔥", created.Content)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)

	found, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStoreListRecentIsNewestFirstAndBounded(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, content := range []string{"1️⃣", "2️⃣", "3️⃣"} {
		_, err := s.Insert(ctx, "u1", content)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	posts, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "3️⃣", posts[0].Content)
	assert.Equal(t, "2️⃣", posts[1].Content)
	assert.False(t, posts[0].CreatedAt.Before(posts[1].CreatedAt))
}

func TestSQLStoreListByAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, "u1", "🙂")
	require.NoError(t, err)
	_, err = s.Insert(ctx, "u2", "🙃")
	require.NoError(t, err)

	posts, err := s.ListByAuthor(ctx, "u2", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "🙃", posts[0].Content)

	posts, err = s.ListByAuthor(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestSQLStorePropagatesQueryErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, author_id, content, created_at FROM posts ORDER BY created_at DESC LIMIT ?`)).
		WithArgs(100).
		WillReturnError(errors.New("disk I/O error"))

	_, err = NewSQLStore(db).ListRecent(context.Background(), 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreInsertWritesMicroseconds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts (id, author_id, content, created_at) VALUES (?, ?, ?, ?)`)).
		WithArgs(sqlmock.AnyArg(), "u1", "🐦", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	post, err := NewSQLStore(db).Insert(context.Background(), "u1", "🐦")
	require.NoError(t, err)
	assert.Equal(t, post.CreatedAt.Truncate(time.Microsecond), post.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
