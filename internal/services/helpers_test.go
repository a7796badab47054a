package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/birdgotwit-be/internal/models"
	"github.com/isdelr/birdgotwit-be/internal/store"
)

// memStore is an in-memory store.PostStore.
type memStore struct {
	mu    sync.Mutex
	posts []models.Post
	clock time.Time
	err   error
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)}
}

// seed stores a post with an explicit creation time.
func (m *memStore) seed(id, authorID, content string, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, models.Post{ID: id, AuthorID: authorID, Content: content, CreatedAt: createdAt})
}

func (m *memStore) sorted(filter func(models.Post) bool, limit int) []models.Post {
	out := []models.Post{}
	for _, p := range m.posts {
		if filter(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memStore) ListRecent(_ context.Context, limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(models.Post) bool { return true }, limit), nil
}

func (m *memStore) ListByAuthor(_ context.Context, authorID string, limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(p models.Post) bool { return p.AuthorID == authorID }, limit), nil
}

func (m *memStore) FindByID(_ context.Context, id string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, store.ErrNotFound
}

func (m *memStore) Insert(_ context.Context, authorID, content string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Post{}, m.err
	}
	m.clock = m.clock.Add(time.Second)
	post := models.Post{ID: uuid.New().String(), AuthorID: authorID, Content: content, CreatedAt: m.clock}
	m.posts = append(m.posts, post)
	return post, nil
}

// recordingNotifier remembers every signalled post.
type recordingNotifier struct {
	posts []models.Post
	err   error
}

func (n *recordingNotifier) PostCreated(_ context.Context, post models.Post) error {
	n.posts = append(n.posts, post)
	return n.err
}

// countingDirectory wraps a directory and counts batch calls.
type countingDirectory struct {
	users   []models.Identity
	idCalls [][]string
	err     error
}

func (d *countingDirectory) ListUsersByUsername(_ context.Context, usernames []string) ([]models.Identity, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []models.Identity
	for _, u := range d.users {
		for _, name := range usernames {
			if u.Username == name {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (d *countingDirectory) ListUsersByID(_ context.Context, ids []string) ([]models.Identity, error) {
	d.idCalls = append(d.idCalls, ids)
	if d.err != nil {
		return nil, d.err
	}
	var out []models.Identity
	for _, u := range d.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

var errDirectoryDown = errors.New("directory unavailable")

var arlo = models.Identity{
	ID:              "u1",
	Username:        "arlongoria93",
	ProfileImageURL: "http://x/1.png",
	FirstName:       "Arlo",
	EmailAddresses:  []models.EmailAddress{{ID: "e1", EmailAddress: "arlo@example.com"}},
	PrivateMetadata: map[string]interface{}{"role": "admin"},
}

var bea = models.Identity{ID: "u2", Username: "bea", ImageURL: "http://x/2.png"}
