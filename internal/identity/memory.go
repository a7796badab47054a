package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/isdelr/birdgotwit-be/internal/models"
)

// MemoryDirectory is an in-process Directory used for local development and tests.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users []models.Identity
}

// NewMemoryDirectory creates a directory holding the given identities.
func NewMemoryDirectory(users ...models.Identity) *MemoryDirectory {
	return &MemoryDirectory{users: append([]models.Identity(nil), users...)}
}

// LoadMemoryDirectory reads a JSON array of identities from path.
func LoadMemoryDirectory(path string) (*MemoryDirectory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity seed file: %w", err)
	}
	var users []models.Identity
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("failed to parse identity seed file: %w", err)
	}
	return NewMemoryDirectory(users...), nil
}

// Add registers an identity.
func (d *MemoryDirectory) Add(user models.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, user)
}

func (d *MemoryDirectory) ListUsersByUsername(_ context.Context, usernames []string) ([]models.Identity, error) {
	return d.filter(usernames, func(u models.Identity) string { return u.Username }), nil
}

func (d *MemoryDirectory) ListUsersByID(_ context.Context, ids []string) ([]models.Identity, error) {
	return d.filter(ids, func(u models.Identity) string { return u.ID }), nil
}

func (d *MemoryDirectory) filter(keys []string, field func(models.Identity) string) []models.Identity {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	matches := []models.Identity{}
	for _, u := range d.users {
		if wanted[field(u)] {
			matches = append(matches, u)
		}
	}
	return matches
}
