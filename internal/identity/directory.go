package identity

import (
	"context"

	"github.com/isdelr/birdgotwit-be/internal/models"
)

// Directory is the read side of the external identity provider.
// Implementations return raw identities; callers project them with Identity.Public.
type Directory interface {
	ListUsersByUsername(ctx context.Context, usernames []string) ([]models.Identity, error)
	ListUsersByID(ctx context.Context, ids []string) ([]models.Identity, error)
}
