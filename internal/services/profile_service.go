package services

import (
	"context"
	"fmt"

	"github.com/isdelr/birdgotwit-be/internal/identity"
	"github.com/isdelr/birdgotwit-be/internal/models"
)

// ProfileServiceProvider defines the interface for profile lookups.
type ProfileServiceProvider interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// ProfileService resolves public profiles from the identity directory.
type ProfileService struct {
	directory identity.Directory
}

// NewProfileService creates a new ProfileService.
func NewProfileService(directory identity.Directory) *ProfileService {
	return &ProfileService{directory: directory}
}

// GetUserByUsername returns the public projection of the user with exactly this username.
// Callers strip any leading "@" first.
func (s *ProfileService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	if username == "" {
		return models.User{}, newValidationError("username", "Username is required")
	}

	users, err := s.directory.ListUsersByUsername(ctx, []string{username})
	if err != nil {
		return models.User{}, fmt.Errorf("failed to look up user %q: %w", username, err)
	}
	if len(users) == 0 {
		return models.User{}, &NotFoundError{Resource: "user"}
	}
	return users[0].Public(), nil
}
