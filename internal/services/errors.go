package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized is returned when an operation needs a signed-in caller and there is none.
var ErrUnauthorized = errors.New("unauthorized")

// NotFoundError reports a lookup that matched nothing. Its message is safe to show users.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// First returns the first message for field, or "".
func (e *ValidationError) First(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// ResolutionError means a post references an author the identity directory does not know.
// It is an internal inconsistency, never the caller's fault.
type ResolutionError struct {
	PostID   string
	AuthorID string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("author %s of post %s could not be resolved", e.AuthorID, e.PostID)
}
