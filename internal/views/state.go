package views

import (
	"errors"

	"github.com/isdelr/birdgotwit-be/internal/services"
)

// State is what a page shows for one data fetch. Every fetch starts in StateLoading and
// moves once to one of the other states; there are no retries.
type State int

const (
	StateLoading State = iota
	StateError
	StateNotFound
	StateEmpty
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateNotFound:
		return "not-found"
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Resolve derives the state of a finished fetch that returned count items.
func Resolve(err error, count int) State {
	var notFound *services.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return StateNotFound
	case err != nil:
		return StateError
	case count == 0:
		return StateEmpty
	default:
		return StateLoaded
	}
}
