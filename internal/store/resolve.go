package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

var (
	// ErrNotFound means no todo matches a reference.
	ErrNotFound = errors.New("todo not found")
	// ErrAmbiguous means an id prefix matches more than one todo.
	ErrAmbiguous = errors.New("ambiguous todo reference")
)

// minPrefix is the shortest id prefix Resolve accepts.
const minPrefix = 6

// Resolve finds one todo by exact id, by 1-based position in the list, or
// by an id prefix of at least six characters.
func (s *Store) Resolve(ref string) (model.Todo, error) {
	ref = strings.TrimSpace(ref)

	for _, t := range s.items {
		if t.ID == ref {
			return t, nil
		}
	}

	// A numeric ref long enough to be an id prefix falls through to prefix
	// matching when it is not a valid position.
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.items) {
		return s.items[n-1], nil
	} else if err == nil && len(ref) < minPrefix {
		return model.Todo{}, fmt.Errorf("%w: index out of range: have %d, got %d", ErrNotFound, len(s.items), n)
	}

	if len(ref) >= minPrefix {
		var matches []model.Todo
		for _, t := range s.items {
			if strings.HasPrefix(t.ID, ref) {
				matches = append(matches, t)
			}
		}
		switch len(matches) {
		case 1:
			return matches[0], nil
		case 0:
		default:
			return model.Todo{}, fmt.Errorf("%w: %s (matches %d todos)", ErrAmbiguous, ref, len(matches))
		}
	}

	return model.Todo{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
}
