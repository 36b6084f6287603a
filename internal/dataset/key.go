package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownMovie  = errors.New("unknown movie")
	ErrMissingReview = errors.New("missing review text")
	ErrInvalidKey    = errors.New("invalid perspective key")
)

const keySeparator = "|"

// MovieOf returns the owning movie of a perspective key of the form
// <aspect-id>|<movie-id>. Everything after the first separator is the movie.
func MovieOf(key string) (string, error) {
	_, movie, ok := strings.Cut(key, keySeparator)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return movie, nil
}

// Key builds a perspective key.
func Key(aspect, movie string) string {
	return aspect + keySeparator + movie
}
