package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrSequenceExhausted = errors.New("every movie of the session script has been shown")
	ErrEmptyCatalog      = errors.New("movie catalog is empty")
)

// Picker chooses the movie of the current trial.
type Picker struct {
	rng *rand.Rand
}

// NewPicker uses rng for random mode; nil uses the auto-seeded global source.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng}
}

// Pick returns the movie for the trial after completed finished ones and its
// position in the script (-1 in random mode).
func (p *Picker) Pick(s Script, completed int, catalog []string) (string, int, error) {
	if s.Mode == ModeRandom {
		if len(catalog) == 0 {
			return "", -1, ErrEmptyCatalog
		}
		return catalog[p.intN(len(catalog))], -1, nil
	}

	if completed < 0 || completed >= len(s.Movies) {
		return "", completed, fmt.Errorf("%w: %d of %d done", ErrSequenceExhausted, completed, len(s.Movies))
	}
	return s.Movies[completed], completed, nil
}

func (p *Picker) intN(n int) int {
	if p.rng == nil {
		return rand.IntN(n)
	}
	return p.rng.IntN(n)
}
