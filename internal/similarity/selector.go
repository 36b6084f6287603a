// Package similarity selects the movies shown next to a reference movie by
// comparing perspective embeddings.
package similarity

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"moviestudy/internal/dataset"
)

// Source is the read-only view of the snapshot the selector works on.
type Source interface {
	Movies() iter.Seq2[string, []dataset.Perspective]
	Perspectives(movie string) ([]dataset.Perspective, bool)
	Review(key string) (string, bool)
}

// Options bound the selection. TopK candidates are considered per reference
// perspective, a perspective stops contributing once the display holds a
// multiple of GroupSize movies, and the display never exceeds Limit.
type Options struct {
	TopK      int
	GroupSize int
	Limit     int
}

func DefaultOptions() Options {
	return Options{TopK: 6, GroupSize: 3, Limit: 9}
}

// Slot is one entry of the display set.
type Slot struct {
	Movie      string
	Key        string
	Text       string
	Similarity float64
	// Perspective is the index of the reference perspective that produced
	// the match.
	Perspective int
}

// Display is the ordered display set for a reference movie.
type Display struct {
	Selected string
	Slots    []Slot
}

func (d Display) Movies() []string {
	movies := make([]string, len(d.Slots))
	for i, s := range d.Slots {
		movies[i] = s.Movie
	}
	return movies
}

// Texts maps slot positions to the review snippet that produced the match.
func (d Display) Texts() map[int]string {
	texts := make(map[int]string, len(d.Slots))
	for i, s := range d.Slots {
		texts[i] = s.Text
	}
	return texts
}

type Selector struct {
	src  Source
	opts Options
}

func NewSelector(src Source, opts Options) *Selector {
	return &Selector{src: src, opts: opts}
}

// Select builds the display set for selected. Each of its perspectives, in
// stored order, ranks the perspectives of every other movie and contributes
// up to GroupSize new movies from its TopK. Fewer than Limit slots is not an
// error.
func (s *Selector) Select(selected string) (Display, error) {
	bases, ok := s.src.Perspectives(selected)
	if !ok {
		return Display{}, fmt.Errorf("%w: %s", dataset.ErrUnknownMovie, selected)
	}

	discard := map[string]struct{}{selected: {}}
	shown := make(map[string]struct{}, s.opts.Limit)
	display := Display{Selected: selected}

	for i, base := range bases {
		if len(display.Slots) >= s.opts.Limit {
			break
		}

		ranked := s.Rank(base.Embedding, discard)
		if len(ranked) > s.opts.TopK {
			ranked = ranked[:s.opts.TopK]
		}

		for _, c := range ranked {
			movie, err := dataset.MovieOf(c.Key)
			if err != nil {
				return Display{}, err
			}
			if _, dup := shown[movie]; dup || movie == selected {
				continue
			}
			text, ok := s.src.Review(c.Key)
			if !ok {
				return Display{}, fmt.Errorf("%w: %s", dataset.ErrMissingReview, c.Key)
			}

			shown[movie] = struct{}{}
			display.Slots = append(display.Slots, Slot{
				Movie:       movie,
				Key:         c.Key,
				Text:        text,
				Similarity:  c.Similarity,
				Perspective: i,
			})
			if len(display.Slots)%s.opts.GroupSize == 0 || len(display.Slots) >= s.opts.Limit {
				break
			}
		}
	}
	return display, nil
}

// Rank scores every perspective of every movie outside discard against base
// and orders them by similarity, descending. Equal scores keep iteration
// order; a key seen twice keeps its first position and its last score.
func (s *Selector) Rank(base []float64, discard map[string]struct{}) []Candidate {
	var candidates []Candidate
	index := make(map[string]int)

	for movie, perspectives := range s.src.Movies() {
		if _, skip := discard[movie]; skip {
			continue
		}
		for _, p := range perspectives {
			sim := Cosine(base, p.Embedding)
			if at, seen := index[p.Key]; seen {
				candidates[at].Similarity = sim
				continue
			}
			index[p.Key] = len(candidates)
			candidates = append(candidates, Candidate{Key: p.Key, Similarity: sim})
		}
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	return candidates
}

// Enumerate returns the review snippet of each perspective of selected, in
// stored order.
func (s *Selector) Enumerate(selected string) ([]string, error) {
	perspectives, ok := s.src.Perspectives(selected)
	if !ok {
		return nil, fmt.Errorf("%w: %s", dataset.ErrUnknownMovie, selected)
	}

	texts := make([]string, len(perspectives))
	for i, p := range perspectives {
		text, ok := s.src.Review(p.Key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", dataset.ErrMissingReview, p.Key)
		}
		texts[i] = text
	}
	return texts, nil
}
