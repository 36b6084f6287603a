// Package dataset holds the read-only snapshot tables a study session works
// from: the movie catalog, overviews, perspective embeddings, review snippets
// and poster URLs.
package dataset

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Perspective is one aspect-specific embedding of a movie.
type Perspective struct {
	Key       string
	Label     string
	Embedding []float64
}

// Movie groups a movie id with its perspectives in stored order.
type Movie struct {
	ID           string
	Perspectives []Perspective
}

// Tables are the flat lookup tables of a snapshot.
type Tables struct {
	Catalog   []string
	Overviews map[string]string
	Reviews   map[string]string
	Posters   map[string]string
}

// Dataset is immutable once built. Movie iteration order is the order the
// perspective table was stored in, which the selector relies on for ties.
type Dataset struct {
	catalog      []string
	overviews    map[string]string
	reviews      map[string]string
	posters      map[string]string
	perspectives *orderedmap.OrderedMap[string, []Perspective]
}

// New builds a dataset from tables and movies; movies keep the given order.
func New(t Tables, movies ...Movie) *Dataset {
	om := orderedmap.New[string, []Perspective](orderedmap.WithCapacity[string, []Perspective](len(movies)))
	for _, m := range movies {
		om.Set(m.ID, m.Perspectives)
	}
	return newDataset(t, om)
}

func newDataset(t Tables, om *orderedmap.OrderedMap[string, []Perspective]) *Dataset {
	d := &Dataset{
		catalog:      t.Catalog,
		overviews:    t.Overviews,
		reviews:      t.Reviews,
		posters:      t.Posters,
		perspectives: om,
	}
	if d.overviews == nil {
		d.overviews = map[string]string{}
	}
	if d.reviews == nil {
		d.reviews = map[string]string{}
	}
	if d.posters == nil {
		d.posters = map[string]string{}
	}
	return d
}

// Catalog returns the eligible movie ids. Callers must not modify it.
func (d *Dataset) Catalog() []string { return d.catalog }

// Len is the number of movies with perspectives.
func (d *Dataset) Len() int { return d.perspectives.Len() }

// Movies yields every movie with its perspectives in stored order.
func (d *Dataset) Movies() iter.Seq2[string, []Perspective] {
	return func(yield func(string, []Perspective) bool) {
		for pair := d.perspectives.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

func (d *Dataset) Perspectives(movie string) ([]Perspective, bool) {
	return d.perspectives.Get(movie)
}

func (d *Dataset) Review(key string) (string, bool) {
	text, ok := d.reviews[key]
	return text, ok
}

func (d *Dataset) Overview(movie string) (string, bool) {
	text, ok := d.overviews[movie]
	return text, ok
}

func (d *Dataset) PosterURL(movie string) (string, bool) {
	url, ok := d.posters[movie]
	return url, ok
}
