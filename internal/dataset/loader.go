package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"moviestudy/internal/config"
)

// Load reads the five snapshot files named by cfg. Each file is JSON and may
// be zstd-compressed.
func Load(cfg config.DataConfig) (*Dataset, error) {
	var t Tables
	if err := readJSON(cfg.Path(cfg.Catalog), &t.Catalog); err != nil {
		return nil, err
	}
	if err := readJSON(cfg.Path(cfg.Overviews), &t.Overviews); err != nil {
		return nil, err
	}
	if err := readJSON(cfg.Path(cfg.Reviews), &t.Reviews); err != nil {
		return nil, err
	}
	if err := readJSON(cfg.Path(cfg.Posters), &t.Posters); err != nil {
		return nil, err
	}

	path := cfg.Path(cfg.Perspectives)
	data, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	om, err := DecodePerspectives(data, cfg.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	d := newDataset(t, om)
	missing := 0
	for _, movie := range d.catalog {
		if _, ok := d.Perspectives(movie); !ok {
			missing++
		}
	}
	if missing > 0 {
		log.Warn().Int("movies", missing).Msg("catalog movies without perspectives")
	}
	log.Info().
		Int("catalog", len(d.catalog)).
		Int("movies", d.Len()).
		Int("reviews", len(d.reviews)).
		Msg("snapshot loaded")
	return d, nil
}

func readJSON(path string, v any) error {
	data, err := readSnapshot(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func readSnapshot(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if isZstd(data) {
		data, err = decompress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
	}
	return data, nil
}

// DecodePerspectives decodes a perspective table, keeping movie order. A
// perspective is either an object {"key", "label", "embedding"} or a tuple
// [key, label, e0 ... e(dim-1), extra...]; embeddings are cut to dim.
func DecodePerspectives(data []byte, dim int) (*orderedmap.OrderedMap[string, []Perspective], error) {
	raw := orderedmap.New[string, []json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, err
	}

	out := orderedmap.New[string, []Perspective](orderedmap.WithCapacity[string, []Perspective](raw.Len()))
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		ps := make([]Perspective, 0, len(pair.Value))
		for i, r := range pair.Value {
			p, err := decodePerspective(r, dim)
			if err != nil {
				return nil, fmt.Errorf("movie %s perspective %d: %w", pair.Key, i, err)
			}
			ps = append(ps, p)
		}
		out.Set(pair.Key, ps)
	}
	return out, nil
}

type perspectiveObject struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Embedding []float64 `json:"embedding"`
}

func decodePerspective(r json.RawMessage, dim int) (Perspective, error) {
	r = bytes.TrimSpace(r)
	if len(r) == 0 {
		return Perspective{}, fmt.Errorf("empty perspective")
	}

	var p Perspective
	switch r[0] {
	case '{':
		var obj perspectiveObject
		if err := json.Unmarshal(r, &obj); err != nil {
			return Perspective{}, err
		}
		p = Perspective(obj)
	case '[':
		var tuple []json.RawMessage
		if err := json.Unmarshal(r, &tuple); err != nil {
			return Perspective{}, err
		}
		if len(tuple) < 2+dim {
			return Perspective{}, fmt.Errorf("tuple has %d elements, want at least %d", len(tuple), 2+dim)
		}
		p.Key = scalarString(tuple[0])
		p.Label = scalarString(tuple[1])
		p.Embedding = make([]float64, dim)
		for i := range dim {
			if err := json.Unmarshal(tuple[2+i], &p.Embedding[i]); err != nil {
				return Perspective{}, fmt.Errorf("embedding component %d: %w", i, err)
			}
		}
	default:
		return Perspective{}, fmt.Errorf("unexpected perspective encoding %q", r[0])
	}

	if len(p.Embedding) < dim {
		return Perspective{}, fmt.Errorf("embedding has %d components, want %d", len(p.Embedding), dim)
	}
	p.Embedding = p.Embedding[:dim]
	if _, err := MovieOf(p.Key); err != nil {
		return Perspective{}, err
	}
	return p, nil
}

// scalarString renders a JSON scalar as text; strings lose their quotes.
func scalarString(r json.RawMessage) string {
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(r))
}
