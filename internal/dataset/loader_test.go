package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviestudy/internal/config"
)

func writeSnapshot(t *testing.T, dir, name, body string, compress bool) {
	t.Helper()
	data := []byte(body)
	if compress {
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		data = enc.EncodeAll(data, nil)
		require.NoError(t, enc.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func testDataConfig(dir string) config.DataConfig {
	return config.DataConfig{
		Dir:          dir,
		Catalog:      "catalog.json",
		Overviews:    "overviews.json",
		Perspectives: "perspectives.json.zst",
		Reviews:      "reviews.json",
		Posters:      "posters.json",
		EmbeddingDim: 3,
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "catalog.json", `["m2", "m1", "m3"]`, false)
	writeSnapshot(t, dir, "overviews.json", `{"m1": "<b>one</b>", "m2": "two"}`, false)
	writeSnapshot(t, dir, "reviews.json", `{"plot|m2": "great plot", "cast|m1": "fine cast"}`, true)
	writeSnapshot(t, dir, "posters.json", `{"m1": "http://img/m1.png"}`, false)
	writeSnapshot(t, dir, "perspectives.json.zst", `{
		"m2": [{"key": "plot|m2", "label": "plot", "embedding": [1, 0, 0, 9]}],
		"m1": [["cast|m1", "cast", 0, 1, 0, "extra"], ["plot|m1", 7, 0, 0, 1]]
	}`, true)

	d, err := Load(testDataConfig(dir))
	require.NoError(t, err)

	assert.Equal(t, []string{"m2", "m1", "m3"}, d.Catalog())
	assert.Equal(t, 2, d.Len())

	var order []string
	for movie := range d.Movies() {
		order = append(order, movie)
	}
	assert.Equal(t, []string{"m2", "m1"}, order, "movie order follows the file")

	m2, ok := d.Perspectives("m2")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0, 0}, m2[0].Embedding, "embedding truncated to dim")

	m1, ok := d.Perspectives("m1")
	require.True(t, ok)
	require.Len(t, m1, 2)
	assert.Equal(t, Perspective{Key: "cast|m1", Label: "cast", Embedding: []float64{0, 1, 0}}, m1[0])
	assert.Equal(t, "7", m1[1].Label)

	text, ok := d.Review("plot|m2")
	assert.True(t, ok)
	assert.Equal(t, "great plot", text)

	overview, ok := d.Overview("m1")
	assert.True(t, ok)
	assert.Equal(t, "<b>one</b>", overview)

	url, ok := d.PosterURL("m1")
	assert.True(t, ok)
	assert.Equal(t, "http://img/m1.png", url)

	_, ok = d.PosterURL("m2")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testDataConfig(t.TempDir()))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodePerspectives_Errors(t *testing.T) {
	cases := map[string]string{
		"short tuple":     `{"m": [["a|m", "a", 1, 2]]}`,
		"short object":    `{"m": [{"key": "a|m", "embedding": [1, 2]}]}`,
		"key without bar": `{"m": [{"key": "a", "embedding": [1, 2, 3]}]}`,
		"scalar":          `{"m": [3]}`,
		"non numeric":     `{"m": [["a|m", "a", 1, "x", 3]]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePerspectives([]byte(body), 3)
			assert.Error(t, err)
		})
	}
}

func TestMovieOf(t *testing.T) {
	movie, err := MovieOf("plot|tt0111161")
	require.NoError(t, err)
	assert.Equal(t, "tt0111161", movie)

	movie, err = MovieOf("a|b|c")
	require.NoError(t, err)
	assert.Equal(t, "b|c", movie)

	_, err = MovieOf("plot")
	assert.ErrorIs(t, err, ErrInvalidKey)

	assert.Equal(t, "plot|m", Key("plot", "m"))
}

func TestNew_KeepsOrder(t *testing.T) {
	d := New(Tables{},
		Movie{ID: "z", Perspectives: []Perspective{{Key: "a|z"}}},
		Movie{ID: "a", Perspectives: []Perspective{{Key: "a|a"}}},
	)

	var order []string
	for movie := range d.Movies() {
		order = append(order, movie)
	}
	assert.Equal(t, []string{"z", "a"}, order)

	_, ok := d.Review("a|z")
	assert.False(t, ok)
}
