package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviestudy/internal/dataset"
	"moviestudy/internal/similarity"
)

func testData() *dataset.Dataset {
	movie := func(id string, v ...float64) dataset.Movie {
		return dataset.Movie{ID: id, Perspectives: []dataset.Perspective{{
			Key: dataset.Key("plot", id), Label: "plot", Embedding: v,
		}}}
	}
	return dataset.New(dataset.Tables{
		Catalog:   []string{"M", "A", "B", "C"},
		Overviews: map[string]string{"M": "<p>The reference movie.</p>"},
		Reviews: map[string]string{
			"plot|M": "<b>slow</b> burn",
			"plot|A": "same idea",
			"plot|B": "close enough",
			"plot|C": "nothing alike",
		},
		Posters: map[string]string{"M": "http://img/M", "A": "http://img/A"},
	},
		movie("M", 1, 0),
		movie("A", 1, 0),
		movie("B", 0.9, 0.1),
		movie("C", 0, 1),
	)
}

func TestBuildStudy(t *testing.T) {
	d := testData()
	sel := similarity.NewSelector(d, similarity.DefaultOptions())

	study, err := buildStudy(d, sel, "M", 9)
	require.NoError(t, err)

	assert.Equal(t, "M", study.Movie)
	assert.Equal(t, "<p>The reference movie.</p>", study.Overview)
	assert.Equal(t, "http://img/M", study.PosterURL)
	assert.Equal(t, []string{"<b>slow</b> burn"}, study.Perspectives)

	require.Len(t, study.Slots, 3)
	assert.Equal(t, "A", study.Slots[0].Movie)
	assert.Equal(t, "http://img/A", study.Slots[0].PosterURL)
	assert.InDelta(t, 1.0, study.Slots[0].Similarity, 1e-9)
	assert.Equal(t, "B", study.Slots[1].Movie)
	assert.Empty(t, study.Slots[1].PosterURL)
	assert.Equal(t, "C", study.Slots[2].Movie)
	assert.Equal(t, "nothing alike", study.Slots[2].Text)
}

func TestBuildStudy_UnknownMovie(t *testing.T) {
	d := testData()
	_, err := buildStudy(d, similarity.NewSelector(d, similarity.DefaultOptions()), "nope", 9)
	assert.ErrorIs(t, err, dataset.ErrUnknownMovie)
}

func TestWriteInspection(t *testing.T) {
	d := testData()
	sel := similarity.NewSelector(d, similarity.DefaultOptions())
	display, err := sel.Select("M")
	require.NoError(t, err)
	perspectives, err := sel.Enumerate("M")
	require.NoError(t, err)

	var buf bytes.Buffer
	writeInspection(&buf, perspectives, display)
	out := buf.String()

	assert.Contains(t, out, "Perspective 1:")
	assert.Contains(t, out, "slow burn")
	assert.Contains(t, out, "plot|A (perspective 1)")
	assert.Contains(t, out, "1.0000")
	assert.Contains(t, out, "nothing alike")
	assert.NotContains(t, out, "<b>")
}

func TestWriteInspection_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeInspection(&buf, nil, similarity.Display{Selected: "M"})
	assert.Contains(t, buf.String(), "no similar movies found")
}

func TestSnippetTruncates(t *testing.T) {
	long := bytes.Repeat([]byte("word "), 100)
	s := snippet(string(long))
	assert.Equal(t, inspectSnippetRunes+1, len([]rune(s)))
	assert.Equal(t, "a b", snippet("a\n\n b"))
}
