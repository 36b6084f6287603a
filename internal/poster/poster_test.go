package poster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetch(t *testing.T) {
	body := pngBytes(t, solid(20, 30, color.RGBA{R: 200, A: 255}))
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	img, err := NewFetcher(time.Second, "moviestudy-test").Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 30), img.Bounds())
	assert.Equal(t, "moviestudy-test", agent)
}

func TestFetch_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(0, "").Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_NotAnImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	_, err := NewFetcher(0, "").Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "decode")
}

func TestFetch_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFetcher(0, "").Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScale(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 10, 16), Scale(solid(100, 150, color.White), 10).Bounds())
	assert.Equal(t, image.Rect(0, 0, 4, 2), Scale(solid(100, 10, color.White), 4).Bounds())
	assert.Equal(t, image.Rect(0, 0, 0, 0), Scale(solid(0, 0, color.White), 4).Bounds())

	scaled := Scale(solid(8, 8, color.RGBA{G: 255, A: 255}), 4)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, scaled.RGBAAt(1, 1))
}

func TestRender_Dimensions(t *testing.T) {
	out := Render(Scale(solid(40, 60, color.RGBA{B: 255, A: 255}), 12))
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 9)
	for _, line := range lines {
		assert.Equal(t, 12, lipgloss.Width(line))
	}
}

func TestFetchCells(t *testing.T) {
	body := pngBytes(t, solid(20, 30, color.Black))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	cells, err := NewFetcher(time.Second, "").FetchCells(context.Background(), srv.URL, 8)
	require.NoError(t, err)
	assert.Equal(t, CellHeight(8), lipgloss.Height(cells))
	assert.Equal(t, 8, lipgloss.Width(cells))
}

func TestPlaceholder(t *testing.T) {
	box := Placeholder(16, 12, "no poster")
	assert.Equal(t, 16, lipgloss.Width(box))
	assert.Equal(t, 12, lipgloss.Height(box))
	assert.Contains(t, box, "no poster")
}

func TestCellHeight(t *testing.T) {
	assert.Equal(t, 18, CellHeight(24))
	assert.Equal(t, 6, CellHeight(8))
}
