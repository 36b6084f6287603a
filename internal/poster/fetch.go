// Package poster downloads movie posters and renders them as terminal cells.
package poster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	_ "golang.org/x/image/webp"
)

// maxPosterBytes bounds a single download.
const maxPosterBytes = 16 << 20

// Fetcher downloads poster images, one blocking request at a time.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a fetcher whose requests give up after timeout; zero
// means no timeout.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poster request returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode poster: %w", err)
	}
	return img, nil
}

// FetchCells downloads the poster at url and renders it width cells wide.
func (f *Fetcher) FetchCells(ctx context.Context, url string, width int) (string, error) {
	img, err := f.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return Render(Scale(img, width)), nil
}
