package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// maxBodyBytes caps how much of an article page is read.
const maxBodyBytes = 2 << 20

// ContentEnricher downloads an article page and converts it to markdown for
// long-form summarization input.
type ContentEnricher struct {
	client    *http.Client
	converter *md.Converter
}

// NewContentEnricher constructs an enricher with a bounded request timeout.
func NewContentEnricher() *ContentEnricher {
	return &ContentEnricher{
		client:    &http.Client{Timeout: 30 * time.Second},
		converter: md.NewConverter("", true, nil),
	}
}

// Fetch downloads the page at url and returns its markdown rendition.
func (e *ContentEnricher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "newsdigest/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	markdown, err := e.converter.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("convert page: %w", err)
	}

	return markdown, nil
}
