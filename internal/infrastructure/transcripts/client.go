// Package transcripts fetches video transcripts from an external HTTP API.
package transcripts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPError carries the status code of a failed API call.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Client fetches transcripts by video ID, retrying rate-limited requests
// with a growing backoff.
type Client struct {
	apiURL  string
	apiKey  string
	retries int
	client  *http.Client
	logger  *slog.Logger
}

// NewClient constructs the transcript API client.
func NewClient(apiURL, apiKey string, retries int, logger *slog.Logger) *Client {
	if retries < 1 {
		retries = 1
	}
	return &Client{
		apiURL:  apiURL,
		apiKey:  apiKey,
		retries: retries,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger.With("component", "transcripts"),
	}
}

// Transcript returns the plain-text transcript for one video.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		transcript, err := c.fetch(ctx, videoID)
		if err == nil {
			return transcript, nil
		}
		lastErr = err

		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
			c.logger.Warn("rate limited, backing off", "video_id", videoID, "attempt", attempt+1)
			select {
			case <-time.After(time.Second * time.Duration(attempt+1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("exceeded max retries: %w", lastErr)
}

func (c *Client) fetch(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("build transcript request: %w", err)
	}

	q := req.URL.Query()
	q.Add("url", fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID))
	q.Add("api_key", c.apiKey)
	q.Add("text", "true")
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("bad status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	return string(body), nil
}
