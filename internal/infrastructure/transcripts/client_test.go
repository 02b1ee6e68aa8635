package transcripts

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestTranscriptPassesVideoParams(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("url") != "https://www.youtube.com/watch?v=abc123" {
			t.Errorf("unexpected url param: %s", q.Get("url"))
		}
		if q.Get("api_key") != "secret" {
			t.Errorf("unexpected api_key param: %s", q.Get("api_key"))
		}
		if q.Get("text") != "true" {
			t.Errorf("unexpected text param: %s", q.Get("text"))
		}
		_, _ = w.Write([]byte("the transcript"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 3, testLogger())

	transcript, err := c.Transcript(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Transcript error: %v", err)
	}
	if transcript != "the transcript" {
		t.Fatalf("unexpected transcript: %q", transcript)
	}
}

func TestTranscriptRetriesRateLimit(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("eventually"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 3, testLogger())

	transcript, err := c.Transcript(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Transcript error: %v", err)
	}
	if transcript != "eventually" {
		t.Fatalf("unexpected transcript: %q", transcript)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", hits.Load())
	}
}

func TestTranscriptGivesUpOnHardError(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 3, testLogger())

	if _, err := c.Transcript(context.Background(), "abc123"); err == nil {
		t.Fatal("expected error for 404")
	}
	if hits.Load() != 1 {
		t.Fatalf("expected no retries on 404, got %d requests", hits.Load())
	}
}
