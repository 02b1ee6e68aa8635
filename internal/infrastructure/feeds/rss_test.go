package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsDigest/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func rssBody(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    %s
  </channel>
</rss>`, items)
}

func rssItem(title, link string, published time.Time, description string) string {
	return fmt.Sprintf(`<item>
  <title>%s</title>
  <link>%s</link>
  <pubDate>%s</pubDate>
  <description>%s</description>
</item>`, title, link, published.Format(time.RFC1123Z), description)
}

func TestRSSSourceFetchArticles(t *testing.T) {
	t.Parallel()

	fresh := time.Now().UTC().Add(-time.Hour)
	stale := time.Now().UTC().Add(-72 * time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssBody(
			rssItem("Fresh Post", "https://example.com/fresh", fresh, "&lt;p&gt;Hello &lt;b&gt;world&lt;/b&gt;&lt;/p&gt;") +
				rssItem("Stale Post", "https://example.com/stale", stale, "too old"),
		)))
	}))
	defer server.Close()

	source := NewRSSSource(domain.SourceOpenAI, []Feed{{Name: "openai-news", URL: server.URL}}, nil, testLogger())

	if source.Kind() != domain.SourceOpenAI {
		t.Fatalf("unexpected kind: %s", source.Kind())
	}

	articles, err := source.FetchArticles(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchArticles error: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].URL != "https://example.com/fresh" {
		t.Fatalf("unexpected url: %s", articles[0].URL)
	}
	if articles[0].Title != "Fresh Post" {
		t.Fatalf("unexpected title: %s", articles[0].Title)
	}
	if articles[0].Description != "Hello world" {
		t.Fatalf("expected html-stripped description, got %q", articles[0].Description)
	}
	if articles[0].Feed != "openai-news" {
		t.Fatalf("unexpected feed label: %s", articles[0].Feed)
	}
}

func TestRSSSourceDedupesAcrossFeeds(t *testing.T) {
	t.Parallel()

	fresh := time.Now().UTC().Add(-time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssBody(rssItem("Shared Post", "https://example.com/shared", fresh, "body"))))
	}))
	defer server.Close()

	source := NewRSSSource(domain.SourceAnthropic, []Feed{
		{Name: "news", URL: server.URL + "/news"},
		{Name: "engineering", URL: server.URL + "/engineering"},
	}, nil, testLogger())

	articles, err := source.FetchArticles(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchArticles error: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected deduped single article, got %d", len(articles))
	}
	if articles[0].Feed != "news" {
		t.Fatalf("expected first feed to win, got %s", articles[0].Feed)
	}
}

func TestRSSSourceAllFeedsFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewRSSSource(domain.SourceOpenAI, []Feed{{Name: "broken", URL: server.URL}}, nil, testLogger())

	if _, err := source.FetchArticles(context.Background(), time.Hour); err == nil {
		t.Fatal("expected error when every feed fails")
	}
}

func TestCleanDescription(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := cleanDescription(tc.in); got != tc.want {
			t.Fatalf("cleanDescription(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
