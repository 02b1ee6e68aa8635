package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"NewsDigest/internal/domain"
)

// Feed names one RSS endpoint contributing to an article source.
type Feed struct {
	Name string
	URL  string
}

// RSSSource pulls articles from one provider's RSS feeds. Items are deduped
// by canonical URL across feeds; a failing feed is logged and skipped. When
// an enricher is set, each new article body is fetched and converted to
// markdown.
type RSSSource struct {
	kind     domain.SourceKind
	feeds    []Feed
	parser   *gofeed.Parser
	enricher *ContentEnricher
	logger   *slog.Logger
}

// NewRSSSource constructs an article source for one provider.
func NewRSSSource(kind domain.SourceKind, feeds []Feed, enricher *ContentEnricher, logger *slog.Logger) *RSSSource {
	return &RSSSource{
		kind:     kind,
		feeds:    feeds,
		parser:   gofeed.NewParser(),
		enricher: enricher,
		logger:   logger.With("component", "rss_source", "source", string(kind)),
	}
}

// Kind reports which provider this source feeds.
func (s *RSSSource) Kind() domain.SourceKind {
	return s.kind
}

// FetchArticles returns articles published within the window across all feeds.
func (s *RSSSource) FetchArticles(ctx context.Context, window time.Duration) ([]domain.ArticleItem, error) {
	cutoff := time.Now().UTC().Add(-window)

	seen := map[string]bool{}
	var articles []domain.ArticleItem
	failed := 0
	for _, spec := range s.feeds {
		feed, err := s.parser.ParseURLWithContext(spec.URL, ctx)
		if err != nil {
			failed++
			s.logger.Error("feed failed", "feed", spec.Name, "error", err)
			continue
		}

		for _, item := range feed.Items {
			if item.Link == "" || seen[item.Link] {
				continue
			}
			if item.PublishedParsed == nil || item.PublishedParsed.Before(cutoff) {
				continue
			}
			seen[item.Link] = true

			article := domain.ArticleItem{
				URL:         item.Link,
				Title:       item.Title,
				Description: cleanDescription(item.Description),
				PublishedAt: item.PublishedParsed.UTC(),
				Feed:        spec.Name,
			}
			if len(item.Categories) > 0 {
				article.Category = item.Categories[0]
			}

			if s.enricher != nil {
				markdown, err := s.enricher.Fetch(ctx, item.Link)
				if err != nil {
					s.logger.Warn("content enrichment failed", "url", item.Link, "error", err)
				} else {
					article.Markdown = markdown
				}
			}

			articles = append(articles, article)
		}
	}

	if failed == len(s.feeds) && len(s.feeds) > 0 {
		return nil, fmt.Errorf("all %d feeds failed for %s", failed, s.kind)
	}

	s.logger.Info("feeds fetched", "feeds", len(s.feeds), "articles", len(articles))
	return articles, nil
}

// cleanDescription strips HTML markup out of a feed item description.
func cleanDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.Contains(trimmed, "<") {
		return trimmed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}
	return strings.TrimSpace(doc.Text())
}
