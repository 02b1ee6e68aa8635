package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsDigest/internal/domain"
)

var videoColumns = []string{
	"id", "video_id", "channel_id", "title", "url",
	"description", "published_at", "transcript", "created_at",
}

var articleColumns = []string{
	"id", "url", "title", "description", "published_at",
	"category", "feed", "markdown", "created_at",
}

func articleTable(kind domain.SourceKind) (string, error) {
	switch kind {
	case domain.SourceOpenAI:
		return "openai_articles", nil
	case domain.SourceAnthropic:
		return "anthropic_articles", nil
	default:
		return "", fmt.Errorf("no article table for source kind %q", kind)
	}
}

// AddVideos upserts videos by video_id inside one transaction. Records
// without a video_id are dropped silently. The transcript column is never
// part of the routine update set, so a previously fetched transcript
// survives later metadata-only refreshes. Returns the number of records
// processed; any failure rolls back the whole batch.
func (s *Store) AddVideos(ctx context.Context, videos []domain.VideoItem) (int, error) {
	if len(videos) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin videos batch: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for _, v := range videos {
		if v.VideoID == "" {
			continue
		}

		vals := map[string]any{
			"video_id":   v.VideoID,
			"created_at": createdAt(v.CreatedAt),
		}
		if v.ChannelID != "" {
			vals["channel_id"] = v.ChannelID
		}
		if v.Title != "" {
			vals["title"] = v.Title
		}
		if v.URL != "" {
			vals["url"] = v.URL
		}
		if v.Description != "" {
			vals["description"] = v.Description
		}
		if !v.PublishedAt.IsZero() {
			vals["published_at"] = v.PublishedAt.UTC()
		}

		if err := upsertTx(ctx, tx, "video_items", "video_id", vals); err != nil {
			return 0, fmt.Errorf("upsert video %s: %w", v.VideoID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit videos batch: %w", err)
	}

	return count, nil
}

// AddArticles upserts articles by url into the table of the given kind.
// Same batch semantics as AddVideos.
func (s *Store) AddArticles(ctx context.Context, kind domain.SourceKind, articles []domain.ArticleItem) (int, error) {
	table, err := articleTable(kind)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin articles batch: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for _, a := range articles {
		if a.URL == "" {
			continue
		}

		vals := map[string]any{
			"url":        a.URL,
			"created_at": createdAt(a.CreatedAt),
		}
		if a.Title != "" {
			vals["title"] = a.Title
		}
		if a.Description != "" {
			vals["description"] = a.Description
		}
		if !a.PublishedAt.IsZero() {
			vals["published_at"] = a.PublishedAt.UTC()
		}
		if a.Category != "" {
			vals["category"] = a.Category
		}
		if a.Feed != "" {
			vals["feed"] = a.Feed
		}
		if a.Markdown != "" {
			vals["markdown"] = a.Markdown
		}

		if err := upsertTx(ctx, tx, table, "url", vals); err != nil {
			return 0, fmt.Errorf("upsert article %s: %w", a.URL, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit articles batch: %w", err)
	}

	return count, nil
}

// SetTranscript back-fills the transcript for a video. Returns true when a
// row was updated.
func (s *Store) SetTranscript(ctx context.Context, videoID, transcript string) (bool, error) {
	query, args, err := sq.Update("video_items").
		Set("transcript", transcript).
		Where(sq.Eq{"video_id": videoID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build transcript update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set transcript for %s: %w", videoID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// VideosWithoutTranscript returns videos that have no transcript yet,
// oldest first, for the backfill job.
func (s *Store) VideosWithoutTranscript(ctx context.Context, limit int) ([]domain.VideoItem, error) {
	query, args, err := sq.Select(videoColumns...).
		From("video_items").
		Where("transcript IS NULL").
		OrderBy("id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build transcript query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos without transcript: %w", err)
	}
	defer rows.Close()

	return scanVideos(rows)
}

func scanVideos(rows *sql.Rows) ([]domain.VideoItem, error) {
	var videos []domain.VideoItem
	for rows.Next() {
		var v domain.VideoItem
		var channel, title, url, description, transcript sql.NullString
		var publishedAt sql.NullTime
		err := rows.Scan(
			&v.ID, &v.VideoID, &channel, &title, &url,
			&description, &publishedAt, &transcript, &v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.ChannelID = channel.String
		v.Title = title.String
		v.URL = url.String
		v.Description = description.String
		v.Transcript = transcript.String
		if publishedAt.Valid {
			v.PublishedAt = publishedAt.Time
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func scanArticles(rows *sql.Rows) ([]domain.ArticleItem, error) {
	var articles []domain.ArticleItem
	for rows.Next() {
		var a domain.ArticleItem
		var title, description, category, feed, markdown sql.NullString
		var publishedAt sql.NullTime
		err := rows.Scan(
			&a.ID, &a.URL, &title, &description, &publishedAt,
			&category, &feed, &markdown, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Title = title.String
		a.Description = description.String
		a.Category = category.String
		a.Feed = feed.String
		a.Markdown = markdown.String
		if publishedAt.Valid {
			a.PublishedAt = publishedAt.Time
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
