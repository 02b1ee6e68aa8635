package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsDigest/internal/domain"
)

var digestColumns = []string{
	"id", "source_kind", "source_ref_id", "url", "title",
	"summary", "topics_json", "category", "published_at", "created_at",
}

// AddDigest inserts one digest record. A conflict on the
// (source_kind, source_ref_id) pair means another run already digested this
// item; the insert becomes a no-op and inserted is false.
func (s *Store) AddDigest(ctx context.Context, rec domain.DigestRecord) (bool, error) {
	vals := map[string]any{
		"source_kind":   string(rec.SourceKind),
		"source_ref_id": rec.SourceRefID,
		"url":           rec.URL,
		"title":         rec.Title,
		"summary":       rec.Summary,
		"topics_json":   marshalList(rec.Topics),
		"created_at":    createdAt(rec.CreatedAt),
	}
	if rec.Category != "" {
		vals["category"] = rec.Category
	}
	if !rec.PublishedAt.IsZero() {
		vals["published_at"] = rec.PublishedAt.UTC()
	}

	cols := make([]string, 0, len(vals))
	values := make([]any, 0, len(vals))
	for _, c := range []string{"source_kind", "source_ref_id", "url", "title", "summary", "topics_json", "category", "published_at", "created_at"} {
		if v, ok := vals[c]; ok {
			cols = append(cols, c)
			values = append(values, v)
		}
	}

	query, args, err := sq.Insert("digest_records").
		Columns(cols...).
		Values(values...).
		Suffix("ON CONFLICT(source_kind, source_ref_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build digest insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert digest for %s/%d: %w", rec.SourceKind, rec.SourceRefID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// DigestsSince returns digest records created within the window, newest
// first.
func (s *Store) DigestsSince(ctx context.Context, window time.Duration) ([]domain.DigestRecord, error) {
	cutoff := time.Now().UTC().Add(-window)

	query, args, err := sq.Select(digestColumns...).
		From("digest_records").
		Where(sq.GtOrEq{"created_at": cutoff}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build digests query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query digests: %w", err)
	}
	defer rows.Close()

	var records []domain.DigestRecord
	for rows.Next() {
		rec, err := scanDigest(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func scanDigest(rows *sql.Rows) (domain.DigestRecord, error) {
	var rec domain.DigestRecord
	var kind string
	var url, title, topics, category sql.NullString
	var publishedAt sql.NullTime

	err := rows.Scan(
		&rec.ID, &kind, &rec.SourceRefID, &url, &title,
		&rec.Summary, &topics, &category, &publishedAt, &rec.CreatedAt,
	)
	if err != nil {
		return domain.DigestRecord{}, fmt.Errorf("scan digest: %w", err)
	}

	rec.SourceKind = domain.SourceKind(kind)
	rec.URL = url.String
	rec.Title = title.String
	rec.Topics = unmarshalList(topics)
	rec.Category = category.String
	if publishedAt.Valid {
		rec.PublishedAt = publishedAt.Time
	}

	return rec, nil
}
