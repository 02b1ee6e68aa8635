package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsDigest/internal/domain"
)

// PendingItems returns, per source table, the rows created within the window
// that are not yet referenced by any digest record of that kind. The covered
// id sets are computed once per call as flat sets (an anti-join), not as
// per-row existence checks. There is no persisted cursor: the selection is
// re-evaluated fresh on every run, giving at-least-once semantics.
func (s *Store) PendingItems(ctx context.Context, window time.Duration) (domain.PendingSet, error) {
	cutoff := time.Now().UTC().Add(-window)

	covered, err := s.coveredIDs(ctx)
	if err != nil {
		return domain.PendingSet{}, err
	}

	var pending domain.PendingSet

	pending.Videos, err = s.pendingVideos(ctx, cutoff, covered[domain.SourceYouTube])
	if err != nil {
		return domain.PendingSet{}, err
	}

	pending.OpenAI, err = s.pendingArticles(ctx, domain.SourceOpenAI, cutoff, covered[domain.SourceOpenAI])
	if err != nil {
		return domain.PendingSet{}, err
	}

	pending.Anthropic, err = s.pendingArticles(ctx, domain.SourceAnthropic, cutoff, covered[domain.SourceAnthropic])
	if err != nil {
		return domain.PendingSet{}, err
	}

	return pending, nil
}

// coveredIDs collects, per source kind, every row id already referenced by a
// digest record.
func (s *Store) coveredIDs(ctx context.Context) (map[domain.SourceKind][]int64, error) {
	query, args, err := sq.Select("source_kind", "source_ref_id").
		From("digest_records").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build covered query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query covered ids: %w", err)
	}
	defer rows.Close()

	covered := make(map[domain.SourceKind][]int64)
	for rows.Next() {
		var kind domain.SourceKind
		var refID int64
		if err := rows.Scan(&kind, &refID); err != nil {
			return nil, fmt.Errorf("scan covered id: %w", err)
		}
		covered[kind] = append(covered[kind], refID)
	}

	return covered, rows.Err()
}

func (s *Store) pendingVideos(ctx context.Context, cutoff time.Time, exclude []int64) ([]domain.VideoItem, error) {
	builder := sq.Select(videoColumns...).
		From("video_items").
		Where(sq.GtOrEq{"created_at": cutoff}).
		OrderBy("id ASC")
	if len(exclude) > 0 {
		builder = builder.Where(sq.NotEq{"id": exclude})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending videos query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending videos: %w", err)
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (s *Store) pendingArticles(ctx context.Context, kind domain.SourceKind, cutoff time.Time, exclude []int64) ([]domain.ArticleItem, error) {
	table, err := articleTable(kind)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(articleColumns...).
		From(table).
		Where(sq.GtOrEq{"created_at": cutoff}).
		OrderBy("id ASC")
	if len(exclude) > 0 {
		builder = builder.Where(sq.NotEq{"id": exclude})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending %s query: %w", kind, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending %s: %w", kind, err)
	}
	defer rows.Close()

	return scanArticles(rows)
}
