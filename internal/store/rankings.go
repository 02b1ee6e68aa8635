package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsDigest/internal/domain"
)

// AddRankings bulk-inserts one reconciliation run's records for a profile in
// a single transaction. Records of one run share the same created_at so the
// read path can isolate the latest batch. Returns the number of rows
// inserted; any failure rolls back the whole batch.
func (s *Store) AddRankings(ctx context.Context, profileID int64, records []domain.RankingRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rankings batch: %w", err)
	}
	defer tx.Rollback()

	batchTime := createdAt(records[0].CreatedAt)

	count := 0
	for _, r := range records {
		query, args, err := sq.Insert("ranking_records").
			Columns("profile_id", "digest_id", "rank", "score", "rationale", "created_at").
			Values(profileID, r.DigestID, r.Rank, r.Score, r.Rationale, batchTime).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build ranking insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert ranking for digest %d: %w", r.DigestID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rankings batch: %w", err)
	}

	return count, nil
}

// TopRanked returns the top ranked digest records for a profile from the most
// recent reconciliation batch within the window, ordered by rank.
func (s *Store) TopRanked(ctx context.Context, profileID int64, window time.Duration, limit int) ([]domain.RankedDigest, error) {
	cutoff := time.Now().UTC().Add(-window)

	cols := []string{
		"r.id", "r.profile_id", "r.digest_id", "r.rank", "r.score", "r.rationale", "r.created_at",
		"d.id", "d.source_kind", "d.source_ref_id", "d.url", "d.title",
		"d.summary", "d.topics_json", "d.category", "d.published_at", "d.created_at",
	}

	query, args, err := sq.Select(cols...).
		From("ranking_records r").
		Join("digest_records d ON d.id = r.digest_id").
		Where(sq.Eq{"r.profile_id": profileID}).
		Where(sq.GtOrEq{"r.created_at": cutoff}).
		OrderBy("r.created_at DESC", "r.rank ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top ranked query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top ranked: %w", err)
	}
	defer rows.Close()

	// Rows arrive newest batch first; keep only rows from the first batch
	// timestamp seen, up to limit.
	var ranked []domain.RankedDigest
	var batchTime time.Time
	for rows.Next() {
		entry, err := scanRankedDigest(rows)
		if err != nil {
			return nil, err
		}
		if batchTime.IsZero() {
			batchTime = entry.Ranking.CreatedAt
		}
		if !entry.Ranking.CreatedAt.Equal(batchTime) {
			break
		}
		ranked = append(ranked, entry)
		if limit > 0 && len(ranked) >= limit {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top ranked: %w", err)
	}

	return ranked, nil
}

func scanRankedDigest(rows *sql.Rows) (domain.RankedDigest, error) {
	var entry domain.RankedDigest
	var rationale sql.NullString
	var kind string
	var url, title, topics, category sql.NullString
	var publishedAt sql.NullTime

	err := rows.Scan(
		&entry.Ranking.ID, &entry.Ranking.ProfileID, &entry.Ranking.DigestID,
		&entry.Ranking.Rank, &entry.Ranking.Score, &rationale, &entry.Ranking.CreatedAt,
		&entry.Digest.ID, &kind, &entry.Digest.SourceRefID, &url, &title,
		&entry.Digest.Summary, &topics, &category, &publishedAt, &entry.Digest.CreatedAt,
	)
	if err != nil {
		return domain.RankedDigest{}, fmt.Errorf("scan ranked digest: %w", err)
	}

	entry.Ranking.Rationale = rationale.String
	entry.Digest.SourceKind = domain.SourceKind(kind)
	entry.Digest.URL = url.String
	entry.Digest.Title = title.String
	entry.Digest.Topics = unmarshalList(topics)
	entry.Digest.Category = category.String
	if publishedAt.Valid {
		entry.Digest.PublishedAt = publishedAt.Time
	}

	return entry, nil
}
