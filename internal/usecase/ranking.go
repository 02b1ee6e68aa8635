package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// unrankedRationale marks records the model omitted from its response.
const unrankedRationale = "not ranked by model"

// RankingStats reports one ranking run.
type RankingStats struct {
	Items  int
	Ranked int
	Stored int
}

// RankingStorage combines the store views the ranking service needs.
type RankingStorage interface {
	ports.ProfileStore
	ports.DigestStore
	ports.RankingStore
}

// RankingDeps wires storage and the ranking collaborator together.
type RankingDeps struct {
	Store  RankingStorage
	Ranker ports.Ranker
	Logger *slog.Logger
}

// RankingService orders recent digest records for one profile. The run is
// atomic: a ranker failure persists nothing. The stored batch always covers
// every digest handed to the ranker; omitted items are appended with a zero
// score so ranks form a contiguous permutation.
type RankingService struct {
	store  RankingStorage
	ranker ports.Ranker
	logger *slog.Logger
}

// NewRankingService constructs the ranking service.
func NewRankingService(deps RankingDeps) *RankingService {
	return &RankingService{
		store:  deps.Store,
		ranker: deps.Ranker,
		logger: deps.Logger.With("component", "ranking"),
	}
}

// Rank reconciles the model's ordering of digests within the window against
// the full digest set and persists one ranking batch for the profile.
func (s *RankingService) Rank(ctx context.Context, spec domain.ProfileSpec, window time.Duration) (RankingStats, error) {
	var stats RankingStats

	profile, err := s.store.UpsertProfile(ctx, spec)
	if err != nil {
		return stats, fmt.Errorf("upsert profile: %w", err)
	}

	digests, err := s.store.DigestsSince(ctx, window)
	if err != nil {
		return stats, fmt.Errorf("load digests: %w", err)
	}
	stats.Items = len(digests)

	if len(digests) == 0 {
		s.logger.Info("no digests to rank", "profile", profile.Name)
		return stats, nil
	}

	payloads := make([]domain.DigestPayload, len(digests))
	for i, d := range digests {
		payloads[i] = d.Payload()
	}

	ranked, err := s.ranker.RankItems(ctx, spec, payloads)
	if err != nil {
		return stats, fmt.Errorf("rank digests: %w", err)
	}

	records := reconcile(digests, ranked)
	stats.Ranked = len(ranked)

	stored, err := s.store.AddRankings(ctx, profile.ID, records)
	if err != nil {
		return stats, fmt.Errorf("store rankings: %w", err)
	}
	stats.Stored = stored

	s.logger.Info("ranking run finished",
		"profile", profile.Name,
		"items", stats.Items,
		"ranked", stats.Ranked,
		"stored", stats.Stored)

	return stats, nil
}

// reconcile turns the model response into a complete ranking batch. Response
// entries referencing unknown digests, or repeating a digest, are dropped.
// Digests the response never mentioned are appended at the tail with a zero
// score, in their original order, so every input digest gets exactly one
// record and ranks run 1..N.
func reconcile(digests []domain.DigestRecord, ranked []domain.RankedItem) []domain.RankingRecord {
	known := make(map[int64]bool, len(digests))
	for _, d := range digests {
		known[d.ID] = true
	}

	batchTime := time.Now().UTC()
	seen := make(map[int64]bool, len(ranked))
	records := make([]domain.RankingRecord, 0, len(digests))

	for _, item := range ranked {
		if !known[item.DigestID] || seen[item.DigestID] {
			continue
		}
		seen[item.DigestID] = true
		records = append(records, domain.RankingRecord{
			DigestID:  item.DigestID,
			Rank:      len(records) + 1,
			Score:     item.Score,
			Rationale: item.Rationale,
			CreatedAt: batchTime,
		})
	}

	for _, d := range digests {
		if seen[d.ID] {
			continue
		}
		records = append(records, domain.RankingRecord{
			DigestID:  d.ID,
			Rank:      len(records) + 1,
			Score:     0,
			Rationale: unrankedRationale,
			CreatedAt: batchTime,
		})
	}

	return records
}
