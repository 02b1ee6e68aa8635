package domain

import "time"

// ProfileSpec is the static ranking-preference definition loaded from disk.
// It is upserted into the store on every ranking run.
type ProfileSpec struct {
	Name                  string   `json:"name"`
	DisplayName           string   `json:"display_name,omitempty"`
	Description           string   `json:"description,omitempty"`
	Interests             []string `json:"interests,omitempty"`
	AvoidTopics           []string `json:"avoid_topics,omitempty"`
	PreferredContentTypes []string `json:"preferred_content_types,omitempty"`
	PreferredSources      []string `json:"preferred_sources,omitempty"`
}

// UserProfile is the persisted form of a ProfileSpec, unique by name.
type UserProfile struct {
	ID                    int64
	Name                  string
	Description           string
	Interests             []string
	AvoidTopics           []string
	PreferredContentTypes []string
	PreferredSources      []string
	UpdatedAt             time.Time
}

// RankedItem is one entry of the ranking collaborator's response.
type RankedItem struct {
	DigestID  int64  `json:"digest_id"`
	Score     int    `json:"score"`
	Rationale string `json:"reason"`
}

// RankingRecord is the persisted position of one digest record for one
// profile within one reconciliation run. Ranks form a contiguous permutation
// starting at 1; all records of a run share the same CreatedAt.
type RankingRecord struct {
	ID        int64
	ProfileID int64
	DigestID  int64
	Rank      int
	Score     int
	Rationale string
	CreatedAt time.Time
}

// RankedDigest joins a ranking row with its digest record for the read path.
type RankedDigest struct {
	Ranking RankingRecord
	Digest  DigestRecord
}
