package domain

import "time"

// Summary is the structured output of the summarization collaborator.
type Summary struct {
	Text     string
	Topics   []string
	Category string
}

// DigestRecord is the generated summary artifact for exactly one source item,
// referenced by the (SourceKind, SourceRefID) pair.
type DigestRecord struct {
	ID          int64
	SourceKind  SourceKind
	SourceRefID int64
	URL         string
	Title       string
	Summary     string
	Topics      []string
	Category    string
	PublishedAt time.Time
	CreatedAt   time.Time
}

// DigestPayload is the projection of a DigestRecord handed to the ranking
// collaborator.
type DigestPayload struct {
	DigestID    int64      `json:"digest_id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Topics      []string   `json:"key_topics,omitempty"`
	Category    string     `json:"content_category,omitempty"`
	SourceKind  SourceKind `json:"source_type"`
	PublishedAt string     `json:"published_at,omitempty"`
}

// Payload builds the ranking projection for a digest record.
func (d DigestRecord) Payload() DigestPayload {
	p := DigestPayload{
		DigestID:   d.ID,
		Title:      d.Title,
		Summary:    d.Summary,
		Topics:     d.Topics,
		Category:   d.Category,
		SourceKind: d.SourceKind,
	}
	if !d.PublishedAt.IsZero() {
		p.PublishedAt = d.PublishedAt.Format(time.RFC3339)
	}
	return p
}
