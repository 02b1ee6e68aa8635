package domain

import "time"

// SourceKind tags which upstream a stored item came from.
type SourceKind string

const (
	SourceYouTube   SourceKind = "youtube"
	SourceOpenAI    SourceKind = "openai"
	SourceAnthropic SourceKind = "anthropic"
)

// VideoItem is one video from a monitored YouTube channel. The transcript is
// filled in later by the backfill job, never by the routine feed refresh.
type VideoItem struct {
	ID          int64
	VideoID     string
	ChannelID   string
	Title       string
	URL         string
	Description string
	PublishedAt time.Time
	Transcript  string
	CreatedAt   time.Time
}

// ArticleItem is one article from a news RSS feed, keyed by canonical URL.
// Markdown holds the long-form body when full-content enrichment ran.
type ArticleItem struct {
	ID          int64
	URL         string
	Title       string
	Description string
	PublishedAt time.Time
	Category    string
	Feed        string
	Markdown    string
	CreatedAt   time.Time
}

// PendingSet groups stored items that have no digest record yet.
type PendingSet struct {
	Videos    []VideoItem
	OpenAI    []ArticleItem
	Anthropic []ArticleItem
}

// Total counts items across all source kinds.
func (p PendingSet) Total() int {
	return len(p.Videos) + len(p.OpenAI) + len(p.Anthropic)
}
