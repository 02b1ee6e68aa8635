package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsDigest/internal/domain"
)

const channelFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// YouTubeSource pulls recent uploads from monitored channels via their public
// RSS feeds. A channel whose feed cannot be fetched or parsed is logged and
// skipped; the remaining channels still contribute items.
type YouTubeSource struct {
	channels []string
	parser   *gofeed.Parser
	logger   *slog.Logger
}

// NewYouTubeSource constructs the channel feed source.
func NewYouTubeSource(channels []string, logger *slog.Logger) *YouTubeSource {
	return &YouTubeSource{
		channels: channels,
		parser:   gofeed.NewParser(),
		logger:   logger.With("component", "youtube_source"),
	}
}

// FetchVideos returns videos published within the window across all channels.
func (s *YouTubeSource) FetchVideos(ctx context.Context, window time.Duration) ([]domain.VideoItem, error) {
	cutoff := time.Now().UTC().Add(-window)

	var videos []domain.VideoItem
	failed := 0
	for _, channel := range s.channels {
		feed, err := s.parser.ParseURLWithContext(fmt.Sprintf(channelFeedURL, channel), ctx)
		if err != nil {
			failed++
			s.logger.Error("channel feed failed", "channel", channel, "error", err)
			continue
		}

		for _, item := range feed.Items {
			if item.PublishedParsed == nil || item.PublishedParsed.Before(cutoff) {
				continue
			}
			videoID := extractVideoID(item.Link)
			if videoID == "" {
				continue
			}
			videos = append(videos, domain.VideoItem{
				VideoID:     videoID,
				ChannelID:   channel,
				Title:       item.Title,
				URL:         item.Link,
				Description: item.Description,
				PublishedAt: item.PublishedParsed.UTC(),
			})
		}
	}

	if failed == len(s.channels) && len(s.channels) > 0 {
		return nil, fmt.Errorf("all %d channel feeds failed", failed)
	}

	s.logger.Info("channel feeds fetched", "channels", len(s.channels), "videos", len(videos))
	return videos, nil
}

// extractVideoID pulls the video identifier out of a watch or short link.
func extractVideoID(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}

	if v := u.Query().Get("v"); v != "" {
		return v
	}
	if u.Host == "youtu.be" {
		return strings.TrimPrefix(u.Path, "/")
	}
	if rest, ok := strings.CutPrefix(u.Path, "/shorts/"); ok {
		return rest
	}
	return ""
}
