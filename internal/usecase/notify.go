package usecase

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// NotifyStorage combines the store views the notification service needs.
type NotifyStorage interface {
	ports.ProfileStore
	ports.RankingStore
}

// NotifyDeps wires storage, the drafter and the mail transport together.
type NotifyDeps struct {
	Store     NotifyStorage
	Drafter   ports.Drafter
	Transport ports.Transport
	Recipient string
	Logger    *slog.Logger
}

// NotifyService turns the latest ranking batch into a digest email. With no
// transport configured the rendered draft is logged and the run still
// succeeds.
type NotifyService struct {
	store     NotifyStorage
	drafter   ports.Drafter
	transport ports.Transport
	recipient string
	logger    *slog.Logger
}

// NewNotifyService constructs the notification service.
func NewNotifyService(deps NotifyDeps) *NotifyService {
	return &NotifyService{
		store:     deps.Store,
		drafter:   deps.Drafter,
		transport: deps.Transport,
		recipient: deps.Recipient,
		logger:    deps.Logger.With("component", "notify"),
	}
}

// Notify drafts and sends the digest email for a profile from the most
// recent ranking batch within the window, limited to the top entries.
func (s *NotifyService) Notify(ctx context.Context, spec domain.ProfileSpec, window time.Duration, limit int) error {
	profile, err := s.store.UpsertProfile(ctx, spec)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	top, err := s.store.TopRanked(ctx, profile.ID, window, limit)
	if err != nil {
		return fmt.Errorf("load top ranked: %w", err)
	}
	if len(top) == 0 {
		s.logger.Info("no ranked items, skipping email", "profile", profile.Name)
		return nil
	}

	items := make([]domain.EmailItem, len(top))
	for i, entry := range top {
		items[i] = domain.EmailItem{
			Rank:    entry.Ranking.Rank,
			Title:   entry.Digest.Title,
			URL:     entry.Digest.URL,
			Summary: entry.Digest.Summary,
			Score:   entry.Ranking.Score,
			Reason:  entry.Ranking.Rationale,
		}
	}

	dateLabel := time.Now().UTC().Format("January 2, 2006")
	draft, err := s.drafter.Draft(ctx, spec, items, dateLabel)
	if err != nil {
		return fmt.Errorf("draft email: %w", err)
	}
	// The drafter may reorder or reword entries but must not invent them;
	// fall back to the ranked input when it returns none.
	if len(draft.Items) == 0 {
		draft.Items = items
	}

	msg := domain.Email{
		To:        s.recipient,
		Subject:   draft.Subject,
		PlainBody: renderPlain(draft),
		HTMLBody:  renderHTML(draft),
	}

	if s.transport == nil {
		s.logger.Info("no transport configured, skipping send",
			"profile", profile.Name, "subject", msg.Subject, "items", len(draft.Items))
		return nil
	}

	if err := s.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("digest email sent",
		"profile", profile.Name, "to", msg.To, "items", len(draft.Items))
	return nil
}

func renderPlain(draft domain.EmailDraft) string {
	var b strings.Builder

	if draft.Greeting != "" {
		b.WriteString(draft.Greeting)
		b.WriteString("\n\n")
	}
	if draft.Intro != "" {
		b.WriteString(draft.Intro)
		b.WriteString("\n\n")
	}

	for _, item := range draft.Items {
		fmt.Fprintf(&b, "%d. %s\n", item.Rank, item.Title)
		if item.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", item.Summary)
		}
		if item.Reason != "" {
			fmt.Fprintf(&b, "   Why: %s (score %d)\n", item.Reason, item.Score)
		}
		if item.URL != "" {
			fmt.Fprintf(&b, "   %s\n", item.URL)
		}
		b.WriteString("\n")
	}

	if draft.Closing != "" {
		b.WriteString(draft.Closing)
		b.WriteString("\n")
	}

	return b.String()
}

func renderHTML(draft domain.EmailDraft) string {
	var b strings.Builder

	b.WriteString("<html><body>\n")
	if draft.Greeting != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(draft.Greeting))
	}
	if draft.Intro != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(draft.Intro))
	}

	b.WriteString("<ol>\n")
	for _, item := range draft.Items {
		b.WriteString("<li>")
		if item.URL != "" {
			fmt.Fprintf(&b, `<a href="%s">%s</a>`, html.EscapeString(item.URL), html.EscapeString(item.Title))
		} else {
			b.WriteString(html.EscapeString(item.Title))
		}
		if item.Summary != "" {
			fmt.Fprintf(&b, "<br>%s", html.EscapeString(item.Summary))
		}
		if item.Reason != "" {
			fmt.Fprintf(&b, "<br><em>%s (score %d)</em>", html.EscapeString(item.Reason), item.Score)
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n")

	if draft.Closing != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(draft.Closing))
	}
	b.WriteString("</body></html>\n")

	return b.String()
}
