package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/store"
)

type fakeDrafter struct {
	calls int
	items []domain.EmailItem
}

func (f *fakeDrafter) Draft(_ context.Context, profile domain.ProfileSpec, items []domain.EmailItem, _ string) (domain.EmailDraft, error) {
	f.calls++
	f.items = items
	return domain.EmailDraft{
		Subject:  "Your AI digest",
		Greeting: "Hey " + profile.DisplayName + ",",
		Intro:    "Here is what happened.",
		Items:    items,
		Closing:  "See you tomorrow.",
	}, nil
}

type captureTransport struct {
	sent []domain.Email
}

func (c *captureTransport) Send(_ context.Context, msg domain.Email) error {
	c.sent = append(c.sent, msg)
	return nil
}

func seedRankedDigests(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()

	ids := seedDigests(t, s, "alpha", "beta")
	profile, err := s.UpsertProfile(ctx, domain.ProfileSpec{Name: "alex"})
	require.NoError(t, err)

	batch := time.Now().UTC().Truncate(time.Second)
	_, err = s.AddRankings(ctx, profile.ID, []domain.RankingRecord{
		{DigestID: ids[0], Rank: 1, Score: 90, Rationale: "strong match", CreatedAt: batch},
		{DigestID: ids[1], Rank: 2, Score: 40, Rationale: "weak match", CreatedAt: batch},
	})
	require.NoError(t, err)
}

func TestNotifySendsRankedDigest(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seedRankedDigests(t, s)

	drafter := &fakeDrafter{}
	transport := &captureTransport{}
	svc := NewNotifyService(NotifyDeps{
		Store:     s,
		Drafter:   drafter,
		Transport: transport,
		Recipient: "alex@example.com",
		Logger:    discardLogger(),
	})

	spec := domain.ProfileSpec{Name: "alex", DisplayName: "Alex"}
	err := svc.Notify(context.Background(), spec, time.Hour, 10)
	require.NoError(t, err)

	require.Equal(t, 1, drafter.calls)
	require.Len(t, drafter.items, 2)
	require.Equal(t, 1, drafter.items[0].Rank)
	require.Equal(t, "alpha", drafter.items[0].Title)
	require.Equal(t, 90, drafter.items[0].Score)

	require.Len(t, transport.sent, 1)
	msg := transport.sent[0]
	require.Equal(t, "alex@example.com", msg.To)
	require.Equal(t, "Your AI digest", msg.Subject)
	require.Contains(t, msg.PlainBody, "alpha")
	require.Contains(t, msg.PlainBody, "strong match")
	require.True(t, strings.Contains(msg.HTMLBody, "<ol>"))
	require.Contains(t, msg.HTMLBody, "alpha summary")
}

func TestNotifyRespectsLimit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seedRankedDigests(t, s)

	drafter := &fakeDrafter{}
	svc := NewNotifyService(NotifyDeps{
		Store:     s,
		Drafter:   drafter,
		Transport: &captureTransport{},
		Recipient: "alex@example.com",
		Logger:    discardLogger(),
	})

	err := svc.Notify(context.Background(), domain.ProfileSpec{Name: "alex"}, time.Hour, 1)
	require.NoError(t, err)
	require.Len(t, drafter.items, 1)
}

func TestNotifyWithoutTransportStillSucceeds(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seedRankedDigests(t, s)

	drafter := &fakeDrafter{}
	svc := NewNotifyService(NotifyDeps{
		Store:   s,
		Drafter: drafter,
		Logger:  discardLogger(),
	})

	err := svc.Notify(context.Background(), domain.ProfileSpec{Name: "alex"}, time.Hour, 10)
	require.NoError(t, err)
	require.Equal(t, 1, drafter.calls)
}

func TestNotifyWithNothingRankedSkipsDraft(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	drafter := &fakeDrafter{}
	svc := NewNotifyService(NotifyDeps{
		Store:   s,
		Drafter: drafter,
		Logger:  discardLogger(),
	})

	err := svc.Notify(context.Background(), domain.ProfileSpec{Name: "alex"}, time.Hour, 10)
	require.NoError(t, err)
	require.Zero(t, drafter.calls)
}

func TestRenderPlainAndHTML(t *testing.T) {
	t.Parallel()

	draft := domain.EmailDraft{
		Subject:  "Digest",
		Greeting: "Hey Alex,",
		Intro:    "Two items today.",
		Items: []domain.EmailItem{
			{Rank: 1, Title: "A <b>bold</b> claim", URL: "https://example.com/a", Summary: "short", Score: 90, Reason: "match"},
		},
		Closing: "Bye.",
	}

	plain := renderPlain(draft)
	require.Contains(t, plain, "Hey Alex,")
	require.Contains(t, plain, "1. A <b>bold</b> claim")
	require.Contains(t, plain, "Why: match (score 90)")
	require.Contains(t, plain, "https://example.com/a")

	html := renderHTML(draft)
	require.Contains(t, html, "A &lt;b&gt;bold&lt;/b&gt; claim")
	require.Contains(t, html, `<a href="https://example.com/a">`)
	require.NotContains(t, html, "<b>bold</b>")
}
