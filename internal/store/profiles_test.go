package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
)

func TestUpsertProfileReplacesPreferences(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertProfile(ctx, domain.ProfileSpec{
		Name:        "alex",
		Description: "ml engineer",
		Interests:   []string{"evals", "agents"},
		AvoidTopics: []string{"crypto"},
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.Equal(t, []string{"evals", "agents"}, first.Interests)

	second, err := s.UpsertProfile(ctx, domain.ProfileSpec{
		Name:      "alex",
		Interests: []string{"safety"},
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, []string{"safety"}, second.Interests)
	require.Nil(t, second.AvoidTopics)
}

func TestUpsertProfileRequiresName(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.UpsertProfile(context.Background(), domain.ProfileSpec{})
	require.Error(t, err)
}

func TestProfileByNameMissing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	p, err := s.ProfileByName(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, p)
}
