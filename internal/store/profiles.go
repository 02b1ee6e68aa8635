package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsDigest/internal/domain"
)

var profileColumns = []string{
	"id", "name", "description", "interests_json", "avoid_json",
	"preferred_types_json", "preferred_sources_json", "updated_at",
}

// UpsertProfile creates or overwrites a user profile by name and returns the
// stored row. All preference fields are replaced by the given profile on every call.
func (s *Store) UpsertProfile(ctx context.Context, spec domain.ProfileSpec) (domain.UserProfile, error) {
	if spec.Name == "" {
		return domain.UserProfile{}, errors.New("profile name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("begin profile upsert: %w", err)
	}
	defer tx.Rollback()

	vals := map[string]any{
		"name":                   spec.Name,
		"description":            nullable(spec.Description),
		"interests_json":         marshalList(spec.Interests),
		"avoid_json":             marshalList(spec.AvoidTopics),
		"preferred_types_json":   marshalList(spec.PreferredContentTypes),
		"preferred_sources_json": marshalList(spec.PreferredSources),
		"updated_at":             time.Now().UTC(),
	}
	if err := upsertTx(ctx, tx, "user_profiles", "name", vals); err != nil {
		return domain.UserProfile{}, fmt.Errorf("upsert profile %s: %w", spec.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("commit profile upsert: %w", err)
	}

	profile, err := s.ProfileByName(ctx, spec.Name)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if profile == nil {
		return domain.UserProfile{}, fmt.Errorf("profile %s missing after upsert", spec.Name)
	}

	return *profile, nil
}

// ProfileByName returns the profile with the given name, or nil if absent.
func (s *Store) ProfileByName(ctx context.Context, name string) (*domain.UserProfile, error) {
	query, args, err := sq.Select(profileColumns...).
		From("user_profiles").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile query: %w", err)
	}

	var p domain.UserProfile
	var description, interests, avoid, types, sources sql.NullString

	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.Name, &description, &interests, &avoid,
		&types, &sources, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", name, err)
	}

	p.Description = description.String
	p.Interests = unmarshalList(interests)
	p.AvoidTopics = unmarshalList(avoid)
	p.PreferredContentTypes = unmarshalList(types)
	p.PreferredSources = unmarshalList(sources)

	return &p, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
