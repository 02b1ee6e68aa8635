package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// Store owns the durable tables: source items, digest records, user profiles
// and ranking records. All writes go through per-call transactions; no
// transaction is held across collaborator calls.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the SQLite database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS video_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id TEXT NOT NULL UNIQUE,
		channel_id TEXT,
		title TEXT,
		url TEXT,
		description TEXT,
		published_at DATETIME,
		transcript TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS openai_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		title TEXT,
		description TEXT,
		published_at DATETIME,
		category TEXT,
		feed TEXT,
		markdown TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS anthropic_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		title TEXT,
		description TEXT,
		published_at DATETIME,
		category TEXT,
		feed TEXT,
		markdown TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS digest_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_kind TEXT NOT NULL,
		source_ref_id INTEGER NOT NULL,
		url TEXT,
		title TEXT,
		summary TEXT NOT NULL,
		topics_json TEXT,
		category TEXT,
		published_at DATETIME,
		created_at DATETIME NOT NULL,
		UNIQUE(source_kind, source_ref_id)
	);

	CREATE TABLE IF NOT EXISTS user_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		interests_json TEXT,
		avoid_json TEXT,
		preferred_types_json TEXT,
		preferred_sources_json TEXT,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ranking_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id INTEGER NOT NULL REFERENCES user_profiles(id),
		digest_id INTEGER NOT NULL REFERENCES digest_records(id),
		rank INTEGER NOT NULL,
		score INTEGER NOT NULL,
		rationale TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_video_items_created_at ON video_items(created_at);
	CREATE INDEX IF NOT EXISTS idx_openai_articles_created_at ON openai_articles(created_at);
	CREATE INDEX IF NOT EXISTS idx_anthropic_articles_created_at ON anthropic_articles(created_at);
	CREATE INDEX IF NOT EXISTS idx_digest_records_created_at ON digest_records(created_at);
	CREATE INDEX IF NOT EXISTS idx_ranking_records_profile ON ranking_records(profile_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// upsertTx executes one insert-or-update on tx. Only the columns present in
// vals are written; on conflict every non-key column in vals overwrites the
// stored value while created_at keeps its original insert value.
func upsertTx(ctx context.Context, tx *sql.Tx, table, keyCol string, vals map[string]any) error {
	cols := make([]string, 0, len(vals))
	for c := range vals {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	values := make([]any, 0, len(cols))
	for _, c := range cols {
		values = append(values, vals[c])
	}

	updates := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == keyCol || c == "created_at" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	builder := sq.Insert(table).Columns(cols...).Values(values...)
	if len(updates) == 0 {
		builder = builder.Suffix(fmt.Sprintf("ON CONFLICT(%s) DO NOTHING", keyCol))
	} else {
		builder = builder.Suffix(fmt.Sprintf("ON CONFLICT(%s) DO UPDATE SET %s", keyCol, strings.Join(updates, ", ")))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec upsert: %w", err)
	}

	return nil
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func marshalList(values []string) any {
	if len(values) == 0 {
		return nil
	}
	raw, _ := json.Marshal(values)
	return string(raw)
}

func unmarshalList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil
	}
	return values
}
