package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/linesmith/linesmith/internal/pkg/config"
	"github.com/linesmith/linesmith/internal/pkg/models"
	"github.com/linesmith/linesmith/internal/pkg/taxonomy"
)

// Ensure PostgresEventStore implements the storage interfaces
var _ EventStore = (*PostgresEventStore)(nil)
var _ TaxonomyStore = (*PostgresEventStore)(nil)
var _ AliasStore = (*PostgresEventStore)(nil)

// PostgresEventStore keeps canonical events in PostgreSQL with the odds
// trees in one JSONB column, merged per bookmaker with || so a write never
// touches another bookmaker's subtree.
type PostgresEventStore struct {
	db *sql.DB
}

// NewPostgresEventStore opens the connection and initializes the schema.
func NewPostgresEventStore(cfg *config.PostgresConfig) (*PostgresEventStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgresEventStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("postgres event store initialized")
	return store, nil
}

func (s *PostgresEventStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS events (
		match_id VARCHAR(100) PRIMARY KEY,
		sport VARCHAR(100) NOT NULL,
		country VARCHAR(200) NOT NULL DEFAULT '',
		group_name VARCHAR(300) NOT NULL DEFAULT '',
		start_time TIMESTAMPTZ NOT NULL,
		competitor1 VARCHAR(300) NOT NULL,
		competitor2 VARCHAR(300) NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'sched',
		prices JSONB NOT NULL DEFAULT '{}'::jsonb,
		current_score_competitor1 VARCHAR(50) NOT NULL DEFAULT '',
		current_score_competitor2 VARCHAR(50) NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_events_sport_start ON events(sport, start_time);
	CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);

	CREATE TABLE IF NOT EXISTS market_taxonomy (
		position SERIAL PRIMARY KEY,
		entry JSONB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS competitor_aliases (
		alias VARCHAR(300) PRIMARY KEY,
		canonical VARCHAR(300) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// LoadCandidates returns all non-finished events, oldest first. Iteration
// order here is the resolver's candidate order.
func (s *PostgresEventStore) LoadCandidates(ctx context.Context) ([]*models.CanonicalEvent, error) {
	query := `
	SELECT match_id, sport, country, group_name, start_time,
	       competitor1, competitor2, status,
	       current_score_competitor1, current_score_competitor2
	FROM events
	WHERE status NOT IN ($1, $2, $3)
	ORDER BY start_time, match_id
	`

	rows, err := s.db.QueryContext(ctx, query,
		models.StatusFinished, models.StatusCancelled, models.StatusAbandoned)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var events []*models.CanonicalEvent
	for rows.Next() {
		var ev models.CanonicalEvent
		err := rows.Scan(
			&ev.MatchID,
			&ev.Sport,
			&ev.Country,
			&ev.Group,
			&ev.Timestamp,
			&ev.Competitor1,
			&ev.Competitor2,
			&ev.Status,
			&ev.Score1,
			&ev.Score2,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// UpsertEvent refreshes reference-feed fields. Prices are deliberately left
// alone here.
func (s *PostgresEventStore) UpsertEvent(ctx context.Context, ev *models.CanonicalEvent) error {
	query := `
	INSERT INTO events (
		match_id, sport, country, group_name, start_time,
		competitor1, competitor2, status,
		current_score_competitor1, current_score_competitor2
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (match_id) DO UPDATE SET
		sport = EXCLUDED.sport,
		country = EXCLUDED.country,
		group_name = EXCLUDED.group_name,
		start_time = EXCLUDED.start_time,
		competitor1 = EXCLUDED.competitor1,
		competitor2 = EXCLUDED.competitor2,
		status = EXCLUDED.status,
		current_score_competitor1 = EXCLUDED.current_score_competitor1,
		current_score_competitor2 = EXCLUDED.current_score_competitor2,
		updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query,
		ev.MatchID,
		ev.Sport,
		ev.Country,
		ev.Group,
		ev.Timestamp.UTC(),
		ev.Competitor1,
		ev.Competitor2,
		ev.Status,
		ev.Score1,
		ev.Score2,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event %s: %w", ev.MatchID, err)
	}
	return nil
}

// ApplyMerges runs the whole batch in one transaction. Each operation merges
// prices.<bookmaker> with || and only overwrites status/scores when the
// operation carries them.
func (s *PostgresEventStore) ApplyMerges(ctx context.Context, ops []models.MergeOp) error {
	if len(ops) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	UPDATE events SET
		prices = prices || jsonb_build_object($2::text, $3::jsonb),
		status = COALESCE(NULLIF($4, ''), status),
		current_score_competitor1 = COALESCE(NULLIF($5, ''), current_score_competitor1),
		current_score_competitor2 = COALESCE(NULLIF($6, ''), current_score_competitor2),
		updated_at = NOW()
	WHERE match_id = $1
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare merge statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		tree, err := json.Marshal(op.Tree)
		if err != nil {
			return fmt.Errorf("failed to marshal odds tree for %s: %w", op.MatchID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			op.MatchID, op.Bookmaker, tree, op.Status, op.Score1, op.Score2,
		); err != nil {
			return fmt.Errorf("failed to merge %s/%s: %w", op.MatchID, op.Bookmaker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge batch: %w", err)
	}
	return nil
}

func (s *PostgresEventStore) UpdateStatus(ctx context.Context, matchID, status, score1, score2 string) error {
	query := `
	UPDATE events SET
		status = $2,
		current_score_competitor1 = COALESCE(NULLIF($3, ''), current_score_competitor1),
		current_score_competitor2 = COALESCE(NULLIF($4, ''), current_score_competitor2),
		updated_at = NOW()
	WHERE match_id = $1
	`
	if _, err := s.db.ExecContext(ctx, query, matchID, status, score1, score2); err != nil {
		return fmt.Errorf("failed to update status for %s: %w", matchID, err)
	}
	return nil
}

// LoadTable reads the market taxonomy in stored order.
func (s *PostgresEventStore) LoadTable(ctx context.Context) (*taxonomy.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entry FROM market_taxonomy ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query taxonomy: %w", err)
	}
	defer rows.Close()

	var entries []taxonomy.Mapping
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan taxonomy entry: %w", err)
		}
		var m taxonomy.Mapping
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("failed to decode taxonomy entry: %w", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating taxonomy: %w", err)
	}

	return taxonomy.NewTable(entries), nil
}

// SeedTable replaces the taxonomy table contents, preserving entry order.
func (s *PostgresEventStore) SeedTable(ctx context.Context, entries []taxonomy.Mapping) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM market_taxonomy`); err != nil {
		return fmt.Errorf("failed to clear taxonomy: %w", err)
	}
	for _, m := range entries {
		raw, err := json.Marshal(taxonomy.NormalizeEntry(m))
		if err != nil {
			return fmt.Errorf("failed to encode taxonomy entry %q: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO market_taxonomy (entry) VALUES ($1)`, raw); err != nil {
			return fmt.Errorf("failed to insert taxonomy entry %q: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit taxonomy seed: %w", err)
	}
	return nil
}

func (s *PostgresEventStore) LoadAliases(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT alias, canonical FROM competitor_aliases`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer rows.Close()

	aliases := make(map[string]string)
	for rows.Next() {
		var alias, canonical string
		if err := rows.Scan(&alias, &canonical); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases[alias] = canonical
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aliases: %w", err)
	}

	return aliases, nil
}

func (s *PostgresEventStore) SaveAlias(ctx context.Context, alias, canonical string) error {
	query := `
	INSERT INTO competitor_aliases (alias, canonical) VALUES ($1, $2)
	ON CONFLICT (alias) DO UPDATE SET canonical = EXCLUDED.canonical
	`
	if _, err := s.db.ExecContext(ctx, query, alias, canonical); err != nil {
		return fmt.Errorf("failed to save alias %q: %w", alias, err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresEventStore) Close() error {
	return s.db.Close()
}
