package storage

import (
	"context"

	"github.com/linesmith/linesmith/internal/pkg/models"
	"github.com/linesmith/linesmith/internal/pkg/taxonomy"
)

// EventStore is the canonical-event persistence surface. Writes are partial
// merges keyed by match_id, never full-document replaces, so concurrent
// source pipelines touching different fields of the same event cannot
// clobber each other.
type EventStore interface {
	// LoadCandidates returns the run-scoped snapshot of events a source
	// record can resolve against. Finished events are excluded.
	LoadCandidates(ctx context.Context) ([]*models.CanonicalEvent, error)

	// UpsertEvent inserts or refreshes one canonical event from the
	// reference feed. Prices already merged by bookmakers are kept.
	UpsertEvent(ctx context.Context, ev *models.CanonicalEvent) error

	// ApplyMerges applies a batch of bookmaker merges in one round trip.
	ApplyMerges(ctx context.Context, ops []models.MergeOp) error

	// UpdateStatus sets status and scores on one event.
	UpdateStatus(ctx context.Context, matchID, status, score1, score2 string) error

	// Close closes the database connection.
	Close() error
}

// TaxonomyStore loads and seeds the market alias table. The table is read
// once per run; order of entries is lookup order.
type TaxonomyStore interface {
	LoadTable(ctx context.Context) (*taxonomy.Table, error)
	SeedTable(ctx context.Context, entries []taxonomy.Mapping) error
}

// AliasStore keeps learned competitor-name aliases so a site-specific
// spelling resolves without fuzzy scoring next time.
type AliasStore interface {
	LoadAliases(ctx context.Context) (map[string]string, error)
	SaveAlias(ctx context.Context, alias, canonical string) error
}

// IDCache remembers source-native event ids for live resolution.
type IDCache interface {
	GetMatchID(ctx context.Context, source, sourceID string) (string, bool)
	SetMatchID(ctx context.Context, source, sourceID, matchID string) error
}
