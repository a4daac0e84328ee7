package pipeline

import (
	"context"

	"github.com/linesmith/linesmith/internal/pkg/markets"
	"github.com/linesmith/linesmith/internal/pkg/models"
)

// Job is one fetchable unit of a source: a league coupon, a sport page, a
// live-event endpoint. Jobs are the grain of bounded concurrency in a run.
type Job struct {
	Label string // for logs
	URL   string
	Live  bool
}

// Source is one bookmaker feed. ListJobs enumerates the fetch units cheaply;
// Fetch downloads and parses one unit into raw events with their market
// records attached. Implementations own transport, pagination and retries;
// the pipeline owns the per-fetch timeout.
type Source interface {
	Name() string
	Encoding() markets.Encoding
	SportSynonyms() map[string]string

	ListJobs(ctx context.Context) ([]Job, error)
	Fetch(ctx context.Context, job Job) ([]*models.SourceEvent, error)
}

// ReferenceProvider supplies the canonical-event universe: fixtures, kickoff
// times and status transitions, but no odds.
type ReferenceProvider interface {
	Name() string
	FetchEvents(ctx context.Context) ([]*models.CanonicalEvent, error)
}
