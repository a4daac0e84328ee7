// Package pipeline runs the reconciliation cycle for one bookmaker source:
// fetch raw events with bounded concurrency, normalize their markets into
// odds trees, resolve each against the canonical-event snapshot and batch the
// resulting merges into the store. Per-record failures are counted and
// logged, never propagated; a run always completes.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/linesmith/linesmith/internal/pkg/config"
	"github.com/linesmith/linesmith/internal/pkg/markets"
	"github.com/linesmith/linesmith/internal/pkg/models"
	"github.com/linesmith/linesmith/internal/pkg/notify"
	"github.com/linesmith/linesmith/internal/pkg/resolve"
	"github.com/linesmith/linesmith/internal/pkg/storage"
)

// Report is the observable outcome of one run. Unmatched records are kept
// for audit; nothing about them was persisted.
type Report struct {
	RunID         string
	Source        string
	Processed     int
	Matched       int
	Unmatched     int
	Skipped       int
	FailedBatches int
	Took          time.Duration

	// Normalized-but-unresolved records, in arrival order.
	UnmatchedEvents []*models.SourceEvent
}

// Pipeline wires the run-scoped collaborators. One Pipeline serves many runs.
type Pipeline struct {
	store    storage.EventStore
	taxStore storage.TaxonomyStore
	cache    storage.IDCache
	notifier *notify.TelegramNotifier
	cfg      *config.PipelineConfig
	logger   *slog.Logger
}

func New(store storage.EventStore, taxStore storage.TaxonomyStore, cache storage.IDCache, notifier *notify.TelegramNotifier, cfg *config.PipelineConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:    store,
		taxStore: taxStore,
		cache:    cache,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes one full cycle for src. The candidate snapshot and taxonomy
// table are loaded once at the start and are read-only for the whole run.
func (p *Pipeline) Run(ctx context.Context, src Source) (*Report, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With("source", src.Name(), "run_id", runID)

	candidates, err := p.store.LoadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// Nothing will ever match, but the run still completes.
		logger.Warn("canonical-event snapshot is empty")
	}

	table, err := p.taxStore.LoadTable(ctx)
	if err != nil {
		return nil, err
	}

	resolver := resolve.NewResolver(src.Name(), candidates, src.SportSynonyms(), p.cache, logger)
	if as, ok := p.store.(storage.AliasStore); ok {
		aliases, err := as.LoadAliases(ctx)
		if err != nil {
			logger.Warn("alias table unavailable, resolving on raw names", "error", err)
		} else if len(aliases) > 0 {
			resolver.UseAliases(aliases)
		}
	}
	normalizer := markets.NewNormalizer(table, src.Encoding(), logger)

	jobs, err := src.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("run started", "jobs", len(jobs), "candidates", len(candidates))

	batcher := storage.NewBatcher(p.store, p.batchSize(jobs), logger, func(operations int, err error) {
		p.notifier.BatchFailure(src.Name(), operations, err)
	})

	report := &Report{RunID: runID, Source: src.Name()}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxConcurrent)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, p.cfg.FetchTimeout)
			events, err := src.Fetch(fetchCtx, job)
			cancel()
			if err != nil {
				logger.Warn("fetch failed, skipping job", "job", job.Label, "error", err)
				return nil
			}

			for _, ev := range events {
				outcome, skipped := p.processEvent(gctx, src, ev, normalizer, resolver, batcher)

				mu.Lock()
				report.Processed++
				switch {
				case skipped:
					report.Skipped++
				case outcome == resolve.Matched:
					report.Matched++
				default:
					report.Unmatched++
					report.UnmatchedEvents = append(report.UnmatchedEvents, ev)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	// Flush even when the context was cancelled mid-run: merges already
	// computed must not be dropped silently.
	batcher.Flush(context.WithoutCancel(ctx))

	report.FailedBatches = batcher.Failures()
	report.Took = time.Since(started)
	logger.Info("run finished",
		"processed", report.Processed,
		"matched", report.Matched,
		"unmatched", report.Unmatched,
		"skipped", report.Skipped,
		"failed_batches", report.FailedBatches,
		"took", report.Took,
	)
	p.notifier.RunSummary(src.Name(), report.Processed, report.Matched, report.Unmatched, report.Skipped, report.Took)

	return report, ctx.Err()
}

// processEvent normalizes and resolves one raw event. The second return is
// true when the event had nothing to contribute and was dropped before
// resolution.
func (p *Pipeline) processEvent(ctx context.Context, src Source, ev *models.SourceEvent, normalizer *markets.Normalizer, resolver *resolve.Resolver, batcher *storage.Batcher) (resolve.Outcome, bool) {
	tree := normalizer.BuildTree(ev)
	if tree.IsEmpty() && !ev.Live {
		return resolve.Unmatched, true
	}

	canonical, outcome := resolver.Resolve(ctx, ev)
	if outcome != resolve.Matched {
		return outcome, false
	}

	op := models.MergeOp{
		MatchID:   canonical.MatchID,
		Bookmaker: src.Name(),
		Tree:      tree,
	}
	if ev.Live {
		op.Status = models.StatusLive
		op.Score1 = ev.Score1
		op.Score2 = ev.Score2
	}
	batcher.Add(ctx, op)
	return resolve.Matched, false
}

func (p *Pipeline) batchSize(jobs []Job) int {
	for _, job := range jobs {
		if job.Live {
			return p.cfg.BatchSizeLive
		}
	}
	return p.cfg.BatchSizePrematch
}

// Ingest refreshes the canonical-event universe from the reference provider.
// Only events starting inside the lookahead window are created; status
// transitions always apply.
func (p *Pipeline) Ingest(ctx context.Context, provider ReferenceProvider) error {
	events, err := provider.FetchEvents(ctx)
	if err != nil {
		return err
	}

	horizon := time.Now().UTC().AddDate(0, 0, p.cfg.LookaheadDays)
	created, updated := 0, 0
	for _, ev := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if ev.Timestamp.After(horizon) {
			continue
		}
		switch ev.Status {
		case models.StatusFinished, models.StatusCancelled, models.StatusPostponed, models.StatusAbandoned, models.StatusLive:
			if err := p.store.UpdateStatus(ctx, ev.MatchID, ev.Status, ev.Score1, ev.Score2); err != nil {
				p.logger.Warn("status update failed", "match_id", ev.MatchID, "error", err)
				continue
			}
			updated++
		default:
			if err := p.store.UpsertEvent(ctx, ev); err != nil {
				p.logger.Warn("upsert failed", "match_id", ev.MatchID, "error", err)
				continue
			}
			created++
		}
	}

	p.logger.Info("reference ingest finished",
		"provider", provider.Name(),
		"fetched", len(events),
		"upserted", created,
		"status_updates", updated,
	)
	return nil
}
