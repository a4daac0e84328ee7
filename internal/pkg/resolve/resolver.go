// Package resolve matches one bookmaker's view of a fixture against the
// canonical-event set. The outcome per record is terminal: Matched with a
// canonical match_id, or Unmatched with nothing persisted.
package resolve

import (
	"context"
	"log/slog"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/linesmith/linesmith/internal/pkg/models"
)

// acceptRatio is the token-set threshold on the combined "team1 team2"
// strings. Token-sort ratios are logged alongside but never gate the
// decision.
const acceptRatio = 80

// Outcome is the terminal resolver state for one record.
type Outcome int

const (
	Unmatched Outcome = iota
	Matched
)

// IDCache recalls a previously recorded source-native event id for live
// records, so a live update skips name scoring entirely when the fixture was
// already matched once.
type IDCache interface {
	GetMatchID(ctx context.Context, source, sourceID string) (string, bool)
	SetMatchID(ctx context.Context, source, sourceID, matchID string) error
}

// Resolver scores bookmaker records against a run-scoped candidate snapshot.
// The snapshot is read-only for the lifetime of the resolver, so concurrent
// Resolve calls need no locking.
type Resolver struct {
	candidates []*models.CanonicalEvent

	// sportSynonyms maps a source's raw sport token to the canonical one.
	// Source-dependent on purpose: one bookmaker's "football" is another
	// bookmaker's handball, so this is per-source configuration, not a
	// dictionary.
	sportSynonyms map[string]string

	// aliases maps a lowercased competitor spelling to the canonical one,
	// applied before fuzzy scoring.
	aliases map[string]string

	source string
	cache  IDCache
	logger *slog.Logger
}

func NewResolver(source string, candidates []*models.CanonicalEvent, synonyms map[string]string, cache IDCache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	normalized := make(map[string]string, len(synonyms))
	for raw, canonical := range synonyms {
		normalized[models.NormalizeSportToken(raw)] = models.NormalizeSportToken(canonical)
	}
	return &Resolver{
		candidates:    candidates,
		sportSynonyms: normalized,
		source:        source,
		cache:         cache,
		logger:        logger,
	}
}

// UseAliases installs a competitor-name alias table. Keys and values are
// lowercased; later calls replace the table wholesale.
func (r *Resolver) UseAliases(aliases map[string]string) {
	table := make(map[string]string, len(aliases))
	for raw, canonical := range aliases {
		table[strings.ToLower(strings.TrimSpace(raw))] = strings.ToLower(strings.TrimSpace(canonical))
	}
	r.aliases = table
}

// SportToken normalizes a raw sport label through the per-source synonym map.
func (r *Resolver) SportToken(raw string) string {
	token := models.NormalizeSportToken(raw)
	if mapped, ok := r.sportSynonyms[token]; ok {
		return mapped
	}
	return token
}

// Resolve finds the canonical event for one bookmaker record. Candidates are
// scanned in snapshot order and the first acceptable one wins; no attempt is
// made to find a better-scoring later candidate.
func (r *Resolver) Resolve(ctx context.Context, ev *models.SourceEvent) (*models.CanonicalEvent, Outcome) {
	if ev.Live {
		if hit := r.resolveLiveByID(ctx, ev); hit != nil {
			return hit, Matched
		}
	}

	sport := r.SportToken(ev.Sport)
	name := r.competitorName(ev.Competitor1) + " " + r.competitorName(ev.Competitor2)

	for _, c := range r.candidates {
		if models.NormalizeSportToken(c.Sport) != sport {
			continue
		}
		if !ev.Live && !c.Timestamp.Equal(ev.Timestamp) {
			continue
		}
		setRatio := fuzzy.TokenSetRatio(name, combinedName(c.Competitor1, c.Competitor2))
		if setRatio < acceptRatio {
			continue
		}
		sortRatio := fuzzy.TokenSortRatio(name, combinedName(c.Competitor1, c.Competitor2))
		r.logger.Debug("resolved event",
			"source", r.source,
			"match_id", c.MatchID,
			"set_ratio", setRatio,
			"sort_ratio", sortRatio,
		)
		r.remember(ctx, ev, c.MatchID)
		return c, Matched
	}

	r.logger.Debug("no canonical match", "source", r.source, "name", name, "sport", sport, "live", ev.Live)
	return nil, Unmatched
}

func (r *Resolver) resolveLiveByID(ctx context.Context, ev *models.SourceEvent) *models.CanonicalEvent {
	if r.cache == nil || ev.SourceID == "" {
		return nil
	}
	matchID, ok := r.cache.GetMatchID(ctx, r.source, ev.SourceID)
	if !ok {
		return nil
	}
	for _, c := range r.candidates {
		if c.MatchID == matchID {
			return c
		}
	}
	return nil
}

func (r *Resolver) remember(ctx context.Context, ev *models.SourceEvent, matchID string) {
	if r.cache == nil || ev.SourceID == "" {
		return
	}
	if err := r.cache.SetMatchID(ctx, r.source, ev.SourceID, matchID); err != nil {
		r.logger.Warn("id cache write failed", "source", r.source, "error", err)
	}
}

func (r *Resolver) competitorName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

func combinedName(team1, team2 string) string {
	return strings.ToLower(strings.TrimSpace(team1) + " " + strings.TrimSpace(team2))
}
