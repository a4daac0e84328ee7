// Package bovada adapts the bovada.lv pre-match feed: a navigation tree of
// sports and leagues, then one coupon request per league carrying events with
// their full market boards. Prices are American with the "EVEN" sentinel.
package bovada

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/linesmith/linesmith/internal/pkg/config"
	"github.com/linesmith/linesmith/internal/pkg/markets"
	"github.com/linesmith/linesmith/internal/pkg/models"
	"github.com/linesmith/linesmith/internal/pkg/timeparse"
	"github.com/linesmith/linesmith/internal/pipeline"
)

var defaultSports = []string{
	"/football", "/cricket", "/baseball", "/basketball", "/soccer",
	"/volleyball", "/table-tennis", "/hockey", "/aussie-rules",
	"/rugby-union", "/rugby-league", "/snooker", "/tennis",
}

func init() {
	pipeline.Register("bovada", func(cfg *config.Config, logger *slog.Logger) (pipeline.Source, error) {
		return New(&cfg.Sources.Bovada, logger), nil
	})
}

type Source struct {
	client *httpClient
	cfg    *config.SourceConfig
	logger *slog.Logger
}

func New(cfg *config.SourceConfig, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		client: newHTTPClient(cfg),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Source) Name() string { return "bovada" }
func (s *Source) Encoding() markets.Encoding { return markets.EncodingAmerican }

// SportSynonyms: on this site "Football" is gridiron; the handball synonym
// below is what the configured synonym map typically carries for European
// sites, so config wins when set.
func (s *Source) SportSynonyms() map[string]string {
	if len(s.cfg.SportSynonyms) > 0 {
		return s.cfg.SportSynonyms
	}
	return map[string]string{"football": "handball"}
}

// ListJobs walks the navigation tree down to league leaves and returns one
// coupon job per league.
func (s *Source) ListJobs(ctx context.Context) ([]pipeline.Job, error) {
	root, err := s.client.getNav(ctx, "")
	if err != nil {
		return nil, err
	}

	sports := s.cfg.Sports
	if len(sports) == 0 {
		sports = defaultSports
	}
	wanted := make(map[string]bool, len(sports))
	for _, link := range sports {
		wanted[link] = true
	}

	var jobs []pipeline.Job
	seen := map[string]bool{}
	for _, sport := range root.Children {
		if !wanted[sport.Link] {
			continue
		}
		nav, err := s.client.getNav(ctx, sport.Link)
		if err != nil {
			s.logger.Warn("sport navigation failed", "sport", sport.Link, "error", err)
			continue
		}
		for _, child := range nav.Children {
			jobs = append(jobs, s.collectLeaves(ctx, child, seen)...)
		}
	}
	return jobs, nil
}

func (s *Source) collectLeaves(ctx context.Context, node navNode, seen map[string]bool) []pipeline.Job {
	if node.Leaf {
		if node.Link == "" || seen[node.Link] {
			return nil
		}
		seen[node.Link] = true
		return []pipeline.Job{{
			Label: node.Description,
			URL:   s.client.couponURL(node.Link, s.cfg.Live),
			Live:  s.cfg.Live,
		}}
	}

	nav, err := s.client.getNav(ctx, node.Link)
	if err != nil {
		s.logger.Warn("league navigation failed", "link", node.Link, "error", err)
		return nil
	}
	var jobs []pipeline.Job
	for _, child := range nav.Children {
		jobs = append(jobs, s.collectLeaves(ctx, child, seen)...)
	}
	return jobs
}

// Fetch downloads one league coupon and converts its events. The pre-match
// and live coupons share a shape; job.Live picks which side of the feed a
// run consumes.
func (s *Source) Fetch(ctx context.Context, job pipeline.Job) ([]*models.SourceEvent, error) {
	sections, err := s.client.getCoupon(ctx, job.URL)
	if err != nil {
		return nil, err
	}

	var events []*models.SourceEvent
	for _, section := range sections {
		for _, raw := range section.Events {
			if len(raw.Competitors) < 2 || raw.Live != job.Live {
				continue
			}
			ev := convertEvent(section.Path, raw)
			ev.Live = job.Live
			events = append(events, ev)
		}
	}
	return events, nil
}

func convertEvent(path []pathNode, raw couponEvent) *models.SourceEvent {
	ev := &models.SourceEvent{
		SourceID:  stringID(raw.ID),
		Timestamp: timeparse.FromUnixMillis(raw.StartTime),
	}

	if n := len(path); n > 0 {
		ev.Sport = path[n-1].Description
		if n == 2 {
			ev.Country = path[0].Description
			ev.Group = path[0].Description
		} else if n > 2 {
			ev.Country = path[1].Description
			ev.Group = path[0].Description
		}
	}

	// The feed sometimes lists the away side first.
	if raw.AwayTeamFirst {
		ev.Competitor1 = raw.Competitors[1].Name
		ev.Competitor2 = raw.Competitors[0].Name
	} else {
		ev.Competitor1 = raw.Competitors[0].Name
		ev.Competitor2 = raw.Competitors[1].Name
	}

	for _, group := range raw.DisplayGroups {
		if strings.Contains(strings.ToLower(group.Description), "props") {
			continue
		}
		for _, m := range group.Markets {
			if len(m.Outcomes) == 0 {
				continue
			}
			ev.Markets = append(ev.Markets, convertMarket(m))
		}
	}
	return ev
}

func convertMarket(m market) models.RawMarketRecord {
	label := m.Description
	if m.Period != nil && m.Period.Description != "Regulation Time" {
		label = label + " - " + m.Period.Description
	}

	rec := models.RawMarketRecord{Label: label}
	for _, o := range m.Outcomes {
		rec.Outcomes = append(rec.Outcomes, models.RawOutcome{
			Label: o.Description,
			Price: o.Price.American,
			Line:  o.Price.Handicap,
			Line2: o.Price.Handicap2,
			Side:  o.Type,
		})
	}
	return rec
}

func stringID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
