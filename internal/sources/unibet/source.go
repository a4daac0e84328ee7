// Package unibet adapts the unibet.mt sportsbook feed. Navigation and match
// listings come from the site's sportsbook-feeds views; the odds board for
// each event comes from the shared Kambi offering API as fractional prices.
// The same feed serves both pre-match and in-play, split by the liveData
// marker on each event.
package unibet

import (
	"context"
	"fmt"
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
	"Football", "Tennis", "Basketball", "Ice Hockey", "Baseball",
	"Volleyball", "Table Tennis", "Cricket", "Snooker", "Handball",
	"Rugby League", "Rugby Union", "Australian Rules",
}

func init() {
	pipeline.Register("unibet", func(cfg *config.Config, logger *slog.Logger) (pipeline.Source, error) {
		return New(&cfg.Sources.Unibet, logger), nil
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

func (s *Source) Name() string { return "unibet" }
func (s *Source) Encoding() markets.Encoding { return markets.EncodingFractional }

func (s *Source) SportSynonyms() map[string]string {
	if len(s.cfg.SportSynonyms) > 0 {
		return s.cfg.SportSynonyms
	}
	return map[string]string{"football": "soccer"}
}

// ListJobs reads the a-z sport navigation and returns one matches-view job
// per configured sport.
func (s *Source) ListJobs(ctx context.Context) ([]pipeline.Job, error) {
	nav, err := s.client.getSportsNav(ctx)
	if err != nil {
		return nil, err
	}

	wanted := s.cfg.Sports
	if len(wanted) == 0 {
		wanted = defaultSports
	}
	allowed := make(map[string]bool, len(wanted))
	for _, name := range wanted {
		allowed[strings.ToLower(name)] = true
	}

	var jobs []pipeline.Job
	for _, entry := range sportsFromNav(nav) {
		if !allowed[strings.ToLower(entry.Name)] {
			continue
		}
		jobs = append(jobs, pipeline.Job{
			Label: entry.Name,
			URL:   s.client.matchesURL(entry.Name),
			Live:  s.cfg.Live,
		})
	}
	return jobs, nil
}

// Fetch pulls one sport's match listing and the Kambi odds board for every
// event in it. An event with no reachable board is dropped, not fatal.
func (s *Source) Fetch(ctx context.Context, job pipeline.Job) ([]*models.SourceEvent, error) {
	feed, err := s.client.getMatches(ctx, job.URL)
	if err != nil {
		return nil, err
	}

	var events []*models.SourceEvent
	for _, group := range matchGroupsFromFeed(feed) {
		sport := group.Sport
		if sport == "" {
			sport = job.Label
		}
		for _, item := range groupEvents(group) {
			if (item.event.LiveData != nil) != job.Live {
				continue
			}
			offers, err := s.client.getBetOffers(ctx, item.event.Event.ID)
			if err != nil {
				s.logger.Warn("bet offer fetch failed", "source", s.Name(), "event_id", item.event.Event.ID, "error", err)
				continue
			}
			ev := s.convertEvent(item.event, offers, sport, item.country, item.league, job.Live)
			if ev != nil {
				events = append(events, ev)
			}
		}
	}
	return events, nil
}

type groupedEvent struct {
	country string
	league  string
	event   matchEvent
}

// groupEvents flattens a country group into (country, league, event) tuples.
// Groups without subgroups are their own league.
func groupEvents(group matchGroup) []groupedEvent {
	var out []groupedEvent
	if len(group.SubGroups) > 0 {
		for _, sub := range group.SubGroups {
			for _, me := range sub.Events {
				out = append(out, groupedEvent{country: group.Name, league: sub.Name, event: me})
			}
		}
		return out
	}
	for _, me := range group.Events {
		out = append(out, groupedEvent{country: group.Name, league: group.Name, event: me})
	}
	return out
}

func (s *Source) convertEvent(me matchEvent, offers *betOfferResponse, sport, country, league string, live bool) *models.SourceEvent {
	if len(offers.BetOffers) == 0 {
		return nil
	}

	ev := &models.SourceEvent{
		SourceID:    strconv.FormatInt(me.Event.ID, 10),
		Sport:       sport,
		Country:     country,
		Group:       league,
		Competitor1: me.Event.HomeName,
		Competitor2: me.Event.AwayName,
		Live:        live,
	}
	if me.Event.Start != "" {
		ts, err := timeparse.ParseString(me.Event.Start)
		if err != nil {
			if !live {
				s.logger.Warn("unparseable start time", "source", s.Name(), "event_id", me.Event.ID, "value", me.Event.Start)
				return nil
			}
		} else {
			ev.Timestamp = ts
		}
	} else if !live {
		return nil
	}

	for _, offer := range offers.BetOffers {
		rec, ok := convertOffer(offer, me.Event.HomeName, me.Event.AwayName)
		if ok {
			ev.Markets = append(ev.Markets, rec)
		}
	}
	return ev
}

// convertOffer turns one Kambi bet offer into a raw market record. The offer
// line applies to every outcome and comes in thousandths.
func convertOffer(offer betOffer, home, away string) (models.RawMarketRecord, bool) {
	label := cleanMarketLabel(offer.Criterion.Label)
	if label == "" || !marketAllowed(label) || len(offer.Outcomes) == 0 {
		return models.RawMarketRecord{}, false
	}

	line := ""
	if offer.Outcomes[0].Line != 0 {
		line = strconv.FormatFloat(float64(offer.Outcomes[0].Line)/1000, 'f', -1, 64)
	}

	outcomes := make([]models.RawOutcome, 0, len(offer.Outcomes))
	for _, o := range offer.Outcomes {
		if o.OddsFractional == "" {
			continue
		}
		name := o.Label
		switch name {
		case home:
			name = "Home"
		case away:
			name = "Away"
		}
		outcomes = append(outcomes, models.RawOutcome{
			Label: name,
			Price: o.OddsFractional,
			Line:  line,
		})
	}
	if len(outcomes) == 0 {
		return models.RawMarketRecord{}, false
	}
	return models.RawMarketRecord{Label: label, Outcomes: outcomes}, true
}

// cleanMarketLabel folds the extra-time variants of a market back onto the
// base label when both suffixes are present.
func cleanMarketLabel(label string) string {
	lower := strings.ToLower(label)
	if strings.Contains(lower, " - extra time") && strings.Contains(lower, " including extra time") {
		label = replaceFold(label, " - extra time", "")
		label = replaceFold(label, " including extra time", "")
	}
	return label
}

// marketAllowed drops per-game micro markets that have no canonical shape:
// point-by-point tennis games, set/game scorelines and numbered games.
func marketAllowed(label string) bool {
	lower := strings.ToLower(label)
	if strings.Contains(lower, "point") && strings.Contains(lower, "game") && strings.Contains(label, "-") {
		return false
	}
	if strings.Contains(lower, "set") && strings.Contains(lower, "game") {
		return false
	}
	for n := 1; n < 10; n++ {
		if strings.Contains(lower, fmt.Sprintf("game %d", n)) {
			return false
		}
	}
	return true
}

// replaceFold removes or replaces the first case-insensitive occurrence of
// old within s.
func replaceFold(s, old, new string) string {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(old))
	if idx < 0 {
		return s
	}
	return s[:idx] + new + s[idx+len(old):]
}

func sportsFromNav(feed *feedResponse) []sportEntry {
	for _, sec := range feed.Layout.Sections {
		for _, w := range sec.Widgets {
			if len(w.Sports) > 0 {
				return w.Sports
			}
		}
	}
	return nil
}

func matchGroupsFromFeed(feed *feedResponse) []matchGroup {
	for _, sec := range feed.Layout.Sections {
		for _, w := range sec.Widgets {
			if w.Matches != nil {
				return w.Matches.Groups
			}
		}
	}
	return nil
}
