// Package tipico adapts the sports.tipico.com pre-match feed. The site is a
// JSON program tree: navigation down to league groupIds, a per-group event
// listing, then one detail request per event carrying the market board in
// parallel maps. Prices are decimal. The site rotates mirrors, so the client
// can resolve a mirror link to the live hostname on startup.
package tipico

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

func init() {
	pipeline.Register("tipico", func(cfg *config.Config, logger *slog.Logger) (pipeline.Source, error) {
		return New(&cfg.Sources.Tipico, logger), nil
	})
}

type Source struct {
	client *httpClient
	cfg    *config.TipicoConfig
	logger *slog.Logger
}

func New(cfg *config.TipicoConfig, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		client: newHTTPClient(cfg, logger),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Source) Name() string { return "tipico" }
func (s *Source) Encoding() markets.Encoding { return markets.EncodingDecimal }

func (s *Source) SportSynonyms() map[string]string {
	if len(s.cfg.SportSynonyms) > 0 {
		return s.cfg.SportSynonyms
	}
	return map[string]string{"football": "soccer"}
}

// ListJobs walks sport -> country -> league in the navigation tree and
// returns one event-listing job per league group.
func (s *Source) ListJobs(ctx context.Context) ([]pipeline.Job, error) {
	root, err := s.client.getNavigationTree(ctx)
	if err != nil {
		return nil, err
	}

	var jobs []pipeline.Job
	for _, sport := range root.Children {
		for _, country := range sport.Children {
			for _, group := range country.Children {
				if group.GroupID == 0 {
					continue
				}
				jobs = append(jobs, pipeline.Job{
					Label: fmt.Sprintf("group %d", group.GroupID),
					URL:   s.client.groupEventsURL(group.GroupID),
				})
			}
		}
	}
	return jobs, nil
}

// Fetch lists one group's events and pulls the detail board for each. A
// failed detail request drops that event only.
func (s *Source) Fetch(ctx context.Context, job pipeline.Job) ([]*models.SourceEvent, error) {
	sel, err := s.client.getGroupEvents(ctx, job.URL)
	if err != nil {
		return nil, err
	}

	var events []*models.SourceEvent
	for _, entry := range sel.Selection.Events {
		if entry.Team1ID == 0 {
			continue
		}
		detail, err := s.client.getEventDetail(ctx, entry.ID)
		if err != nil {
			s.logger.Warn("event detail fetch failed", "source", s.Name(), "event_id", entry.ID, "error", err)
			continue
		}
		ev := s.convertEvent(detail)
		if ev != nil {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (s *Source) convertEvent(detail *eventDetail) *models.SourceEvent {
	if detail.Event.Live {
		return nil
	}
	if detail.Event.StartDate == "" || len(detail.Event.Group) == 0 {
		return nil
	}

	ts, err := timeparse.ParseString(detail.Event.StartDate)
	if err != nil {
		s.logger.Warn("unparseable start date", "source", s.Name(), "event_id", detail.Event.ID, "value", detail.Event.StartDate)
		return nil
	}

	group := detail.Event.Group
	sport := strings.TrimSpace(group[len(group)-1])
	country := ""
	if len(group) >= 2 {
		country = group[len(group)-2]
	}

	return &models.SourceEvent{
		SourceID:    strconv.FormatInt(detail.Event.ID, 10),
		Sport:       sport,
		Country:     country,
		Group:       group[0],
		Competitor1: detail.Event.Team1,
		Competitor2: detail.Event.Team2,
		Timestamp:   ts,
		Markets:     convertMarkets(detail),
	}
}

// convertMarkets joins the detail response's parallel maps into raw market
// records. Only low-numbered categories carry real markets; higher ids are
// promotional sections. Each odd group becomes its own record so a group
// without a line caption cannot inherit a sibling's line.
func convertMarkets(detail *eventDetail) []models.RawMarketRecord {
	allowed := make(map[string]bool, len(detail.Categories))
	for _, cat := range detail.Categories {
		if cat.ID < 100 {
			allowed[strconv.FormatInt(cat.ID, 10)] = true
		}
	}

	var records []models.RawMarketRecord
	for catID, sections := range detail.Sections {
		if !allowed[catID] {
			continue
		}
		for _, sec := range sections {
			for _, gid := range sec.OddGroupIDs {
				key := strconv.FormatInt(gid, 10)
				line := lineFromCaption(detail.OddGroups[key].ShortCaption)

				var outcomes []models.RawOutcome
				for _, rid := range detail.GroupMap[key] {
					res, ok := detail.Results[strconv.FormatInt(rid, 10)]
					if !ok {
						continue
					}
					outcomes = append(outcomes, models.RawOutcome{
						Label: res.Caption,
						Price: strconv.FormatFloat(res.Quote, 'f', -1, 64),
						Line:  line,
					})
				}
				if len(outcomes) > 0 {
					records = append(records, models.RawMarketRecord{
						Label:    sec.Title,
						Outcomes: outcomes,
					})
				}
			}
		}
	}
	return records
}

// lineFromCaption turns a short caption like "2,5 Goals" into the line token
// "2.5". Captionless groups have no line.
func lineFromCaption(caption string) string {
	fields := strings.Fields(caption)
	if len(fields) == 0 {
		return ""
	}
	return strings.ReplaceAll(fields[0], ",", ".")
}
