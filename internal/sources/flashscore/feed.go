package flashscore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linesmith/linesmith/internal/pkg/models"
	"github.com/linesmith/linesmith/internal/pkg/timeparse"
)

// The scoreboard feed is a flat delimited format: records split on "~",
// fields on "¬", each field a TAG÷value pair. ZA records open a league
// section, AA records are matches within it.
const (
	recordSep = "~"
	fieldSep  = "¬"
	kvSep     = "÷"
)

// Raw status codes observed in the feed.
var statusByCode = map[string]string{
	"1":  models.StatusScheduled,
	"2":  models.StatusLive, // Live
	"12": models.StatusLive, // 1st Half
	"13": models.StatusLive, // 2nd Half
	"10": models.StatusLive, // After Extra Time
	"11": models.StatusLive, // After Penalties
	"42": models.StatusLive, // Awaiting updates
	"3":  models.StatusFinished,
	"4":  models.StatusPostponed,
	"5":  models.StatusCancelled,
	"37": models.StatusAbandoned,
}

// parseFields splits one record into its TAG÷value pairs. Repeated tags keep
// the first value.
func parseFields(record string) map[string]string {
	fields := make(map[string]string)
	for _, field := range strings.Split(record, fieldSep) {
		tag, value, ok := strings.Cut(field, kvSep)
		if !ok {
			continue
		}
		if _, exists := fields[tag]; !exists {
			fields[tag] = value
		}
	}
	return fields
}

// ParseFeed converts one sport's scoreboard feed into canonical events.
// League sections (ZA) set country/group for the matches that follow; match
// records (AA) carry id, status code, kickoff time, competitors and scores.
// Records with unknown status codes are dropped.
func ParseFeed(text, sport string) []*models.CanonicalEvent {
	var events []*models.CanonicalEvent
	country, league := "", ""

	for _, record := range strings.Split(text, recordSep) {
		switch {
		case strings.HasPrefix(record, "ZA"+kvSep):
			fields := parseFields(record)
			header := fields["ZA"]
			if zy, ok := fields["ZY"]; ok {
				country = zy
			} else {
				country, _, _ = strings.Cut(header, ":")
			}
			league = ""
			if _, rest, ok := strings.Cut(header, ":"); ok {
				league = strings.TrimSpace(rest)
			}

		case strings.HasPrefix(record, "AA"+kvSep):
			fields := parseFields(record)
			status, ok := statusByCode[fields["AC"]]
			if !ok {
				continue
			}

			ev := &models.CanonicalEvent{
				MatchID:     fields["AA"],
				Sport:       sport,
				Country:     country,
				Group:       league,
				Status:      status,
				Competitor1: fields["AE"],
				Competitor2: fields["AF"],
				Prices:      map[string]models.OddsTree{},
			}
			if secs, err := strconv.ParseInt(fields["AD"], 10, 64); err == nil {
				ev.Timestamp = timeparse.FromUnix(secs)
			}
			switch status {
			case models.StatusCancelled, models.StatusPostponed:
				ev.Score1, ev.Score2 = "-", "-"
			default:
				ev.Score1 = fields["AG"]
				ev.Score2 = fields["AH"]
			}
			events = append(events, ev)
		}
	}
	return events
}

// ParseSportList extracts the sport name to feed id mapping embedded in the
// site's core javascript bundle.
func ParseSportList(js string) (map[string]int, error) {
	const marker = `sport_list":{`
	i := strings.LastIndex(js, marker)
	if i < 0 {
		return nil, fmt.Errorf("sport list not found in core bundle")
	}
	fragment := js[i+len(marker):]
	end := strings.Index(fragment, `},"`)
	if end < 0 {
		return nil, fmt.Errorf("sport list not terminated")
	}
	fragment = fragment[:end]

	sports := make(map[string]int)
	for _, pair := range strings.Split(fragment, ",") {
		name, id, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		name = strings.Trim(strings.TrimSpace(name), `"`)
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		sports[name] = n
	}
	if len(sports) == 0 {
		return nil, fmt.Errorf("sport list empty")
	}
	return sports, nil
}
