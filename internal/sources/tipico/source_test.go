package tipico

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

const sampleDetail = `{
  "event": {
    "id": 4411223,
    "live": false,
    "startDate": "25 Dec 2024 15:30:00 GMT",
    "group": ["Premier League", "England", "Football "],
    "team1": "Arsenal",
    "team2": "Chelsea"
  },
  "categories": [
    {"id": 1, "name": "Main"},
    {"id": 2, "name": "Goals"},
    {"id": 305, "name": "Specials"}
  ],
  "categoryOddGroupMapSectioned": {
    "1": [{"oddGroupTitle": "3-Way", "oddGroupIds": [10]}],
    "2": [{"oddGroupTitle": "Over/Under", "oddGroupIds": [20, 21]}],
    "305": [{"oddGroupTitle": "Arsenal to win both halves", "oddGroupIds": [30]}]
  },
  "oddGroups": {
    "10": {"shortCaption": ""},
    "20": {"shortCaption": "2,5 Goals"},
    "21": {"shortCaption": "3,5 Goals"},
    "30": {"shortCaption": ""}
  },
  "oddGroupResultsMap": {
    "10": [100, 101, 102],
    "20": [200, 201],
    "21": [210, 211],
    "30": [300]
  },
  "results": {
    "100": {"caption": "Arsenal", "quoteFloatValue": 1.85},
    "101": {"caption": "Draw", "quoteFloatValue": 3.6},
    "102": {"caption": "Chelsea", "quoteFloatValue": 4.2},
    "200": {"caption": "Over", "quoteFloatValue": 1.9},
    "201": {"caption": "Under", "quoteFloatValue": 1.9},
    "210": {"caption": "Over", "quoteFloatValue": 2.75},
    "211": {"caption": "Under", "quoteFloatValue": 1.42},
    "300": {"caption": "Yes", "quoteFloatValue": 5.5}
  }
}`

func quietSource() *Source {
	return &Source{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func decodeDetail(t *testing.T) *eventDetail {
	t.Helper()
	var detail eventDetail
	if err := json.Unmarshal([]byte(sampleDetail), &detail); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	return &detail
}

func TestConvertEvent(t *testing.T) {
	ev := quietSource().convertEvent(decodeDetail(t))
	if ev == nil {
		t.Fatal("expected event, got nil")
	}

	if ev.SourceID != "4411223" {
		t.Errorf("source id = %q", ev.SourceID)
	}
	if ev.Sport != "Football" {
		t.Errorf("sport = %q, want trimmed last group entry", ev.Sport)
	}
	if ev.Country != "England" {
		t.Errorf("country = %q", ev.Country)
	}
	if ev.Group != "Premier League" {
		t.Errorf("group = %q", ev.Group)
	}
	if ev.Competitor1 != "Arsenal" || ev.Competitor2 != "Chelsea" {
		t.Errorf("competitors = %q / %q", ev.Competitor1, ev.Competitor2)
	}
	want := time.Date(2024, 12, 25, 15, 30, 0, 0, time.UTC)
	if !ev.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", ev.Timestamp, want)
	}
	if ev.Live {
		t.Error("pre-match event marked live")
	}
}

func TestConvertEvent_SkipsLive(t *testing.T) {
	detail := decodeDetail(t)
	detail.Event.Live = true
	if ev := quietSource().convertEvent(detail); ev != nil {
		t.Errorf("expected nil for live event, got %+v", ev)
	}
}

func TestConvertMarkets(t *testing.T) {
	records := convertMarkets(decodeDetail(t))

	byLabelLine := map[string]int{}
	for _, rec := range records {
		line := ""
		if len(rec.Outcomes) > 0 {
			line = rec.Outcomes[0].Line
		}
		byLabelLine[rec.Label+"|"+line] = len(rec.Outcomes)
	}

	if n := byLabelLine["3-Way|"]; n != 3 {
		t.Errorf("3-Way outcomes = %d, want 3", n)
	}
	if n := byLabelLine["Over/Under|2.5"]; n != 2 {
		t.Errorf("Over/Under 2.5 outcomes = %d, want 2", n)
	}
	if n := byLabelLine["Over/Under|3.5"]; n != 2 {
		t.Errorf("Over/Under 3.5 outcomes = %d, want 2", n)
	}
	if _, ok := byLabelLine["Arsenal to win both halves|"]; ok {
		t.Error("promotional category leaked into records")
	}

	for _, rec := range records {
		if rec.Label != "3-Way" {
			continue
		}
		for _, o := range rec.Outcomes {
			if o.Label == "Arsenal" && o.Price != "1.85" {
				t.Errorf("price = %q, want decimal string 1.85", o.Price)
			}
		}
	}
}

func TestLineFromCaption(t *testing.T) {
	tests := []struct {
		caption string
		want    string
	}{
		{"2,5 Goals", "2.5"},
		{"3,5", "3.5"},
		{"-1,5 Handicap", "-1.5"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := lineFromCaption(tt.caption); got != tt.want {
			t.Errorf("lineFromCaption(%q) = %q, want %q", tt.caption, got, tt.want)
		}
	}
}
