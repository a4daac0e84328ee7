package unibet

import (
	"encoding/json"
	"testing"
)

func TestConvertOffer(t *testing.T) {
	offer := betOffer{
		Criterion: criterion{ID: 1001, Label: "Asian Handicap"},
		Outcomes: []betOutcome{
			{Label: "Arsenal", Line: -1500, OddsFractional: "5/6"},
			{Label: "Chelsea", Line: 1500, OddsFractional: "10/11"},
		},
	}

	rec, ok := convertOffer(offer, "Arsenal", "Chelsea")
	if !ok {
		t.Fatal("offer rejected")
	}
	if rec.Label != "Asian Handicap" {
		t.Errorf("label = %q", rec.Label)
	}
	if len(rec.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(rec.Outcomes))
	}
	if rec.Outcomes[0].Label != "Home" || rec.Outcomes[1].Label != "Away" {
		t.Errorf("team outcomes = %q / %q, want Home / Away", rec.Outcomes[0].Label, rec.Outcomes[1].Label)
	}
	// The offer line in thousandths applies to both sides.
	for _, o := range rec.Outcomes {
		if o.Line != "-1.5" {
			t.Errorf("line = %q, want -1.5", o.Line)
		}
	}
	if rec.Outcomes[0].Price != "5/6" {
		t.Errorf("price = %q, fractional string should pass through", rec.Outcomes[0].Price)
	}
}

func TestConvertOffer_NoLine(t *testing.T) {
	offer := betOffer{
		Criterion: criterion{Label: "Full Time"},
		Outcomes: []betOutcome{
			{Label: "Arsenal", OddsFractional: "4/5"},
			{Label: "Draw", OddsFractional: "12/5"},
			{Label: "Chelsea", OddsFractional: "Evens"},
		},
	}
	rec, ok := convertOffer(offer, "Arsenal", "Chelsea")
	if !ok {
		t.Fatal("offer rejected")
	}
	if rec.Outcomes[0].Line != "" {
		t.Errorf("line = %q, want empty for lineless market", rec.Outcomes[0].Line)
	}
	if rec.Outcomes[1].Label != "Draw" {
		t.Errorf("draw label = %q, should pass through", rec.Outcomes[1].Label)
	}
}

func TestConvertOffer_DropsUnpriced(t *testing.T) {
	offer := betOffer{
		Criterion: criterion{Label: "Total Goals"},
		Outcomes: []betOutcome{
			{Label: "Over", OddsFractional: ""},
			{Label: "Under", OddsFractional: ""},
		},
	}
	if _, ok := convertOffer(offer, "A", "B"); ok {
		t.Error("offer with no priced outcomes should be rejected")
	}
}

func TestMarketAllowed(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Total Goals", true},
		{"Asian Handicap", true},
		{"Set 2 - Game 5 - Point Winner", false},
		{"Set Betting and Total Games", false},
		{"Winner of Game 3", false},
		{"Double Chance", true},
	}
	for _, tt := range tests {
		if got := marketAllowed(tt.label); got != tt.want {
			t.Errorf("marketAllowed(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestCleanMarketLabel(t *testing.T) {
	got := cleanMarketLabel("To Qualify - Extra Time or Total Goals Including Extra Time")
	if got != "To Qualify or Total Goals" {
		t.Errorf("cleaned label = %q", got)
	}

	// Single suffix stays untouched.
	if got := cleanMarketLabel("Total Goals Including Extra Time"); got != "Total Goals Including Extra Time" {
		t.Errorf("label changed without both suffixes: %q", got)
	}
}

func TestGroupEvents(t *testing.T) {
	nested := matchGroup{
		Name: "England",
		SubGroups: []matchGroup{
			{Name: "Premier League", Events: []matchEvent{{Event: eventInfo{ID: 1}}}},
			{Name: "Championship", Events: []matchEvent{{Event: eventInfo{ID: 2}}, {Event: eventInfo{ID: 3}}}},
		},
	}
	items := groupEvents(nested)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].country != "England" || items[0].league != "Premier League" {
		t.Errorf("first item = %s / %s", items[0].country, items[0].league)
	}
	if items[2].league != "Championship" || items[2].event.Event.ID != 3 {
		t.Errorf("last item = %s / %d", items[2].league, items[2].event.Event.ID)
	}

	flat := matchGroup{Name: "ATP Paris", Events: []matchEvent{{Event: eventInfo{ID: 9}}}}
	items = groupEvents(flat)
	if len(items) != 1 || items[0].country != "ATP Paris" || items[0].league != "ATP Paris" {
		t.Errorf("flat group items = %+v", items)
	}
}

func TestFeedParsing(t *testing.T) {
	raw := `{
	  "layout": {"sections": [
	    {"widgets": []},
	    {"widgets": [{"matches": {"groups": [
	      {"sport": "FOOTBALL", "name": "Spain", "subGroups": [
	        {"name": "LaLiga", "events": [
	          {"event": {"id": 7, "start": "2024-12-25T15:30:00Z", "homeName": "Real Madrid", "awayName": "Barcelona"}},
	          {"event": {"id": 8, "homeName": "Sevilla", "awayName": "Valencia"}, "liveData": {"score": {}}}
	        ]}
	      ]}
	    ]}}]}
	  ]}
	}`
	var feed feedResponse
	if err := json.Unmarshal([]byte(raw), &feed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	groups := matchGroupsFromFeed(&feed)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	items := groupEvents(groups[0])
	if len(items) != 2 {
		t.Fatalf("events = %d, want 2", len(items))
	}
	if items[0].event.LiveData != nil {
		t.Error("pre-match event carries liveData")
	}
	if items[1].event.LiveData == nil {
		t.Error("live event missing liveData marker")
	}
}
