package markets

import (
	"reflect"
	"testing"

	"github.com/linesmith/linesmith/internal/pkg/models"
	"github.com/linesmith/linesmith/internal/pkg/taxonomy"
)

func TestAdmit(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Total Goals", true},
		{"Moneyline", true},
		{"Asian Handicap", true},
		{"1st Half Total", true},
		{"Match Winner", false},
		{"First Goalscorer", false},
		{"Will both teams score?", false},
		{"Total Touchdowns", false},
		{"Point Spread O/U Combo", false},
		{"Odd/Even", false},
	}
	for _, tt := range tests {
		if got := Admit(tt.label); got != tt.want {
			t.Errorf("Admit(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func testTable() *taxonomy.Table {
	return taxonomy.NewTable([]taxonomy.Mapping{
		{ID: "Over/Under", Maps: []string{"over/under", "total", "o/u"}},
		{ID: "Handicap", Maps: []string{"handicap", "spread"}},
		{ID: "Moneyline", Maps: []string{"moneyline", "1x2"}},
	})
}

func TestBuildTree_OverUnder(t *testing.T) {
	n := NewNormalizer(testTable(), EncodingDecimal, nil)
	ev := &models.SourceEvent{
		Competitor1: "Team B",
		Competitor2: "Team A",
		Markets: []models.RawMarketRecord{
			{
				Label: "Over/Under 2.5 Goals",
				Outcomes: []models.RawOutcome{
					{Label: "Over 2.5", Price: "1.90", Line: "2.5"},
					{Label: "Under 2.5", Price: "1.95"},
				},
			},
		},
	}

	tree := n.BuildTree(ev)
	want := models.OddsTree{
		"Full Match": {
			"Over/Under": {
				"2.5": {"+": 1.9, "-": 2.0},
			},
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("tree = %#v, want %#v", tree, want)
	}
}

func TestBuildTree_HandicapSidesShareOneLine(t *testing.T) {
	n := NewNormalizer(testTable(), EncodingDecimal, nil)
	ev := &models.SourceEvent{
		Competitor1: "Lakers",
		Competitor2: "Celtics",
		Markets: []models.RawMarketRecord{
			{
				Label: "Point Spread",
				Outcomes: []models.RawOutcome{
					{Label: "Lakers", Price: "1.87", Line: "3.5", Side: "H"},
					{Label: "Celtics", Price: "1.95", Line: "3.5", Side: "A"},
				},
			},
		},
	}

	tree := n.BuildTree(ev)
	market := tree["Full Match"]["Handicap"]
	if market == nil {
		t.Fatalf("handicap market missing: %#v", tree)
	}
	home, ok := market["-3.5"]["1"]
	if !ok || home != 1.9 {
		t.Errorf("home side = %v (ok=%v), want 1.9 under line -3.5", home, ok)
	}
	away, ok := market["3.5"]["2"]
	if !ok || away != 2.0 {
		t.Errorf("away side = %v (ok=%v), want 2.0 under line 3.5", away, ok)
	}
}

func TestBuildTree_SplitLineMidpoint(t *testing.T) {
	n := NewNormalizer(testTable(), EncodingDecimal, nil)
	ev := &models.SourceEvent{
		Markets: []models.RawMarketRecord{
			{
				Label: "Asian Handicap",
				Outcomes: []models.RawOutcome{
					{Label: "over", Price: "1.80", Line: "2.5", Line2: "3"},
					{Label: "under", Price: "2.05", Line: "2.5", Line2: "3"},
				},
			},
		},
	}

	tree := n.BuildTree(ev)
	got := tree["Full Match"]["Handicap"]["2.75"]
	want := map[string]float64{"+": 1.8, "-": 2.1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("line 2.75 = %#v, want %#v", got, want)
	}
}

func TestBuildTree_AmericanPrices(t *testing.T) {
	n := NewNormalizer(testTable(), EncodingAmerican, nil)
	ev := &models.SourceEvent{
		Markets: []models.RawMarketRecord{
			{
				Label: "Moneyline",
				Outcomes: []models.RawOutcome{
					{Label: "Home", Price: "-150"},
					{Label: "Draw", Price: "+240"},
					{Label: "Away", Price: "EVEN"},
				},
			},
		},
	}

	tree := n.BuildTree(ev)
	want := models.OddsTree{
		"Full Match": {
			"Moneyline": {
				"null": {"1": 1.7, "x": 3.4, "2": 2.0},
			},
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("tree = %#v, want %#v", tree, want)
	}
}

func TestBuildTree_EmptyPriceOmitsOutcome(t *testing.T) {
	n := NewNormalizer(testTable(), EncodingDecimal, nil)
	ev := &models.SourceEvent{
		Markets: []models.RawMarketRecord{
			{
				Label: "Total Goals",
				Outcomes: []models.RawOutcome{
					{Label: "Over", Price: "", Line: "1.5"},
					{Label: "Under", Price: "  ", Line: "1.5"},
				},
			},
		},
	}

	tree := n.BuildTree(ev)
	if !tree.IsEmpty() {
		t.Errorf("expected empty tree when every price is blank, got %#v", tree)
	}
}

func TestBuildTree_DropsUnadmittedMarkets(t *testing.T) {
	n := NewNormalizer(testTable(), EncodingDecimal, nil)
	ev := &models.SourceEvent{
		Markets: []models.RawMarketRecord{
			{
				Label: "First Goalscorer",
				Outcomes: []models.RawOutcome{
					{Label: "Somebody", Price: "5.00"},
				},
			},
		},
	}

	if tree := n.BuildTree(ev); !tree.IsEmpty() {
		t.Errorf("prop market should not survive, got %#v", tree)
	}
}

func TestBuildTree_UnmappedMarketFailsOpen(t *testing.T) {
	n := NewNormalizer(testTable(), EncodingDecimal, nil)
	ev := &models.SourceEvent{
		Markets: []models.RawMarketRecord{
			{
				Label: "Both Team To Score Goal",
				Outcomes: []models.RawOutcome{
					{Label: "yes", Price: "1.70"},
					{Label: "no", Price: "2.10"},
				},
			},
		},
	}

	tree := n.BuildTree(ev)
	got, ok := tree["Full Match"]["Both Team To Score Goal"]
	if !ok {
		t.Fatalf("unmapped market should keep its raw label, got %#v", tree)
	}
	want := map[string]map[string]float64{"null": {"yes": 1.7, "no": 2.1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("market = %#v, want %#v", got, want)
	}
}
