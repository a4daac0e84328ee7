package models

import (
	"reflect"
	"testing"
)

func TestOddsTree_Set(t *testing.T) {
	tree := OddsTree{}
	tree.Set("Full Match", "Over/Under", "2.5", "+", 1.9)
	tree.Set("Full Match", "Over/Under", "2.5", "-", 2.0)
	tree.Set("1st Half", "Moneyline", LineNone, "1", 2.1)

	want := OddsTree{
		"Full Match": {
			"Over/Under": {"2.5": {"+": 1.9, "-": 2.0}},
		},
		"1st Half": {
			"Moneyline": {"null": {"1": 2.1}},
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("tree = %#v, want %#v", tree, want)
	}
}

func TestOddsTree_SetOverwrites(t *testing.T) {
	tree := OddsTree{}
	tree.Set("Full Match", "Moneyline", LineNone, "1", 1.8)
	tree.Set("Full Match", "Moneyline", LineNone, "1", 1.9)
	if got := tree["Full Match"]["Moneyline"]["null"]["1"]; got != 1.9 {
		t.Errorf("price = %v, want last write 1.9", got)
	}
}

func TestOddsTree_Prune(t *testing.T) {
	tree := OddsTree{
		"Full Match": {
			"Over/Under": {
				"2.5": {"+": 1.9},
				"3.5": {},
			},
			"Handicap": {"null": {}},
		},
		"1st Half": {
			"Moneyline": {},
		},
	}
	tree.Prune()

	want := OddsTree{
		"Full Match": {
			"Over/Under": {"2.5": {"+": 1.9}},
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("after prune tree = %#v, want %#v", tree, want)
	}

	// Prune is idempotent.
	tree.Prune()
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("second prune changed the tree: %#v", tree)
	}
}

func TestOddsTree_Merge(t *testing.T) {
	tree := OddsTree{}
	tree.Set("Full Match", "Over/Under", "2.5", "+", 1.9)
	tree.Set("Full Match", "Moneyline", LineNone, "1", 2.1)

	update := OddsTree{}
	update.Set("Full Match", "Over/Under", "2.5", "+", 1.8) // fresher price
	update.Set("1st Half", "Moneyline", LineNone, "x", 3.4)

	tree.Merge(update)

	want := OddsTree{
		"Full Match": {
			"Over/Under": {"2.5": {"+": 1.8}},
			"Moneyline":  {"null": {"1": 2.1}},
		},
		"1st Half": {
			"Moneyline": {"null": {"x": 3.4}},
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("after merge tree = %#v, want %#v", tree, want)
	}

	// Merging the same update again changes nothing.
	tree.Merge(update)
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("second merge changed the tree: %#v", tree)
	}
}

func TestOddsTree_IsEmpty(t *testing.T) {
	tree := OddsTree{}
	if !tree.IsEmpty() {
		t.Error("fresh tree should be empty")
	}
	tree.Set("Full Match", "Moneyline", LineNone, "1", 1.5)
	if tree.IsEmpty() {
		t.Error("tree with one price should not be empty")
	}
	tree = OddsTree{"Full Match": {"Moneyline": {"null": {}}}}
	if !tree.IsEmpty() {
		t.Error("tree with only empty branches should report empty")
	}
}

func TestNormalizeSportToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Soccer", "soccer"},
		{"Table Tennis", "tabletennis"},
		{"table-tennis", "tabletennis"},
		{"  Ice Hockey ", "icehockey"},
	}
	for _, tt := range tests {
		if got := NormalizeSportToken(tt.in); got != tt.want {
			t.Errorf("NormalizeSportToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
