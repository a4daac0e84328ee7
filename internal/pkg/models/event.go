package models

import (
	"strings"
	"time"
)

// Match status values as persisted on the canonical record.
const (
	StatusScheduled = "sched"
	StatusLive      = "live"
	StatusFinished  = "Finished"
	StatusPostponed = "Postponed"
	StatusCancelled = "Cancelled"
	StatusAbandoned = "Abandoned"
)

// CanonicalEvent is the single de-duplicated representation of a real-world
// fixture. It is created by the reference-provider ingest and mutated only via
// odds-tree merges and status/score updates. Field names are the persisted
// document shape and must not change.
type CanonicalEvent struct {
	MatchID     string               `json:"match_id"`
	Sport       string               `json:"sport"`
	Country     string               `json:"country"`
	Group       string               `json:"group"`
	Timestamp   time.Time            `json:"timestamp"` // always UTC
	Competitor1 string               `json:"competitor1"`
	Competitor2 string               `json:"competitor2"`
	Status      string               `json:"status"`
	Prices      map[string]OddsTree  `json:"prices"` // bookmaker -> odds tree
	Score1      string               `json:"currentScore_competitor1"`
	Score2      string               `json:"currentScore_competitor2"`
}

// SourceEvent is one bookmaker's view of a fixture, as supplied by a
// fetch/parse collaborator. The core makes no assumption about how it was
// obtained.
type SourceEvent struct {
	SourceID    string    // source-native event id
	Sport       string    // raw sport label as published by the source
	Country     string
	Group       string
	Competitor1 string
	Competitor2 string
	Timestamp   time.Time // zero for live records
	Live        bool
	Score1      string
	Score2      string
	Markets     []RawMarketRecord
}

// RawMarketRecord is one betting market for one event, exactly as the source
// published it.
type RawMarketRecord struct {
	Label    string
	Outcomes []RawOutcome
}

// RawOutcome is a single selection within a raw market. Price stays in the
// source encoding; Line and Line2 carry the handicap metadata when present
// (Line2 is the second half of a split Asian line).
type RawOutcome struct {
	Label string
	Price string
	Line  string
	Line2 string
	// Side marks two-sided handicap perspective: "H" home, "A" away,
	// "O"/"U" over/under. Empty when the source does not encode sides.
	Side string
}

// MergeOp is one idempotent persistence operation: a partial-field merge onto
// the canonical record identified by MatchID. Tree merges under
// prices.<Bookmaker>; Status/Score fields are set only when non-empty.
type MergeOp struct {
	MatchID   string
	Bookmaker string
	Tree      OddsTree
	Status    string
	Score1    string
	Score2    string
}

// NormalizeSportToken reduces a sport label to its comparison token: lowercase
// with hyphens and spaces removed, so "Table Tennis", "table-tennis" and
// "TableTennis" all bucket together.
func NormalizeSportToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
