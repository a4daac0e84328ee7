package markets

import "strings"

// signalKeywords admits a market for processing: its label must contain at
// least one of these. This is a recall/precision tuning surface: a false
// negative silently drops a valid market, a false positive is filtered
// downstream by the taxonomy lookup failing open.
var signalKeywords = []string{
	"point", "moneyline", "spread", "goal", "total", "3 way", "3-way",
	"correct score", "over", "under", "asian", "handicap",
	"both team to score", "double chance", "draw no bet",
	"half", "set", "inning", "quarter", "period",
}

// noiseKeywords rejects prop-bet phrasing outright. Team names are rewritten
// to home/away before filtering, so "home"/"away" here drops player- and
// team-prop markets that survived the rewrite.
var noiseKeywords = []string{
	"?", "will", "who", "touchdowns", "range", "did", "does", "hour",
	"minutes", "halves", "scorer", "betting", "1 .ht", "1. ht", "1.ht",
	"how", "which", "result", "win", "halftime", "legs", "tackles",
	"attempts", "final", "frame", "side", ")", "(", "wides", "highest",
	"run", "four", "sixes", "assists", "made", "home", "away", "rebounds",
	"milestones", "qualify", "exact", "bottom", "top", "wicket",
	"at least", "at end", "at the end", "before", "after", "fulltime",
	"lead",
}

// Admit reports whether a market label should be processed at all.
func Admit(label string) bool {
	lower := strings.ToLower(label)

	signal := false
	for _, w := range signalKeywords {
		if strings.Contains(lower, w) {
			signal = true
			break
		}
	}
	if !signal {
		return false
	}
	for _, w := range noiseKeywords {
		if strings.Contains(lower, w) {
			return false
		}
	}

	// Combined point-spread+O/U widgets and outright winner markets are
	// noise regardless of segment.
	reject := (strings.Contains(lower, "point spread") && strings.Contains(lower, "o/u")) ||
		strings.Contains(lower, "winner")

	if strings.Contains(lower, "half") {
		return !reject
	}
	// Outside half markets, "first ..." phrasing is prop territory
	// ("first to score", "first goalscorer").
	if strings.Contains(lower, "first") {
		return false
	}
	return !reject
}
