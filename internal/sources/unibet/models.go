package unibet

import "encoding/json"

// feedResponse is the sportsbook-feeds layout envelope shared by the a-z
// navigation and the per-sport matches view. The payload of interest sits in
// the second section's first widget.
type feedResponse struct {
	Layout struct {
		Sections []struct {
			Widgets []widget `json:"widgets"`
		} `json:"sections"`
	} `json:"layout"`
}

type widget struct {
	Sports  []sportEntry `json:"sports"`
	Matches *matchList   `json:"matches"`
}

type sportEntry struct {
	Name string `json:"name"`
}

type matchList struct {
	Groups []matchGroup `json:"groups"`
}

// matchGroup nests country -> league when subGroups is set, otherwise the
// group itself is the league and carries the events directly.
type matchGroup struct {
	Sport     string       `json:"sport"`
	Name      string       `json:"name"`
	SubGroups []matchGroup `json:"subGroups"`
	Events    []matchEvent `json:"events"`
}

// matchEvent wraps one fixture. The presence of liveData is the in-play
// marker; its contents are not otherwise needed.
type matchEvent struct {
	Event    eventInfo       `json:"event"`
	LiveData json.RawMessage `json:"liveData"`
}

type eventInfo struct {
	ID       int64  `json:"id"`
	Start    string `json:"start"`
	HomeName string `json:"homeName"`
	AwayName string `json:"awayName"`
}

// betOfferResponse is the Kambi offering payload for one event.
type betOfferResponse struct {
	BetOffers []betOffer `json:"betOffers"`
}

type betOffer struct {
	Criterion criterion    `json:"criterion"`
	Outcomes  []betOutcome `json:"outcomes"`
}

type criterion struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// betOutcome carries the line in thousandths and the price as a fractional
// string ("5/2", "Evens").
type betOutcome struct {
	Label          string `json:"label"`
	Line           int64  `json:"line"`
	OddsFractional string `json:"oddsFractional"`
}
