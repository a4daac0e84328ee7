package models

// Segment names used as the first level of an odds tree. The exact strings
// are part of the persisted document shape (note the historical lowercase
// "period" variants).
const (
	SegmentFullMatch = "Full Match"
)

// LineNone is the sentinel line for markets without a handicap/total.
const LineNone = "null"

// Canonical outcome ids for the common selection shapes.
const (
	OutcomeHome  = "1"
	OutcomeAway  = "2"
	OutcomeDraw  = "x"
	OutcomeOver  = "+"
	OutcomeUnder = "-"
)

// OddsTree is the nested mapping segment -> market -> line -> outcome -> price.
// Prices are canonical decimal odds rounded to one decimal place. Keys are only
// ever present together with their parent levels; Set is the one write path.
type OddsTree map[string]map[string]map[string]map[string]float64

// Set inserts a price, creating intermediate levels as needed.
func (t OddsTree) Set(segment, market, line, outcome string, price float64) {
	seg, ok := t[segment]
	if !ok {
		seg = make(map[string]map[string]map[string]float64)
		t[segment] = seg
	}
	mkt, ok := seg[market]
	if !ok {
		mkt = make(map[string]map[string]float64)
		seg[market] = mkt
	}
	ln, ok := mkt[line]
	if !ok {
		ln = make(map[string]float64)
		mkt[line] = ln
	}
	ln[outcome] = price
}

// Prune removes branches with no leaves: lines without outcomes, markets
// without lines, segments without markets. A tree whose every price was
// omitted upstream prunes to empty.
func (t OddsTree) Prune() {
	for segName, seg := range t {
		for mktName, mkt := range seg {
			for lnName, ln := range mkt {
				if len(ln) == 0 {
					delete(mkt, lnName)
				}
			}
			if len(mkt) == 0 {
				delete(seg, mktName)
			}
		}
		if len(seg) == 0 {
			delete(t, segName)
		}
	}
}

// Merge overlays other onto t leaf by leaf. Prices present in other replace
// prices at the same path in t; everything else in t is kept. Merging the
// same tree twice is a no-op the second time.
func (t OddsTree) Merge(other OddsTree) {
	for segment, seg := range other {
		for market, mkt := range seg {
			for line, ln := range mkt {
				for outcome, price := range ln {
					t.Set(segment, market, line, outcome, price)
				}
			}
		}
	}
}

// IsEmpty reports whether the tree has no priced outcomes at all.
func (t OddsTree) IsEmpty() bool {
	for _, seg := range t {
		for _, mkt := range seg {
			for _, ln := range mkt {
				if len(ln) > 0 {
					return false
				}
			}
		}
	}
	return true
}
