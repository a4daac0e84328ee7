package markets

import (
	"log/slog"
	"strings"

	"github.com/linesmith/linesmith/internal/pkg/models"
	"github.com/linesmith/linesmith/internal/pkg/odds"
	"github.com/linesmith/linesmith/internal/pkg/taxonomy"
)

// Encoding selects how a source publishes its prices.
type Encoding int

const (
	EncodingDecimal Encoding = iota
	EncodingAmerican
	EncodingFractional
)

// Normalizer turns one source's raw market records into a canonical odds
// tree. It is stateless between events and safe for concurrent use.
type Normalizer struct {
	Table    *taxonomy.Table
	Encoding Encoding
	Logger   *slog.Logger
}

func NewNormalizer(table *taxonomy.Table, enc Encoding, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{Table: table, Encoding: enc, Logger: logger}
}

// BuildTree normalizes every admitted market of ev and returns the pruned
// tree. An empty tree (no market survived) is returned non-nil so callers can
// test IsEmpty without a nil check.
func (n *Normalizer) BuildTree(ev *models.SourceEvent) models.OddsTree {
	tree := models.OddsTree{}
	for _, m := range ev.Markets {
		n.normalizeMarket(tree, ev, m)
	}
	tree.Prune()
	return tree
}

func (n *Normalizer) normalizeMarket(tree models.OddsTree, ev *models.SourceEvent, m models.RawMarketRecord) {
	label := rewriteLabel(m.Label, ev.Competitor1, ev.Competitor2)
	if !Admit(label) {
		n.Logger.Debug("market not admitted", "market", m.Label)
		return
	}

	segment, residual := ClassifySegment(label)
	canonical, ovs := n.Table.Lookup(residual)

	baseLine := firstLine(m.Outcomes)
	for _, o := range m.Outcomes {
		price, ok := n.convertPrice(o.Price)
		if !ok {
			continue
		}
		line := n.outcomeLine(o, baseLine)
		name := n.outcomeName(o, ev, ovs)
		tree.Set(segment, canonical, line, name, price)
	}
}

func (n *Normalizer) convertPrice(price string) (float64, bool) {
	switch n.Encoding {
	case EncodingAmerican:
		return odds.ConvertAmerican(price)
	case EncodingFractional:
		return odds.ConvertFractional(price)
	default:
		return odds.ConvertDecimal(price)
	}
}

// outcomeLine resolves the line for one selection: its own metadata first,
// the market-level line otherwise. Split Asian lines collapse to their
// midpoint, and the home side of a two-sided handicap is negated so both
// sides land on one canonical key.
func (n *Normalizer) outcomeLine(o models.RawOutcome, base models.RawOutcome) string {
	src := o
	if src.Line == "" {
		src = base
	}
	if src.Line == "" {
		return models.LineNone
	}
	line := src.Line
	if src.Line2 != "" {
		mid, err := odds.MeanLine(src.Line, src.Line2)
		if err != nil {
			n.Logger.Debug("bad split line", "line", src.Line, "line2", src.Line2, "error", err)
			return models.LineNone
		}
		line = mid
	}
	if o.Side == "H" {
		line = odds.NegateHandicap(line)
	}
	return line
}

func (n *Normalizer) outcomeName(o models.RawOutcome, ev *models.SourceEvent, ovs []taxonomy.Mapping) string {
	name := rewriteLabel(o.Label, ev.Competitor1, ev.Competitor2)
	switch o.Side {
	case "H":
		return models.OutcomeHome
	case "A":
		return models.OutcomeAway
	case "O":
		return models.OutcomeOver
	case "U":
		return models.OutcomeUnder
	}
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "home"):
		return models.OutcomeHome
	case strings.Contains(lower, "away"):
		return models.OutcomeAway
	case strings.Contains(lower, "tie"), strings.Contains(lower, "draw"):
		return models.OutcomeDraw
	case strings.Contains(lower, "under"):
		return models.OutcomeUnder
	case strings.Contains(lower, "over"):
		return models.OutcomeOver
	}
	return taxonomy.LookupOutcome(name, ovs)
}

// rewriteLabel replaces competitor names embedded in a label with the
// home/away words the keyword reduction understands, and folds the
// parenthesized 3-way spelling into the alias the taxonomy carries.
func rewriteLabel(label, competitor1, competitor2 string) string {
	out := label
	if competitor1 != "" {
		out = replaceFold(out, competitor1, "Home")
	}
	if competitor2 != "" {
		out = replaceFold(out, competitor2, "Away")
	}
	return strings.ReplaceAll(out, "(3-way)", "3-way")
}

func replaceFold(s, old, new string) string {
	lower := strings.ToLower(s)
	oldLower := strings.ToLower(old)
	i := strings.Index(lower, oldLower)
	if i < 0 {
		return s
	}
	return s[:i] + new + s[i+len(old):]
}

func firstLine(outcomes []models.RawOutcome) models.RawOutcome {
	for _, o := range outcomes {
		if o.Line != "" {
			return o
		}
	}
	return models.RawOutcome{}
}
