// Package taxonomy holds the market/selection alias table: the externally
// maintained mapping from raw, site-specific labels to canonical market and
// outcome ids. Lookups fail open, an unmapped label passes through verbatim,
// so an incomplete table degrades gracefully instead of dropping markets.
package taxonomy

import "strings"

// Mapping is one taxonomy entry: a canonical id, its known aliases, and
// optionally the outcome-value mappings for markets whose selections are not
// simple 1X2/Over-Under.
type Mapping struct {
	ID   string    `json:"id" yaml:"id"`
	Maps []string  `json:"maps,omitempty" yaml:"maps,omitempty"`
	OVs  []Mapping `json:"ovs,omitempty" yaml:"ovs,omitempty"`
}

// Table is the run-scoped alias table. Iteration order is load order: the
// first matching entry wins, deliberately unscored and unsorted.
type Table struct {
	entries []Mapping
}

// NewTable builds a table from entries in their stored order.
func NewTable(entries []Mapping) *Table {
	return &Table{entries: entries}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup resolves a raw market label to its canonical id plus the entry's
// outcome-value mappings. Exact case-insensitive id match first, then
// containment against any alias, first entry wins. A miss returns the raw
// label unchanged and no outcome mappings.
func (t *Table) Lookup(label string) (string, []Mapping) {
	if t == nil {
		return label, nil
	}
	lower := strings.ToLower(label)
	for _, m := range t.entries {
		if lower == strings.ToLower(m.ID) {
			return m.ID, m.OVs
		}
		for _, alias := range m.Maps {
			if strings.Contains(lower, alias) {
				return m.ID, m.OVs
			}
		}
	}
	return label, nil
}

// LookupOutcome resolves an outcome label against a market's own
// outcome-value mappings, using the same first-match algorithm with
// bidirectional containment (alias in label or label in alias). A miss
// returns the input unchanged.
func LookupOutcome(name string, ovs []Mapping) string {
	if len(ovs) == 0 {
		return name
	}
	lower := strings.ToLower(name)
	for _, ov := range ovs {
		if ov.ID == name || ov.ID == lower {
			return ov.ID
		}
		for _, alias := range ov.Maps {
			alias = strings.Trim(alias, "[]")
			if alias == "" {
				continue
			}
			if strings.Contains(alias, lower) || strings.Contains(lower, alias) {
				return ov.ID
			}
		}
	}
	return name
}

// NormalizeEntry lowercases ids and aliases the way the seed path stores
// them; single-string maps become one-element lists upstream of this call.
func NormalizeEntry(m Mapping) Mapping {
	out := Mapping{ID: strings.ToLower(m.ID)}
	for _, alias := range m.Maps {
		out.Maps = append(out.Maps, strings.ToLower(alias))
	}
	for _, ov := range m.OVs {
		out.OVs = append(out.OVs, NormalizeEntry(ov))
	}
	return out
}
